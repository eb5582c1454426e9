package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vocaboost-backend/internal/repository"
	"vocaboost-backend/internal/services"
)

type TopicHandler struct {
	topicRepo   *repository.TopicRepo
	flashRepo   *repository.FlashcardRepo
	suggestions *services.SuggestionService
}

func NewTopicHandler(topicRepo *repository.TopicRepo, flashRepo *repository.FlashcardRepo, suggestions *services.SuggestionService) *TopicHandler {
	return &TopicHandler{topicRepo: topicRepo, flashRepo: flashRepo, suggestions: suggestions}
}

func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topicRepo.ListActive(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch topics", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"topics": topics})
}

func (h *TopicHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid topic ID", r))
		return
	}

	topic, err := h.topicRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Topic not found", r))
		return
	}

	writeJSON(w, http.StatusOK, topic)
}

// Suggestions returns public sets for a topic, best match first. Ranking is
// semantic when the embedding backend is configured, popularity otherwise.
func (h *TopicHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid topic ID", r))
		return
	}

	topic, err := h.topicRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Topic not found", r))
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 50 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "limit must be between 1 and 50", r))
			return
		}
	}

	candidates, err := h.flashRepo.ListPublicSetsByTopic(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch sets", r))
		return
	}

	ranked := h.suggestions.SuggestSets(r.Context(), topic, candidates, limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": ranked})
}
