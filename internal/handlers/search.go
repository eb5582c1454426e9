package handlers

import (
	"net/http"
	"strings"

	"vocaboost-backend/internal/repository"
)

const searchResultLimit = 20

type SearchHandler struct {
	topicRepo *repository.TopicRepo
	flashRepo *repository.FlashcardRepo
}

func NewSearchHandler(topicRepo *repository.TopicRepo, flashRepo *repository.FlashcardRepo) *SearchHandler {
	return &SearchHandler{topicRepo: topicRepo, flashRepo: flashRepo}
}

// Search looks across topics, public sets and public cards with one query.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "q is required", r))
		return
	}

	topics, err := h.topicRepo.SearchActive(r.Context(), q, searchResultLimit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Search failed", r))
		return
	}

	sets, err := h.flashRepo.SearchPublicSets(r.Context(), q, searchResultLimit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Search failed", r))
		return
	}

	cards, err := h.flashRepo.SearchPublicCards(r.Context(), q, searchResultLimit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Search failed", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"topics":         topics,
		"flashcard_sets": sets,
		"flashcards":     cards,
	})
}
