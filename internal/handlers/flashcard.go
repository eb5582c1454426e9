package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vocaboost-backend/internal/middleware"
	"vocaboost-backend/internal/models"
	"vocaboost-backend/internal/repository"
)

var validDifficulties = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

var validWordTypes = map[string]bool{
	"noun":      true,
	"verb":      true,
	"adjective": true,
	"adverb":    true,
	"phrase":    true,
	"other":     true,
}

type FlashcardHandler struct {
	flashRepo *repository.FlashcardRepo
	topicRepo *repository.TopicRepo
}

func NewFlashcardHandler(flashRepo *repository.FlashcardRepo, topicRepo *repository.TopicRepo) *FlashcardHandler {
	return &FlashcardHandler{flashRepo: flashRepo, topicRepo: topicRepo}
}

func (h *FlashcardHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	filter := models.SetListFilter{
		Difficulty: r.URL.Query().Get("difficulty"),
		Search:     r.URL.Query().Get("search"),
		Ordering:   r.URL.Query().Get("ordering"),
	}

	if filter.Difficulty != "" && !validDifficulties[filter.Difficulty] {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "difficulty must be beginner, intermediate or advanced", r))
		return
	}

	if v := r.URL.Query().Get("topic_id"); v != "" {
		topicID, err := uuid.Parse(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid topic ID", r))
			return
		}
		filter.TopicID = &topicID
	}

	sets, err := h.flashRepo.ListPublicSets(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch sets", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"flashcard_sets": sets})
}

// Get returns a set with its cards. Private sets are visible to their creator
// only; everyone else gets 404 rather than confirmation the set exists.
func (h *FlashcardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid set ID", r))
		return
	}

	set, err := h.flashRepo.GetSetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard set not found", r))
		return
	}

	if !set.IsPublic && set.CreatorID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard set not found", r))
		return
	}

	cards, _ := h.flashRepo.GetCardsBySet(r.Context(), id)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flashcard_set": set,
		"flashcards":    cards,
	})
}

func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlashcardSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "title is required", r))
		return
	}
	if !validDifficulties[req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "difficulty must be beginner, intermediate or advanced", r))
		return
	}

	if _, err := h.topicRepo.GetByID(r.Context(), req.TopicID); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Topic not found", r))
		return
	}

	set := &models.FlashcardSet{
		TopicID:     req.TopicID,
		CreatorID:   middleware.GetUserID(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Difficulty:  req.Difficulty,
	}

	if err := h.flashRepo.CreateSet(r.Context(), set); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create set", r))
		return
	}

	writeJSON(w, http.StatusCreated, set)
}

func (h *FlashcardHandler) Update(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	var req models.CreateFlashcardSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "title is required", r))
		return
	}
	if !validDifficulties[req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "difficulty must be beginner, intermediate or advanced", r))
		return
	}
	if req.TopicID != set.TopicID {
		if _, err := h.topicRepo.GetByID(r.Context(), req.TopicID); err != nil {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Topic not found", r))
			return
		}
	}

	set.TopicID = req.TopicID
	set.Title = req.Title
	set.Description = req.Description
	set.IsPublic = req.IsPublic
	set.Difficulty = req.Difficulty

	if err := h.flashRepo.UpdateSet(r.Context(), set); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update set", r))
		return
	}

	writeJSON(w, http.StatusOK, set)
}

func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	if err := h.flashRepo.DeleteSet(r.Context(), set.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete set", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard set deleted"})
}

func (h *FlashcardHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sets, err := h.flashRepo.ListSetsByCreator(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch sets", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"flashcard_sets": sets})
}

// AddCards appends a batch of cards to a set the caller owns.
func (h *FlashcardHandler) AddCards(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	var req struct {
		Flashcards []models.CreateFlashcardRequest `json:"flashcards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if len(req.Flashcards) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "flashcards must not be empty", r))
		return
	}

	cards := make([]models.Flashcard, 0, len(req.Flashcards))
	for _, c := range req.Flashcards {
		if c.Vietnamese == "" || c.English == "" {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "vietnamese and english are required on every card", r))
			return
		}
		wordType := c.WordType
		if wordType == "" {
			wordType = "other"
		}
		if !validWordTypes[wordType] {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "word_type must be noun, verb, adjective, adverb, phrase or other", r))
			return
		}
		cards = append(cards, models.Flashcard{
			Vietnamese:      c.Vietnamese,
			English:         c.English,
			ExampleSentence: c.ExampleSentence,
			WordType:        wordType,
		})
	}

	if err := h.flashRepo.CreateCards(r.Context(), set.ID, cards); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create cards", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"flashcards": cards})
}

func (h *FlashcardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return
	}

	card, err := h.flashRepo.GetCardByID(r.Context(), cardID)
	if err != nil || card.SetID != set.ID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		return
	}

	var req models.CreateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Vietnamese == "" || req.English == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "vietnamese and english are required", r))
		return
	}
	if req.WordType == "" {
		req.WordType = "other"
	}
	if !validWordTypes[req.WordType] {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "word_type must be noun, verb, adjective, adverb, phrase or other", r))
		return
	}

	card.Vietnamese = req.Vietnamese
	card.English = req.English
	card.ExampleSentence = req.ExampleSentence
	card.WordType = req.WordType

	if err := h.flashRepo.UpdateCard(r.Context(), card); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update card", r))
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return
	}

	card, err := h.flashRepo.GetCardByID(r.Context(), cardID)
	if err != nil || card.SetID != set.ID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		return
	}

	if err := h.flashRepo.DeleteCard(r.Context(), cardID, set.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete card", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard deleted"})
}

// ownedSet resolves the {id} URL param to a set owned by the caller, writing
// the error response itself when that fails.
func (h *FlashcardHandler) ownedSet(w http.ResponseWriter, r *http.Request) (*models.FlashcardSet, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid set ID", r))
		return nil, false
	}

	set, err := h.flashRepo.GetSetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard set not found", r))
		return nil, false
	}

	if set.CreatorID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return set, true
}
