package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vocaboost-backend/internal/middleware"
	"vocaboost-backend/internal/models"
	"vocaboost-backend/internal/repository"
	"vocaboost-backend/internal/services"
)

type SavedSetHandler struct {
	savedRepo    *repository.SavedSetRepo
	flashRepo    *repository.FlashcardRepo
	achievements *services.AchievementService
}

func NewSavedSetHandler(savedRepo *repository.SavedSetRepo, flashRepo *repository.FlashcardRepo, achievements *services.AchievementService) *SavedSetHandler {
	return &SavedSetHandler{savedRepo: savedRepo, flashRepo: flashRepo, achievements: achievements}
}

func (h *SavedSetHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.SaveSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.SetID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "flashcard_set_id is required", r))
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "rating must be between 1 and 5", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	set, err := h.flashRepo.GetSetByID(r.Context(), req.SetID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard set not found", r))
		return
	}
	if !set.IsPublic && set.CreatorID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard set not found", r))
		return
	}

	saved := &models.SavedFlashcardSet{
		UserID:     userID,
		SetID:      req.SetID,
		IsFavorite: req.IsFavorite,
		Rating:     req.Rating,
	}

	created, err := h.savedRepo.Save(r.Context(), saved)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save set", r))
		return
	}

	if created {
		if _, err := h.achievements.Evaluate(r.Context(), userID); err != nil {
			log.Printf("achievement evaluation after save failed: %v", err)
		}
		writeJSON(w, http.StatusCreated, saved)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

func (h *SavedSetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	favoritesOnly := r.URL.Query().Get("favorites") == "true"

	saved, err := h.savedRepo.ListByUser(r.Context(), userID, favoritesOnly)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch saved sets", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"saved_sets": saved})
}

func (h *SavedSetHandler) Update(w http.ResponseWriter, r *http.Request) {
	saved, ok := h.ownedSave(w, r)
	if !ok {
		return
	}

	var req models.SaveSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "rating must be between 1 and 5", r))
		return
	}

	saved.IsFavorite = req.IsFavorite
	saved.Rating = req.Rating

	if err := h.savedRepo.Update(r.Context(), saved); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update saved set", r))
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

func (h *SavedSetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	saved, ok := h.ownedSave(w, r)
	if !ok {
		return
	}

	if err := h.savedRepo.Delete(r.Context(), saved.ID, saved.SetID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to remove saved set", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Saved set removed"})
}

func (h *SavedSetHandler) ownedSave(w http.ResponseWriter, r *http.Request) (*models.SavedFlashcardSet, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid saved set ID", r))
		return nil, false
	}

	saved, err := h.savedRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Saved set not found", r))
		return nil, false
	}

	if saved.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return saved, true
}
