package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"vocaboost-backend/internal/middleware"
	"vocaboost-backend/internal/models"
	"vocaboost-backend/internal/repository"
	"vocaboost-backend/internal/services"
)

type StudyHandler struct {
	studyService *services.StudyService
	progressRepo *repository.ProgressRepo
	feedbackRepo *repository.FeedbackRepo
}

func NewStudyHandler(studyService *services.StudyService, progressRepo *repository.ProgressRepo, feedbackRepo *repository.FeedbackRepo) *StudyHandler {
	return &StudyHandler{studyService: studyService, progressRepo: progressRepo, feedbackRepo: feedbackRepo}
}

func (h *StudyHandler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	var req models.StudySessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	summary, err := h.studyService.SubmitSession(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *StudyHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var setID *uuid.UUID
	if v := r.URL.Query().Get("flashcard_set_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid set ID", r))
			return
		}
		setID = &id
	}

	status := r.URL.Query().Get("status")
	switch status {
	case "", "learned", "difficult", "needs_review":
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "status must be learned, difficult or needs_review", r))
		return
	}

	progress, err := h.progressRepo.ListByUser(r.Context(), userID, setID, status)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch progress", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": progress})
}

// SubmitFeedback stores a difficulty rating for one card; repeat submissions
// overwrite the previous rating.
func (h *StudyHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FlashcardID uuid.UUID `json:"flashcard_id"`
		Rating      int       `json:"rating"`
		Comment     string    `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.FlashcardID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "flashcard_id is required", r))
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "rating must be between 1 and 5", r))
		return
	}

	feedback := &models.UserFeedback{
		UserID:      middleware.GetUserID(r.Context()),
		FlashcardID: req.FlashcardID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}

	if err := h.feedbackRepo.Upsert(r.Context(), feedback); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store feedback", r))
		return
	}

	writeJSON(w, http.StatusCreated, feedback)
}

func (h *StudyHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	feedback, err := h.feedbackRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch feedback", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": feedback})
}
