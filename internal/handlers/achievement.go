package handlers

import (
	"net/http"

	"vocaboost-backend/internal/middleware"
	"vocaboost-backend/internal/repository"
	"vocaboost-backend/internal/services"
)

type AchievementHandler struct {
	achievementRepo *repository.AchievementRepo
	achievements    *services.AchievementService
}

func NewAchievementHandler(achievementRepo *repository.AchievementRepo, achievements *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementRepo: achievementRepo, achievements: achievements}
}

// Catalog lists every active achievement. Public: the catalog is the same for
// everyone.
func (h *AchievementHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.achievementRepo.ListActive(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch achievements", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": achievements})
}

func (h *AchievementHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, err := queryInt(r, "limit", 0, 1, 100)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	earned, err := h.achievementRepo.ListByUser(r.Context(), userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch achievements", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": earned})
}

// Check re-evaluates the caller's milestones on demand and returns anything
// newly awarded.
func (h *AchievementHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	newly, err := h.achievements.Evaluate(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to evaluate achievements", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"new_achievements": newly})
}
