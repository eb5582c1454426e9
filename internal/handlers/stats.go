package handlers

import (
	"net/http"
	"time"

	"vocaboost-backend/internal/middleware"
	"vocaboost-backend/internal/repository"
	"vocaboost-backend/internal/services"
)

type StatsHandler struct {
	progressRepo    *repository.ProgressRepo
	userRepo        *repository.UserRepo
	achievementRepo *repository.AchievementRepo
	achievements    *services.AchievementService
}

func NewStatsHandler(progressRepo *repository.ProgressRepo, userRepo *repository.UserRepo, achievementRepo *repository.AchievementRepo, achievements *services.AchievementService) *StatsHandler {
	return &StatsHandler{
		progressRepo:    progressRepo,
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		achievements:    achievements,
	}
}

// Daily returns today's rollup, creating an empty one on first request of the
// day.
func (h *StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.progressRepo.GetOrCreateDailyStats(r.Context(), userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch daily stats", r))
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Weekly returns per-day rollups for the last ?weeks weeks (default 4),
// oldest first. Days with no activity have no row; the client fills the gaps.
func (h *StatsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	weeks, err := queryInt(r, "weeks", 4, 1, 12)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	now := time.Now()
	stats, err := h.progressRepo.WeeklyStats(r.Context(), userID, now.AddDate(0, 0, -(weeks*7-1)), now)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch weekly stats", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"daily_stats": stats})
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.progressRepo.UserStats(r.Context(), userID, time.Now().AddDate(0, 0, -6))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}

	streak, err := h.achievements.CurrentStreak(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute streak", r))
		return
	}
	stats.CurrentStreak = streak

	writeJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch user", r))
		return
	}

	today, err := h.progressRepo.GetOrCreateDailyStats(r.Context(), userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch daily stats", r))
		return
	}

	needReview, difficult, savedSets, err := h.progressRepo.DashboardCounts(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch counts", r))
		return
	}

	streak, err := h.achievements.CurrentStreak(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute streak", r))
		return
	}

	recentAchievements, _ := h.achievementRepo.ListByUser(r.Context(), userID, 5)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":                user,
		"today":               today,
		"current_streak":      streak,
		"cards_need_review":   needReview,
		"difficult_words":     difficult,
		"saved_sets":          savedSets,
		"recent_achievements": recentAchievements,
	})
}

// Leaderboard serves the top users by total points, 100 by default.
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100, 1, 100)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	entries, err := h.userRepo.Leaderboard(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch leaderboard", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}
