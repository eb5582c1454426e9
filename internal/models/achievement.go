package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Achievement metrics. The catalog carries an explicit metric key instead of
// deriving one from the description text, so adding a badge never requires
// code changes and renaming a badge never breaks awarding.
const (
	MetricWordsLearned = "words_learned" // progress rows with times_reviewed >= 1
	MetricGamesPlayed  = "games_played"  // total game sessions
	MetricStreakDays   = "streak_days"   // consecutive active days ending today
	MetricSetsSaved    = "sets_saved"    // saved flashcard sets
	MetricRegistration = "registration"  // constant 1, awarded at signup
)

type Achievement struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Icon             string    `json:"icon"`
	AchievementType  string    `json:"achievement_type"` // "learning" | "gaming" | "streak" | "milestone"
	Metric           string    `json:"metric"`
	RequirementValue int       `json:"requirement_value"`
	Points           int       `json:"points"`
	Rarity           string    `json:"rarity"` // "common" | "rare" | "epic" | "legendary"
	IsActive         bool      `json:"is_active"`
}

// UserAchievement is the award record. progress_value snapshots the metric at
// award time and is never updated afterwards.
type UserAchievement struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"user_id"`
	AchievementID uuid.UUID    `json:"achievement_id"`
	Achievement   *Achievement `json:"achievement,omitempty"`
	ProgressValue int          `json:"progress_value"`
	EarnedAt      time.Time    `json:"earned_at"`
}

func (ua *UserAchievement) ProgressPercentage() float64 {
	if ua.Achievement == nil || ua.Achievement.RequirementValue == 0 {
		return 100
	}
	pct := float64(ua.ProgressValue) / float64(ua.Achievement.RequirementValue) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// MarshalJSON adds the computed progress_percentage to the award record.
func (ua *UserAchievement) MarshalJSON() ([]byte, error) {
	type alias UserAchievement
	return json.Marshal(struct {
		*alias
		ProgressPercentage float64 `json:"progress_percentage"`
	}{(*alias)(ua), ua.ProgressPercentage()})
}
