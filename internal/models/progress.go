package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// UserProgress tracks one user's history with one flashcard. mastery_level
// moves in clamped steps (+10 correct, -5 incorrect). is_learned is persisted
// and sticky: once mastery reaches 80 it stays true even if mastery later
// drops. is_difficult is set on any incorrect answer and never auto-cleared.
type UserProgress struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	FlashcardID      uuid.UUID  `json:"flashcard_id"`
	MasteryLevel     int        `json:"mastery_level"` // 0-100
	TimesReviewed    int        `json:"times_reviewed"`
	TimesCorrect     int        `json:"times_correct"`
	DifficultyRating *int       `json:"difficulty_rating"` // 1=very hard .. 5=very easy
	IsLearned        bool       `json:"is_learned"`
	IsDifficult      bool       `json:"is_difficult"`
	LastReviewed     *time.Time `json:"last_reviewed"`
}

// AccuracyRate is the per-card accuracy in percent, one decimal.
func (p *UserProgress) AccuracyRate() float64 {
	if p.TimesReviewed == 0 {
		return 0
	}
	return round1(float64(p.TimesCorrect) / float64(p.TimesReviewed) * 100)
}

// DailyStats is the per-user-per-day activity rollup. All counters are
// additive except accuracy_rate, which is recomputed on every study event as
// the user's global accuracy across all progress rows.
type DailyStats struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Date             time.Time `json:"date"`
	CardsStudied     int       `json:"cards_studied"`
	TimeSpentMinutes int       `json:"time_spent"`
	GamesPlayed      int       `json:"games_played"`
	PointsEarned     int       `json:"points_earned"`
	AccuracyRate     float64   `json:"accuracy_rate"`
	NewWordsLearned  int       `json:"new_words_learned"`
	WordsReviewed    int       `json:"words_reviewed"`
}

type StudyResult struct {
	FlashcardID      uuid.UUID `json:"flashcard_id"`
	IsCorrect        bool      `json:"is_correct"`
	DifficultyRating *int      `json:"difficulty_rating"`
}

type StudySessionRequest struct {
	SetID           uuid.UUID     `json:"flashcard_set_id"`
	Results         []StudyResult `json:"results"`
	DurationSeconds int           `json:"duration_seconds"`
}

type StudySessionSummary struct {
	PointsEarned int     `json:"points_earned"`
	CardsStudied int     `json:"cards_studied"`
	Accuracy     float64 `json:"accuracy"`
}

type UserStats struct {
	TotalCardsStudied    int     `json:"total_cards_studied"`
	TotalTimeSpent       int     `json:"total_time_spent"`
	TotalGamesPlayed     int     `json:"total_games_played"`
	CurrentStreak        int     `json:"current_streak"`
	TotalAchievements    int     `json:"total_achievements"`
	AverageAccuracy      float64 `json:"average_accuracy"`
	CardsLearnedThisWeek int     `json:"cards_learned_this_week"`
	PointsEarnedThisWeek int     `json:"points_earned_this_week"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
