package models

import (
	"time"

	"github.com/google/uuid"
)

type GameSession struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	GameType       string    `json:"game_type"` // "word_match" | "guess_word" | "crossword"
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	TimeSpent      int       `json:"time_spent"` // seconds
	CompletedAt    time.Time `json:"completed_at"`
}

func (g *GameSession) AccuracyPercentage() float64 {
	if g.TotalQuestions == 0 {
		return 0
	}
	return round1(float64(g.CorrectAnswers) / float64(g.TotalQuestions) * 100)
}

type CreateGameSessionRequest struct {
	GameType       string `json:"game_type"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	TimeSpent      int    `json:"time_spent"`
}
