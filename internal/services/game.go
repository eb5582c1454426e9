package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"vocaboost-backend/internal/models"
	"vocaboost-backend/internal/repository"
)

var validGameTypes = map[string]bool{
	"word_match": true,
	"guess_word": true,
	"crossword":  true,
}

// GameService records completed mini-game sessions and folds their results
// into points and the daily rollup.
type GameService struct {
	games        *repository.GameRepo
	users        *repository.UserRepo
	progress     *repository.ProgressRepo
	achievements *AchievementService
}

func NewGameService(games *repository.GameRepo, users *repository.UserRepo, progress *repository.ProgressRepo, achievements *AchievementService) *GameService {
	return &GameService{games: games, users: users, progress: progress, achievements: achievements}
}

func (s *GameService) Record(ctx context.Context, userID uuid.UUID, req *models.CreateGameSessionRequest) (*models.GameSession, error) {
	fieldErrors := make(map[string]string)
	if !validGameTypes[req.GameType] {
		fieldErrors["game_type"] = "must be one of: word_match, guess_word, crossword"
	}
	if req.Score < 0 {
		fieldErrors["score"] = "must not be negative"
	}
	if req.TotalQuestions <= 0 {
		fieldErrors["total_questions"] = "must be positive"
	}
	if req.CorrectAnswers < 0 || req.CorrectAnswers > req.TotalQuestions {
		fieldErrors["correct_answers"] = "must be between 0 and total_questions"
	}
	if req.TimeSpent < 0 {
		fieldErrors["time_spent"] = "must not be negative"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Message: "invalid game session", Fields: fieldErrors}
	}

	session := &models.GameSession{
		UserID:         userID,
		GameType:       req.GameType,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		TimeSpent:      req.TimeSpent,
	}
	if err := s.games.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record game session: %w", err)
	}

	if session.Score > 0 {
		if err := s.users.AddPoints(ctx, userID, session.Score); err != nil {
			return nil, fmt.Errorf("failed to credit game points: %w", err)
		}
	}
	if err := s.progress.AddGameToDailyStats(ctx, userID, time.Now(), session.Score); err != nil {
		return nil, fmt.Errorf("failed to update daily stats: %w", err)
	}

	if _, err := s.achievements.Evaluate(ctx, userID); err != nil {
		log.Printf("achievement evaluation after game failed: %v", err)
	}

	return session, nil
}

func (s *GameService) History(ctx context.Context, userID uuid.UUID, gameType string) ([]*models.GameSession, error) {
	if gameType != "" && !validGameTypes[gameType] {
		return nil, &ValidationError{Message: "unknown game_type filter"}
	}
	return s.games.ListByUser(ctx, userID, gameType)
}
