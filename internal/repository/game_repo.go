package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"vocaboost-backend/internal/models"
)

type GameRepo struct {
	pool *pgxpool.Pool
}

func NewGameRepo(pool *pgxpool.Pool) *GameRepo {
	return &GameRepo{pool: pool}
}

func (r *GameRepo) Create(ctx context.Context, g *models.GameSession) error {
	g.ID = uuid.New()
	query := `INSERT INTO game_sessions (id, user_id, game_type, score, total_questions, correct_answers, time_spent_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING completed_at`

	return r.pool.QueryRow(ctx, query,
		g.ID, g.UserID, g.GameType, g.Score, g.TotalQuestions, g.CorrectAnswers, g.TimeSpent,
	).Scan(&g.CompletedAt)
}

func (r *GameRepo) ListByUser(ctx context.Context, userID uuid.UUID, gameType string) ([]*models.GameSession, error) {
	query := `SELECT id, user_id, game_type, score, total_questions, correct_answers, time_spent_seconds, completed_at
		FROM game_sessions WHERE user_id = $1`
	args := []interface{}{userID}

	if gameType != "" {
		args = append(args, gameType)
		query += " AND game_type = $2"
	}
	query += " ORDER BY completed_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.GameSession
	for rows.Next() {
		g := &models.GameSession{}
		if err := rows.Scan(&g.ID, &g.UserID, &g.GameType, &g.Score, &g.TotalQuestions, &g.CorrectAnswers, &g.TimeSpent, &g.CompletedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, g)
	}
	return sessions, rows.Err()
}

func (r *GameRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM game_sessions WHERE user_id = $1", userID,
	).Scan(&count)
	return count, err
}
