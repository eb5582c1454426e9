package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"vocaboost-backend/internal/models"
)

type FeedbackRepo struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepo(pool *pgxpool.Pool) *FeedbackRepo {
	return &FeedbackRepo{pool: pool}
}

// Upsert stores one difficulty rating per user per card; a second submission
// replaces the first.
func (r *FeedbackRepo) Upsert(ctx context.Context, f *models.UserFeedback) error {
	f.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO user_feedback (id, user_id, flashcard_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, flashcard_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			comment = EXCLUDED.comment,
			is_processed = FALSE
		RETURNING id, created_at`,
		f.ID, f.UserID, f.FlashcardID, f.Rating, f.Comment,
	).Scan(&f.ID, &f.CreatedAt)
}

func (r *FeedbackRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserFeedback, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, flashcard_id, rating, comment, is_processed, created_at
		FROM user_feedback WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.UserFeedback
	for rows.Next() {
		f := &models.UserFeedback{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.FlashcardID, &f.Rating, &f.Comment, &f.IsProcessed, &f.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
