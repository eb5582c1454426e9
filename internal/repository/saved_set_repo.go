package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vocaboost-backend/internal/models"
)

type SavedSetRepo struct {
	pool *pgxpool.Pool
}

func NewSavedSetRepo(pool *pgxpool.Pool) *SavedSetRepo {
	return &SavedSetRepo{pool: pool}
}

// Save bookmarks a public set for a user. Returns (record, created). A repeat
// save returns the existing record untouched.
func (r *SavedSetRepo) Save(ctx context.Context, s *models.SavedFlashcardSet) (bool, error) {
	existing := &models.SavedFlashcardSet{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, set_id, is_favorite, rating, saved_at
		 FROM saved_flashcard_sets WHERE user_id = $1 AND set_id = $2`,
		s.UserID, s.SetID,
	).Scan(&existing.ID, &existing.UserID, &existing.SetID, &existing.IsFavorite, &existing.Rating, &existing.SavedAt)
	if err == nil {
		*s = *existing
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	s.ID = uuid.New()
	err = r.pool.QueryRow(ctx,
		`INSERT INTO saved_flashcard_sets (id, user_id, set_id, is_favorite, rating)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, set_id) DO NOTHING
		 RETURNING saved_at`,
		s.ID, s.UserID, s.SetID, s.IsFavorite, s.Rating,
	).Scan(&s.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost a race with a concurrent save; treat as already saved
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := r.refreshSetStats(ctx, s.SetID); err != nil {
		return true, err
	}
	return true, nil
}

func (r *SavedSetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SavedFlashcardSet, error) {
	s := &models.SavedFlashcardSet{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, set_id, is_favorite, rating, saved_at
		 FROM saved_flashcard_sets WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.SetID, &s.IsFavorite, &s.Rating, &s.SavedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SavedSetRepo) ListByUser(ctx context.Context, userID uuid.UUID, favoritesOnly bool) ([]*models.SavedFlashcardSet, error) {
	query := `SELECT id, user_id, set_id, is_favorite, rating, saved_at
		FROM saved_flashcard_sets WHERE user_id = $1`
	if favoritesOnly {
		query += " AND is_favorite = TRUE"
	}
	query += " ORDER BY saved_at DESC"

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved []*models.SavedFlashcardSet
	for rows.Next() {
		s := &models.SavedFlashcardSet{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.SetID, &s.IsFavorite, &s.Rating, &s.SavedAt); err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}

func (r *SavedSetRepo) Update(ctx context.Context, s *models.SavedFlashcardSet) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE saved_flashcard_sets SET is_favorite = $1, rating = $2 WHERE id = $3",
		s.IsFavorite, s.Rating, s.ID,
	)
	if err != nil {
		return err
	}
	return r.refreshSetStats(ctx, s.SetID)
}

func (r *SavedSetRepo) Delete(ctx context.Context, id, setID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM saved_flashcard_sets WHERE id = $1", id); err != nil {
		return err
	}
	return r.refreshSetStats(ctx, setID)
}

func (r *SavedSetRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM saved_flashcard_sets WHERE user_id = $1", userID,
	).Scan(&count)
	return count, err
}

// refreshSetStats re-derives total_saves and average_rating on the set from
// the save records, so the denormalized numbers never drift.
func (r *SavedSetRepo) refreshSetStats(ctx context.Context, setID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE flashcard_sets SET
			total_saves = (SELECT COUNT(*) FROM saved_flashcard_sets WHERE set_id = $1),
			average_rating = COALESCE((
				SELECT ROUND(AVG(rating)::numeric, 1)
				FROM saved_flashcard_sets
				WHERE set_id = $1 AND rating IS NOT NULL
			), 0)
		WHERE id = $1`, setID)
	return err
}
