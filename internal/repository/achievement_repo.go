package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vocaboost-backend/internal/models"
)

type AchievementRepo struct {
	pool *pgxpool.Pool
}

func NewAchievementRepo(pool *pgxpool.Pool) *AchievementRepo {
	return &AchievementRepo{pool: pool}
}

const achievementColumns = `id, name, description, icon, achievement_type, metric,
	requirement_value, points, rarity, is_active`

func (r *AchievementRepo) ListActive(ctx context.Context) ([]*models.Achievement, error) {
	query := "SELECT " + achievementColumns + " FROM achievements WHERE is_active = TRUE ORDER BY requirement_value"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Achievement
	for rows.Next() {
		a := &models.Achievement{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.AchievementType, &a.Metric,
			&a.RequirementValue, &a.Points, &a.Rarity, &a.IsActive); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// GetByMetric fetches one active achievement by its metric key. Used by the
// registration award, which targets the metric rather than the display name.
func (r *AchievementRepo) GetByMetric(ctx context.Context, metric string) (*models.Achievement, error) {
	a := &models.Achievement{}
	query := "SELECT " + achievementColumns + " FROM achievements WHERE metric = $1 AND is_active = TRUE LIMIT 1"

	err := r.pool.QueryRow(ctx, query, metric).Scan(
		&a.ID, &a.Name, &a.Description, &a.Icon, &a.AchievementType, &a.Metric,
		&a.RequirementValue, &a.Points, &a.Rarity, &a.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// EarnedIDs returns the set of achievement IDs the user already holds.
func (r *AchievementRepo) EarnedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT achievement_id FROM user_achievements WHERE user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	earned := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		earned[id] = true
	}
	return earned, rows.Err()
}

// Award inserts the award record. Returns false when the user already holds
// the achievement: the (user_id, achievement_id) unique constraint resolves
// concurrent duplicate attempts, and a violation is treated as "already
// awarded", not an error.
func (r *AchievementRepo) Award(ctx context.Context, userID, achievementID uuid.UUID, progressValue int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO user_achievements (id, user_id, achievement_id, progress_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		uuid.New(), userID, achievementID, progressValue)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, nil
		}
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *AchievementRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserAchievement, error) {
	query := `
		SELECT ua.id, ua.user_id, ua.achievement_id, ua.progress_value, ua.earned_at,
			a.id, a.name, a.description, a.icon, a.achievement_type, a.metric,
			a.requirement_value, a.points, a.rarity, a.is_active
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1
		ORDER BY ua.earned_at DESC`
	args := []interface{}{userID}

	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $2"
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.UserAchievement
	for rows.Next() {
		ua := &models.UserAchievement{Achievement: &models.Achievement{}}
		a := ua.Achievement
		if err := rows.Scan(
			&ua.ID, &ua.UserID, &ua.AchievementID, &ua.ProgressValue, &ua.EarnedAt,
			&a.ID, &a.Name, &a.Description, &a.Icon, &a.AchievementType, &a.Metric,
			&a.RequirementValue, &a.Points, &a.Rarity, &a.IsActive,
		); err != nil {
			return nil, err
		}
		list = append(list, ua)
	}
	return list, rows.Err()
}
