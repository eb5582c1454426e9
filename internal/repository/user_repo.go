package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"vocaboost-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	user.ID = uuid.New()
	user.IsActive = true

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, display_name, avatar_url, total_points, is_active, created_at, last_login_at
		FROM users WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.AvatarURL,
		&user.TotalPoints, &user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, display_name, avatar_url, total_points, is_active, created_at, last_login_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.AvatarURL,
		&user.TotalPoints, &user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, displayName string, avatarURL *string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET display_name = $1, avatar_url = $2 WHERE id = $3",
		displayName, avatarURL, userID,
	)
	return err
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}

// AddPoints credits points through a single atomic increment. The points
// counter is never written with a read-modify-write cycle.
func (r *UserRepo) AddPoints(ctx context.Context, userID uuid.UUID, delta int) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET total_points = total_points + $1 WHERE id = $2",
		delta, userID,
	)
	return err
}

// Leaderboard returns the top users by total points, with per-user learned
// card and achievement counts. Rank is assigned by position.
func (r *UserRepo) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT u.id, u.display_name, u.avatar_url, u.total_points,
			(SELECT COUNT(*) FROM user_progress up WHERE up.user_id = u.id AND up.is_learned = TRUE),
			(SELECT COUNT(*) FROM user_achievements ua WHERE ua.user_id = u.id)
		FROM users u
		WHERE u.total_points > 0 AND u.is_active = TRUE
		ORDER BY u.total_points DESC, u.created_at ASC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0)
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.AvatarURL, &e.TotalPoints, &e.CardsLearned, &e.AchievementsCount); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
