package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"vocaboost-backend/internal/models"
)

type ProgressRepo struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

const progressColumns = `id, user_id, flashcard_id, mastery_level, times_reviewed, times_correct,
	difficulty_rating, is_learned, is_difficult, last_reviewed`

func (r *ProgressRepo) ListByUser(ctx context.Context, userID uuid.UUID, setID *uuid.UUID, status string) ([]*models.UserProgress, error) {
	query := "SELECT " + progressColumns + " FROM user_progress WHERE user_id = $1"
	args := []interface{}{userID}

	if setID != nil {
		args = append(args, *setID)
		query += " AND flashcard_id IN (SELECT id FROM flashcards WHERE set_id = $2)"
	}

	switch status {
	case "learned":
		query += " AND is_learned = TRUE"
	case "difficult":
		query += " AND is_difficult = TRUE"
	case "needs_review":
		query += " AND is_learned = FALSE AND times_reviewed > 0"
	}

	query += " ORDER BY last_reviewed DESC NULLS LAST"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.UserProgress
	for rows.Next() {
		p := &models.UserProgress{}
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.FlashcardID, &p.MasteryLevel, &p.TimesReviewed, &p.TimesCorrect,
			&p.DifficultyRating, &p.IsLearned, &p.IsDifficult, &p.LastReviewed,
		); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountTouched counts cards the user has reviewed at least once. This is the
// "words learned" achievement metric: a card counts as soon as it has been
// studied, regardless of mastery.
func (r *ProgressRepo) CountTouched(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM user_progress WHERE user_id = $1 AND times_reviewed >= 1", userID,
	).Scan(&count)
	return count, err
}

// HasActivityOn reports whether the user studied on the given calendar day:
// either the daily rollup shows cards studied, or some card was last reviewed
// that day.
func (r *ProgressRepo) HasActivityOn(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM daily_stats
			WHERE user_id = $1 AND date = $2::date AND cards_studied > 0
		) OR EXISTS(
			SELECT 1 FROM user_progress
			WHERE user_id = $1 AND last_reviewed::date = $2::date
		)`, userID, day,
	).Scan(&active)
	return active, err
}

// Daily stats

func (r *ProgressRepo) GetOrCreateDailyStats(ctx context.Context, userID uuid.UUID, day time.Time) (*models.DailyStats, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO daily_stats (id, user_id, date)
		VALUES ($1, $2, $3::date)
		ON CONFLICT (user_id, date) DO NOTHING`,
		uuid.New(), userID, day)
	if err != nil {
		return nil, err
	}

	d := &models.DailyStats{}
	err = r.pool.QueryRow(ctx, `
		SELECT id, user_id, date, cards_studied, time_spent_minutes, games_played,
			points_earned, accuracy_rate, new_words_learned, words_reviewed
		FROM daily_stats WHERE user_id = $1 AND date = $2::date`,
		userID, day,
	).Scan(&d.ID, &d.UserID, &d.Date, &d.CardsStudied, &d.TimeSpentMinutes, &d.GamesPlayed,
		&d.PointsEarned, &d.AccuracyRate, &d.NewWordsLearned, &d.WordsReviewed)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// AddGameToDailyStats bumps the day's game counters in one upsert.
func (r *ProgressRepo) AddGameToDailyStats(ctx context.Context, userID uuid.UUID, day time.Time, points int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO daily_stats (id, user_id, date, games_played, points_earned)
		VALUES ($1, $2, $3::date, 1, $4)
		ON CONFLICT (user_id, date) DO UPDATE SET
			games_played = daily_stats.games_played + 1,
			points_earned = daily_stats.points_earned + $4`,
		uuid.New(), userID, day, points)
	return err
}

func (r *ProgressRepo) WeeklyStats(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.DailyStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, date, cards_studied, time_spent_minutes, games_played,
			points_earned, accuracy_rate, new_words_learned, words_reviewed
		FROM daily_stats
		WHERE user_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.DailyStats
	for rows.Next() {
		d := &models.DailyStats{}
		if err := rows.Scan(&d.ID, &d.UserID, &d.Date, &d.CardsStudied, &d.TimeSpentMinutes, &d.GamesPlayed,
			&d.PointsEarned, &d.AccuracyRate, &d.NewWordsLearned, &d.WordsReviewed); err != nil {
			return nil, err
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}

// UserStats aggregates the profile overview numbers in one round trip.
// average_accuracy here is the mean mastery level across the user's cards.
func (r *ProgressRepo) UserStats(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*models.UserStats, error) {
	s := &models.UserStats{}

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM user_progress WHERE user_id = $1),
			COALESCE((SELECT ROUND(AVG(mastery_level), 1) FROM user_progress WHERE user_id = $1), 0),
			COALESCE((SELECT SUM(time_spent_minutes) FROM daily_stats WHERE user_id = $1), 0),
			COALESCE((SELECT SUM(games_played) FROM daily_stats WHERE user_id = $1), 0),
			(SELECT COUNT(*) FROM user_achievements WHERE user_id = $1),
			COALESCE((SELECT SUM(cards_studied) FROM daily_stats WHERE user_id = $1 AND date >= $2::date), 0),
			COALESCE((SELECT SUM(points_earned) FROM daily_stats WHERE user_id = $1 AND date >= $2::date), 0)
	`, userID, weekStart).Scan(
		&s.TotalCardsStudied, &s.AverageAccuracy, &s.TotalTimeSpent, &s.TotalGamesPlayed,
		&s.TotalAchievements, &s.CardsLearnedThisWeek, &s.PointsEarnedThisWeek,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// DashboardCounts returns needs-review, difficult-word and saved-set counts.
func (r *ProgressRepo) DashboardCounts(ctx context.Context, userID uuid.UUID) (needReview, difficult, savedSets int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM user_progress WHERE user_id = $1 AND is_learned = FALSE AND times_reviewed > 0),
			(SELECT COUNT(*) FROM user_progress WHERE user_id = $1 AND is_difficult = TRUE),
			(SELECT COUNT(*) FROM saved_flashcard_sets WHERE user_id = $1)
	`, userID).Scan(&needReview, &difficult, &savedSets)
	return
}
