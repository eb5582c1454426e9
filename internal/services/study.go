package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vocaboost-backend/internal/models"
)

const (
	masteryGainCorrect   = 10
	masteryLossIncorrect = 5
	learnedThreshold     = 80
	pointsPerCorrect     = 5

	maxResultsPerSession = 500
)

// applyReview folds one answer into a progress row and returns the points it
// earns. Mastery stays within [0, 100]. is_learned latches on at the
// threshold and never comes back off; is_difficult latches on with any
// incorrect answer.
func applyReview(p *models.UserProgress, result models.StudyResult, now time.Time) int {
	p.TimesReviewed++
	points := 0

	if result.IsCorrect {
		p.TimesCorrect++
		p.MasteryLevel += masteryGainCorrect
		if p.MasteryLevel > 100 {
			p.MasteryLevel = 100
		}
		points = pointsPerCorrect
	} else {
		p.MasteryLevel -= masteryLossIncorrect
		if p.MasteryLevel < 0 {
			p.MasteryLevel = 0
		}
		p.IsDifficult = true
	}

	if p.MasteryLevel >= learnedThreshold {
		p.IsLearned = true
	}
	if result.DifficultyRating != nil {
		p.DifficultyRating = result.DifficultyRating
	}

	t := now
	p.LastReviewed = &t
	return points
}

// StudyService applies study-session results: progress rows, user points and
// the daily rollup all move in one transaction, so a failed session leaves no
// partial state behind.
type StudyService struct {
	pool         *pgxpool.Pool
	achievements *AchievementService
}

func NewStudyService(pool *pgxpool.Pool, achievements *AchievementService) *StudyService {
	return &StudyService{pool: pool, achievements: achievements}
}

// SubmitSession records a batch of flashcard answers for one study session.
// Any unknown flashcard ID rejects the whole batch.
func (s *StudyService) SubmitSession(ctx context.Context, userID uuid.UUID, req *models.StudySessionRequest) (*models.StudySessionSummary, error) {
	if len(req.Results) == 0 {
		return nil, &ValidationError{Message: "results must not be empty"}
	}
	if len(req.Results) > maxResultsPerSession {
		return nil, &ValidationError{Message: fmt.Sprintf("too many results in one session (max %d)", maxResultsPerSession)}
	}
	if req.DurationSeconds < 0 {
		return nil, &ValidationError{Message: "duration_seconds must not be negative"}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	totalPoints := 0
	newCards := 0

	for _, result := range req.Results {
		p, created, err := s.lockProgress(ctx, tx, userID, result.FlashcardID)
		if err != nil {
			return nil, err
		}
		if created {
			newCards++
		}

		totalPoints += applyReview(p, result, now)

		_, err = tx.Exec(ctx, `
			UPDATE user_progress SET
				mastery_level = $1, times_reviewed = $2, times_correct = $3,
				difficulty_rating = $4, is_learned = $5, is_difficult = $6, last_reviewed = $7
			WHERE id = $8`,
			p.MasteryLevel, p.TimesReviewed, p.TimesCorrect,
			p.DifficultyRating, p.IsLearned, p.IsDifficult, p.LastReviewed, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update progress: %w", err)
		}
	}

	if totalPoints > 0 {
		if _, err := tx.Exec(ctx,
			"UPDATE users SET total_points = total_points + $1 WHERE id = $2",
			totalPoints, userID); err != nil {
			return nil, fmt.Errorf("failed to credit points: %w", err)
		}
	}

	accuracy, err := s.updateDailyStats(ctx, tx, userID, now, dailyDelta{
		cardsStudied: len(req.Results),
		minutes:      sessionMinutes(req.DurationSeconds),
		points:       totalPoints,
		newWords:     newCards,
		reviewed:     len(req.Results) - newCards,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit study session: %w", err)
	}

	// Milestones are checked outside the transaction: the session is already
	// durable, and a failed evaluation only delays the award until the next
	// activity.
	if _, err := s.achievements.Evaluate(ctx, userID); err != nil {
		log.Printf("achievement evaluation after study session failed: %v", err)
	}

	return &models.StudySessionSummary{
		PointsEarned: totalPoints,
		CardsStudied: len(req.Results),
		Accuracy:     accuracy,
	}, nil
}

// lockProgress fetches the user's row for a flashcard, creating it on first
// contact. Returns whether this call created the row. The row is locked for
// the rest of the transaction.
func (s *StudyService) lockProgress(ctx context.Context, tx pgx.Tx, userID, flashcardID uuid.UUID) (*models.UserProgress, bool, error) {
	selectRow := `
		SELECT id, user_id, flashcard_id, mastery_level, times_reviewed, times_correct,
			difficulty_rating, is_learned, is_difficult, last_reviewed
		FROM user_progress WHERE user_id = $1 AND flashcard_id = $2 FOR UPDATE`

	p := &models.UserProgress{}
	scan := func(row pgx.Row) error {
		return row.Scan(&p.ID, &p.UserID, &p.FlashcardID, &p.MasteryLevel, &p.TimesReviewed,
			&p.TimesCorrect, &p.DifficultyRating, &p.IsLearned, &p.IsDifficult, &p.LastReviewed)
	}

	err := scan(tx.QueryRow(ctx, selectRow, userID, flashcardID))
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to load progress: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM flashcards WHERE id = $1)", flashcardID,
	).Scan(&exists); err != nil {
		return nil, false, fmt.Errorf("failed to verify flashcard: %w", err)
	}
	if !exists {
		return nil, false, &NotFoundError{Message: "Flashcard not found"}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_progress (id, user_id, flashcard_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, flashcard_id) DO NOTHING`,
		uuid.New(), userID, flashcardID); err != nil {
		return nil, false, fmt.Errorf("failed to create progress: %w", err)
	}

	if err := scan(tx.QueryRow(ctx, selectRow, userID, flashcardID)); err != nil {
		return nil, false, fmt.Errorf("failed to load progress after insert: %w", err)
	}
	return p, true, nil
}

// sessionMinutes converts a session duration to whole minutes, dropping the
// remainder.
func sessionMinutes(seconds int) int {
	return seconds / 60
}

type dailyDelta struct {
	cardsStudied int
	minutes      int
	points       int
	newWords     int
	reviewed     int
}

// updateDailyStats bumps today's rollup and recomputes accuracy_rate as the
// user's lifetime accuracy over every progress row, not just today's answers.
// Returns the stored accuracy.
func (s *StudyService) updateDailyStats(ctx context.Context, tx pgx.Tx, userID uuid.UUID, day time.Time, d dailyDelta) (float64, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO daily_stats (id, user_id, date, cards_studied, time_spent_minutes,
			points_earned, new_words_learned, words_reviewed)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, date) DO UPDATE SET
			cards_studied = daily_stats.cards_studied + $4,
			time_spent_minutes = daily_stats.time_spent_minutes + $5,
			points_earned = daily_stats.points_earned + $6,
			new_words_learned = daily_stats.new_words_learned + $7,
			words_reviewed = daily_stats.words_reviewed + $8`,
		uuid.New(), userID, day, d.cardsStudied, d.minutes, d.points, d.newWords, d.reviewed)
	if err != nil {
		return 0, fmt.Errorf("failed to update daily stats: %w", err)
	}

	var accuracy float64
	err = tx.QueryRow(ctx, `
		UPDATE daily_stats SET accuracy_rate = sub.rate
		FROM (
			SELECT CASE WHEN COALESCE(SUM(times_reviewed), 0) = 0 THEN 0
				ELSE ROUND(100.0 * SUM(times_correct) / SUM(times_reviewed), 1)
			END AS rate
			FROM user_progress WHERE user_id = $1
		) sub
		WHERE user_id = $1 AND date = $2::date
		RETURNING accuracy_rate`,
		userID, day,
	).Scan(&accuracy)
	if err != nil {
		return 0, fmt.Errorf("failed to recompute accuracy: %w", err)
	}
	return accuracy, nil
}
