package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"vocaboost-backend/internal/models"
)

// Streak scanning is bounded: nobody's streak is older than a year.
const maxStreakLookbackDays = 365

// AchievementStore is the catalog plus the award records.
type AchievementStore interface {
	ListActive(ctx context.Context) ([]*models.Achievement, error)
	GetByMetric(ctx context.Context, metric string) (*models.Achievement, error)
	EarnedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
	// Award creates the record if absent; false means the user already held it.
	Award(ctx context.Context, userID, achievementID uuid.UUID, progressValue int) (bool, error)
}

// ActivityStore answers the study-activity questions the evaluator needs.
type ActivityStore interface {
	CountTouched(ctx context.Context, userID uuid.UUID) (int, error)
	HasActivityOn(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error)
}

type GameCounter interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type SavedSetCounter interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type PointsStore interface {
	AddPoints(ctx context.Context, userID uuid.UUID, delta int) error
}

// AchievementService evaluates the catalog against a user's activity and
// awards anything newly within reach. Evaluation is a single pass: each
// metric is computed at most once per call, awards are created through the
// store's insert-if-absent, and points are credited exactly once per award.
type AchievementService struct {
	achievements AchievementStore
	activity     ActivityStore
	games        GameCounter
	saved        SavedSetCounter
	points       PointsStore
	pubsub       *redis.Client
	now          func() time.Time
}

func NewAchievementService(
	achievements AchievementStore,
	activity ActivityStore,
	games GameCounter,
	saved SavedSetCounter,
	points PointsStore,
	pubsub *redis.Client,
) *AchievementService {
	return &AchievementService{
		achievements: achievements,
		activity:     activity,
		games:        games,
		saved:        saved,
		points:       points,
		pubsub:       pubsub,
		now:          time.Now,
	}
}

// Evaluate checks every active achievement the user has not earned yet and
// awards those whose metric meets the requirement. Returns only achievements
// awarded by this call; repeated calls with no new activity return nothing.
func (s *AchievementService) Evaluate(ctx context.Context, userID uuid.UUID) ([]*models.Achievement, error) {
	active, err := s.achievements.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement catalog: %w", err)
	}

	earned, err := s.achievements.EarnedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned achievements: %w", err)
	}

	values := make(map[string]int)
	var newly []*models.Achievement

	for _, a := range active {
		if earned[a.ID] {
			continue
		}

		value, ok := values[a.Metric]
		if !ok {
			value, err = s.metricValue(ctx, userID, a.Metric)
			if err != nil {
				return newly, err
			}
			values[a.Metric] = value
		}

		if value < a.RequirementValue {
			continue
		}

		awarded, err := s.achievements.Award(ctx, userID, a.ID, value)
		if err != nil {
			return newly, fmt.Errorf("failed to award achievement %s: %w", a.Name, err)
		}
		if !awarded {
			// Lost a race with a concurrent request; the other one credited
			// the points.
			continue
		}

		if err := s.points.AddPoints(ctx, userID, a.Points); err != nil {
			return newly, fmt.Errorf("failed to credit achievement points: %w", err)
		}

		newly = append(newly, a)
	}

	s.publish(ctx, userID, newly)
	return newly, nil
}

// AwardRegistration grants the signup milestone to a fresh account. A missing
// catalog entry is a silent no-op: seeding the catalog is a deployment step,
// not something to fail registration over.
func (s *AchievementService) AwardRegistration(ctx context.Context, userID uuid.UUID) (*models.Achievement, error) {
	a, err := s.achievements.GetByMetric(ctx, models.MetricRegistration)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up registration achievement: %w", err)
	}

	awarded, err := s.achievements.Award(ctx, userID, a.ID, 1)
	if err != nil {
		return nil, err
	}
	if !awarded {
		return nil, nil
	}

	if err := s.points.AddPoints(ctx, userID, a.Points); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, []*models.Achievement{a})
	return a, nil
}

// CurrentStreak counts consecutive calendar days with study activity, ending
// today. A day counts when the daily rollup shows cards studied or any card
// was reviewed that day. No activity today means streak 0 regardless of
// history. This is the only streak implementation; every caller goes through
// it.
func (s *AchievementService) CurrentStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	day := s.now()
	streak := 0

	for i := 0; i < maxStreakLookbackDays; i++ {
		active, err := s.activity.HasActivityOn(ctx, userID, day)
		if err != nil {
			return 0, fmt.Errorf("failed to check activity for %s: %w", day.Format("2006-01-02"), err)
		}
		if !active {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak, nil
}

func (s *AchievementService) metricValue(ctx context.Context, userID uuid.UUID, metric string) (int, error) {
	switch metric {
	case models.MetricWordsLearned:
		return s.activity.CountTouched(ctx, userID)
	case models.MetricGamesPlayed:
		return s.games.CountByUser(ctx, userID)
	case models.MetricStreakDays:
		return s.CurrentStreak(ctx, userID)
	case models.MetricSetsSaved:
		return s.saved.CountByUser(ctx, userID)
	case models.MetricRegistration:
		return 1, nil
	default:
		log.Printf("achievement evaluator: unknown metric %q, treating as zero", metric)
		return 0, nil
	}
}

// publish pushes achievement_earned events to the user's websocket channel.
// Notification delivery is best-effort.
func (s *AchievementService) publish(ctx context.Context, userID uuid.UUID, awarded []*models.Achievement) {
	if s.pubsub == nil || len(awarded) == 0 {
		return
	}

	for _, a := range awarded {
		msg := models.WSMessage{
			Type: "achievement_earned",
			Payload: models.AchievementEarnedEvent{
				AchievementID: a.ID,
				Name:          a.Name,
				Icon:          a.Icon,
				Points:        a.Points,
				Rarity:        a.Rarity,
			},
		}
		data, _ := json.Marshal(msg)
		if err := s.pubsub.Publish(ctx, "user_updates:"+userID.String(), string(data)).Err(); err != nil {
			log.Printf("achievement notification publish failed: %v", err)
		}
	}
}
