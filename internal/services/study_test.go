package services

import (
	"testing"
	"time"

	"vocaboost-backend/internal/models"
)

func TestApplyReviewCorrectAnswer(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	p := &models.UserProgress{MasteryLevel: 30}

	points := applyReview(p, models.StudyResult{IsCorrect: true}, now)

	if points != 5 {
		t.Errorf("expected 5 points for a correct answer, got %d", points)
	}
	if p.MasteryLevel != 40 {
		t.Errorf("expected mastery 40, got %d", p.MasteryLevel)
	}
	if p.TimesReviewed != 1 || p.TimesCorrect != 1 {
		t.Errorf("expected counters (1, 1), got (%d, %d)", p.TimesReviewed, p.TimesCorrect)
	}
	if p.IsLearned {
		t.Error("mastery 40 must not mark the card learned")
	}
	if p.IsDifficult {
		t.Error("a correct answer must not mark the card difficult")
	}
	if p.LastReviewed == nil || !p.LastReviewed.Equal(now) {
		t.Errorf("expected last_reviewed %v, got %v", now, p.LastReviewed)
	}
}

func TestApplyReviewIncorrectAnswer(t *testing.T) {
	p := &models.UserProgress{MasteryLevel: 30, TimesReviewed: 4, TimesCorrect: 3}

	points := applyReview(p, models.StudyResult{IsCorrect: false}, time.Now())

	if points != 0 {
		t.Errorf("expected 0 points for an incorrect answer, got %d", points)
	}
	if p.MasteryLevel != 25 {
		t.Errorf("expected mastery 25, got %d", p.MasteryLevel)
	}
	if p.TimesReviewed != 5 || p.TimesCorrect != 3 {
		t.Errorf("expected counters (5, 3), got (%d, %d)", p.TimesReviewed, p.TimesCorrect)
	}
	if !p.IsDifficult {
		t.Error("an incorrect answer must mark the card difficult")
	}
}

func TestApplyReviewMasteryClamping(t *testing.T) {
	now := time.Now()

	high := &models.UserProgress{MasteryLevel: 95}
	applyReview(high, models.StudyResult{IsCorrect: true}, now)
	if high.MasteryLevel != 100 {
		t.Errorf("expected mastery clamped to 100, got %d", high.MasteryLevel)
	}

	low := &models.UserProgress{MasteryLevel: 3}
	applyReview(low, models.StudyResult{IsCorrect: false}, now)
	if low.MasteryLevel != 0 {
		t.Errorf("expected mastery clamped to 0, got %d", low.MasteryLevel)
	}
}

func TestApplyReviewLearnedIsSticky(t *testing.T) {
	now := time.Now()
	p := &models.UserProgress{MasteryLevel: 75}

	applyReview(p, models.StudyResult{IsCorrect: true}, now)
	if p.MasteryLevel != 85 || !p.IsLearned {
		t.Fatalf("expected mastery 85 and learned, got mastery %d learned %v", p.MasteryLevel, p.IsLearned)
	}

	// Wrong answers drop mastery below the threshold but never unset learned
	for i := 0; i < 4; i++ {
		applyReview(p, models.StudyResult{IsCorrect: false}, now)
	}
	if p.MasteryLevel != 65 {
		t.Errorf("expected mastery 65 after four misses, got %d", p.MasteryLevel)
	}
	if !p.IsLearned {
		t.Error("is_learned must stay true once earned")
	}
}

func TestApplyReviewDifficultNeverAutoClears(t *testing.T) {
	now := time.Now()
	p := &models.UserProgress{}

	applyReview(p, models.StudyResult{IsCorrect: false}, now)
	if !p.IsDifficult {
		t.Fatal("expected is_difficult after an incorrect answer")
	}

	for i := 0; i < 10; i++ {
		applyReview(p, models.StudyResult{IsCorrect: true}, now)
	}
	if !p.IsDifficult {
		t.Error("is_difficult must not clear on later correct answers")
	}
}

func TestApplyReviewDifficultyRating(t *testing.T) {
	now := time.Now()
	rating := 2
	p := &models.UserProgress{}

	applyReview(p, models.StudyResult{IsCorrect: true, DifficultyRating: &rating}, now)
	if p.DifficultyRating == nil || *p.DifficultyRating != 2 {
		t.Errorf("expected difficulty rating 2, got %v", p.DifficultyRating)
	}

	// A result without a rating keeps the previous one
	applyReview(p, models.StudyResult{IsCorrect: true}, now)
	if p.DifficultyRating == nil || *p.DifficultyRating != 2 {
		t.Errorf("expected difficulty rating to persist, got %v", p.DifficultyRating)
	}
}

// A fresh card answered correctly eight times ends exactly at the learned
// threshold.
func TestApplyReviewEightCorrectReachesLearned(t *testing.T) {
	now := time.Now()
	p := &models.UserProgress{}
	total := 0

	for i := 0; i < 8; i++ {
		if p.IsLearned && i < 7 {
			t.Fatalf("card marked learned too early at answer %d (mastery %d)", i, p.MasteryLevel)
		}
		total += applyReview(p, models.StudyResult{IsCorrect: true}, now)
	}

	if p.MasteryLevel != 80 {
		t.Errorf("expected mastery 80 after eight correct answers, got %d", p.MasteryLevel)
	}
	if !p.IsLearned {
		t.Error("expected card learned at mastery 80")
	}
	if total != 40 {
		t.Errorf("expected 40 points total, got %d", total)
	}
}

func TestSessionMinutesDropsRemainder(t *testing.T) {
	tests := []struct {
		seconds int
		want    int
	}{
		{0, 0},
		{1, 0},
		{59, 0},
		{60, 1},
		{119, 1},
		{600, 10},
	}

	for _, tc := range tests {
		if got := sessionMinutes(tc.seconds); got != tc.want {
			t.Errorf("sessionMinutes(%d) = %d, expected %d", tc.seconds, got, tc.want)
		}
	}
}
