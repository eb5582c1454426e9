package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"vocaboost-backend/internal/models"
)

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Available() bool { return true }

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := s.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no stub vector for %q", t)
		}
		out[i] = v
	}
	return out, nil
}

type unavailableEmbedder struct{}

func (unavailableEmbedder) Available() bool { return false }
func (unavailableEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("not configured")
}

func testSet(title string, saves int, rating float64, createdAt time.Time) *models.FlashcardSet {
	return &models.FlashcardSet{
		ID:            uuid.New(),
		Title:         title,
		TotalSaves:    saves,
		AverageRating: rating,
		CreatedAt:     createdAt,
	}
}

func TestRankByPopularity(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	older := testSet("older", 5, 4.0, base)
	newer := testSet("newer", 5, 4.0, base.AddDate(0, 0, 3))
	betterRated := testSet("better rated", 5, 4.8, base)
	mostSaved := testSet("most saved", 9, 3.0, base)

	ranked := rankByPopularity([]*models.FlashcardSet{older, newer, betterRated, mostSaved})

	want := []string{"most saved", "better rated", "newer", "older"}
	for i, title := range want {
		if ranked[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, ranked[i].Title)
		}
	}
}

func TestSuggestSetsFallsBackWithoutEmbedder(t *testing.T) {
	s := NewSuggestionService(unavailableEmbedder{}, time.Second, 0.6, 10)
	topic := &models.Topic{Name: "Travel"}

	base := time.Now()
	popular := testSet("popular", 20, 4.5, base)
	unpopular := testSet("unpopular", 1, 2.0, base)

	got := s.SuggestSets(context.Background(), topic, []*models.FlashcardSet{unpopular, popular}, 10)
	if len(got) != 2 || got[0].Title != "popular" {
		t.Fatalf("expected popularity ordering, got %v", got)
	}
}

func TestSuggestSetsFallsBackOnEmbedError(t *testing.T) {
	s := NewSuggestionService(&stubEmbedder{err: fmt.Errorf("quota exceeded")}, time.Second, 0.6, 10)
	topic := &models.Topic{Name: "Travel"}

	popular := testSet("popular", 20, 4.5, time.Now())
	unpopular := testSet("unpopular", 1, 2.0, time.Now())

	got := s.SuggestSets(context.Background(), topic, []*models.FlashcardSet{unpopular, popular}, 10)
	if len(got) != 2 || got[0].Title != "popular" {
		t.Fatalf("expected fallback to popularity, got %v", got)
	}
}

func TestSuggestSetsRanksBySimilarity(t *testing.T) {
	topic := &models.Topic{Name: "Travel", Description: "trips and transport"}

	// Popularity says "loosely related" wins; similarity must override it.
	closeMatch := testSet("airport words", 1, 2.0, time.Now())
	looseMatch := testSet("loosely related", 50, 5.0, time.Now())
	offTopic := testSet("cooking verbs", 40, 4.9, time.Now())

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Travel. trips and transport": {1, 0},
		"airport words. ":             {0.95, 0.31},
		"loosely related. ":           {0.75, 0.66},
		"cooking verbs. ":             {0, 1},
	}}

	s := NewSuggestionService(embedder, time.Second, 0.6, 10)
	got := s.SuggestSets(context.Background(), topic, []*models.FlashcardSet{looseMatch, offTopic, closeMatch}, 10)

	if len(got) != 2 {
		t.Fatalf("expected the off-topic set filtered out by the similarity floor, got %d results", len(got))
	}
	if got[0].Title != "airport words" || got[1].Title != "loosely related" {
		t.Errorf("expected similarity ordering [airport words, loosely related], got [%s, %s]", got[0].Title, got[1].Title)
	}
}

func TestSuggestSetsHonorsLimit(t *testing.T) {
	s := NewSuggestionService(unavailableEmbedder{}, time.Second, 0.6, 10)
	topic := &models.Topic{Name: "Travel"}

	var candidates []*models.FlashcardSet
	for i := 0; i < 5; i++ {
		candidates = append(candidates, testSet(fmt.Sprintf("set %d", i), i, 0, time.Now()))
	}

	got := s.SuggestSets(context.Background(), topic, candidates, 2)
	if len(got) != 2 {
		t.Errorf("expected 2 results, got %d", len(got))
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
