package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"vocaboost-backend/internal/models"
)

// Embedder turns texts into embedding vectors. Available reports whether the
// backend is configured; an unavailable embedder makes the ranker fall back
// to popularity ordering without calling Embed.
type Embedder interface {
	Available() bool
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// GeminiEmbedder embeds texts with the text-embedding-004 model.
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

// NewGeminiEmbedder returns a disabled embedder when apiKey is empty; the
// server runs fine without AI ranking.
func NewGeminiEmbedder(apiKey string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return &GeminiEmbedder{}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client: client,
		model:  client.EmbeddingModel("text-embedding-004"),
	}, nil
}

func (e *GeminiEmbedder) Available() bool { return e.client != nil }

func (e *GeminiEmbedder) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.client == nil {
		return nil, fmt.Errorf("embedder is not configured")
	}

	batch := e.model.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	res, err := e.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to embed contents: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(res.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// SuggestionService ranks flashcard sets for a topic. With an embedder it
// orders candidates by semantic similarity between the topic text and each
// set's title and description, dropping anything below the similarity floor.
// Without one, or when embedding fails, it falls back to popularity.
type SuggestionService struct {
	embedder   Embedder
	timeout    time.Duration
	minScore   float64
	defaultTop int
}

func NewSuggestionService(embedder Embedder, timeout time.Duration, minScore float64, defaultTop int) *SuggestionService {
	return &SuggestionService{
		embedder:   embedder,
		timeout:    timeout,
		minScore:   minScore,
		defaultTop: defaultTop,
	}
}

// SuggestSets returns up to limit candidates, best first. AI failures are
// logged, never surfaced: the caller always gets an ordering.
func (s *SuggestionService) SuggestSets(ctx context.Context, topic *models.Topic, candidates []*models.FlashcardSet, limit int) []*models.FlashcardSet {
	if limit <= 0 {
		limit = s.defaultTop
	}
	if len(candidates) == 0 {
		return nil
	}

	if !s.embedder.Available() {
		return truncate(rankByPopularity(candidates), limit)
	}

	ranked, err := s.rankBySimilarity(ctx, topic, candidates)
	if err != nil {
		log.Printf("suggestion ranking fell back to popularity: %v", err)
		return truncate(rankByPopularity(candidates), limit)
	}
	return truncate(ranked, limit)
}

func (s *SuggestionService) rankBySimilarity(ctx context.Context, topic *models.Topic, candidates []*models.FlashcardSet) ([]*models.FlashcardSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, topic.Name+". "+topic.Description)
	for _, c := range candidates {
		texts = append(texts, c.Title+". "+c.Description)
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	topicVec := vectors[0]
	type scored struct {
		set   *models.FlashcardSet
		score float64
	}

	ranked := make([]scored, 0, len(candidates))
	for i, c := range candidates {
		score := cosineSimilarity(topicVec, vectors[i+1])
		if score < s.minScore {
			continue
		}
		ranked = append(ranked, scored{set: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]*models.FlashcardSet, len(ranked))
	for i, r := range ranked {
		out[i] = r.set
	}
	return out, nil
}

// rankByPopularity orders by saves, then rating, then recency.
func rankByPopularity(candidates []*models.FlashcardSet) []*models.FlashcardSet {
	out := make([]*models.FlashcardSet, len(candidates))
	copy(out, candidates)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalSaves != out[j].TotalSaves {
			return out[i].TotalSaves > out[j].TotalSaves
		}
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func truncate(sets []*models.FlashcardSet, limit int) []*models.FlashcardSet {
	if len(sets) > limit {
		return sets[:limit]
	}
	return sets
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
