package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"vocaboost-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

// Set operations

const setColumns = `id, topic_id, creator_id, title, description, is_public, difficulty,
	total_cards, total_saves, average_rating, created_at, updated_at`

func scanSet(row interface{ Scan(dest ...any) error }) (*models.FlashcardSet, error) {
	s := &models.FlashcardSet{}
	err := row.Scan(
		&s.ID, &s.TopicID, &s.CreatorID, &s.Title, &s.Description, &s.IsPublic, &s.Difficulty,
		&s.TotalCards, &s.TotalSaves, &s.AverageRating, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *FlashcardRepo) CreateSet(ctx context.Context, s *models.FlashcardSet) error {
	s.ID = uuid.New()
	query := `INSERT INTO flashcard_sets (id, topic_id, creator_id, title, description, is_public, difficulty)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.TopicID, s.CreatorID, s.Title, s.Description, s.IsPublic, s.Difficulty,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *FlashcardRepo) GetSetByID(ctx context.Context, id uuid.UUID) (*models.FlashcardSet, error) {
	return scanSet(r.pool.QueryRow(ctx, "SELECT "+setColumns+" FROM flashcard_sets WHERE id = $1", id))
}

func (r *FlashcardRepo) ListPublicSets(ctx context.Context, filter models.SetListFilter) ([]*models.FlashcardSet, error) {
	query := "SELECT " + setColumns + " FROM flashcard_sets WHERE is_public = TRUE"
	args := []interface{}{}

	if filter.TopicID != nil {
		args = append(args, *filter.TopicID)
		query += " AND topic_id = $" + itoa(len(args))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		query += " AND difficulty = $" + itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		n := itoa(len(args))
		query += " AND (title ILIKE '%' || $" + n + " || '%' OR description ILIKE '%' || $" + n + " || '%')"
	}

	switch filter.Ordering {
	case "popular":
		query += " ORDER BY total_saves DESC, average_rating DESC"
	case "rating":
		query += " ORDER BY average_rating DESC, total_saves DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	return r.querySets(ctx, query, args...)
}

func (r *FlashcardRepo) ListSetsByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.FlashcardSet, error) {
	query := "SELECT " + setColumns + " FROM flashcard_sets WHERE creator_id = $1 ORDER BY created_at DESC"
	return r.querySets(ctx, query, creatorID)
}

// ListPublicSetsByTopic feeds the suggestion ranker with candidates.
func (r *FlashcardRepo) ListPublicSetsByTopic(ctx context.Context, topicID uuid.UUID) ([]*models.FlashcardSet, error) {
	query := "SELECT " + setColumns + " FROM flashcard_sets WHERE is_public = TRUE AND topic_id = $1"
	return r.querySets(ctx, query, topicID)
}

func (r *FlashcardRepo) SearchPublicSets(ctx context.Context, q string, limit int) ([]*models.FlashcardSet, error) {
	query := "SELECT " + setColumns + ` FROM flashcard_sets
		WHERE is_public = TRUE AND (title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY total_saves DESC LIMIT $2`
	return r.querySets(ctx, query, q, limit)
}

func (r *FlashcardRepo) UpdateSet(ctx context.Context, s *models.FlashcardSet) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE flashcard_sets SET topic_id = $1, title = $2, description = $3, is_public = $4,
		 difficulty = $5, updated_at = NOW() WHERE id = $6`,
		s.TopicID, s.Title, s.Description, s.IsPublic, s.Difficulty, s.ID,
	)
	return err
}

func (r *FlashcardRepo) DeleteSet(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM flashcard_sets WHERE id = $1", id)
	return err
}

func (r *FlashcardRepo) querySets(ctx context.Context, query string, args ...interface{}) ([]*models.FlashcardSet, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []*models.FlashcardSet
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// Card operations

func (r *FlashcardRepo) CreateCards(ctx context.Context, setID uuid.UUID, cards []models.Flashcard) error {
	for i := range cards {
		cards[i].ID = uuid.New()
		cards[i].SetID = setID

		err := r.pool.QueryRow(ctx,
			`INSERT INTO flashcards (id, set_id, vietnamese, english, example_sentence, word_type)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`,
			cards[i].ID, setID, cards[i].Vietnamese, cards[i].English,
			cards[i].ExampleSentence, cards[i].WordType,
		).Scan(&cards[i].CreatedAt)
		if err != nil {
			return err
		}
	}

	return r.RefreshTotalCards(ctx, setID)
}

// RefreshTotalCards re-derives the denormalized card counter after card
// creation or deletion.
func (r *FlashcardRepo) RefreshTotalCards(ctx context.Context, setID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE flashcard_sets
		SET total_cards = (SELECT COUNT(*) FROM flashcards WHERE set_id = $1)
		WHERE id = $1`, setID)
	return err
}

func (r *FlashcardRepo) GetCardsBySet(ctx context.Context, setID uuid.UUID) ([]models.Flashcard, error) {
	query := `SELECT id, set_id, vietnamese, english, example_sentence, word_type, created_at
		FROM flashcards WHERE set_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c := models.Flashcard{}
		if err := rows.Scan(&c.ID, &c.SetID, &c.Vietnamese, &c.English, &c.ExampleSentence, &c.WordType, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *FlashcardRepo) GetCardByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	query := `SELECT id, set_id, vietnamese, english, example_sentence, word_type, created_at
		FROM flashcards WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.SetID, &c.Vietnamese, &c.English, &c.ExampleSentence, &c.WordType, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *FlashcardRepo) UpdateCard(ctx context.Context, c *models.Flashcard) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE flashcards SET vietnamese = $1, english = $2, example_sentence = $3, word_type = $4
		 WHERE id = $5`,
		c.Vietnamese, c.English, c.ExampleSentence, c.WordType, c.ID,
	)
	return err
}

func (r *FlashcardRepo) DeleteCard(ctx context.Context, id, setID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM flashcards WHERE id = $1", id); err != nil {
		return err
	}
	return r.RefreshTotalCards(ctx, setID)
}

func (r *FlashcardRepo) SearchPublicCards(ctx context.Context, q string, limit int) ([]models.Flashcard, error) {
	query := `
		SELECT f.id, f.set_id, f.vietnamese, f.english, f.example_sentence, f.word_type, f.created_at
		FROM flashcards f
		JOIN flashcard_sets fs ON fs.id = f.set_id
		WHERE fs.is_public = TRUE
		  AND (f.vietnamese ILIKE '%' || $1 || '%' OR f.english ILIKE '%' || $1 || '%')
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c := models.Flashcard{}
		if err := rows.Scan(&c.ID, &c.SetID, &c.Vietnamese, &c.English, &c.ExampleSentence, &c.WordType, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
