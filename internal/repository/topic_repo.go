package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"vocaboost-backend/internal/models"
)

type TopicRepo struct {
	pool *pgxpool.Pool
}

func NewTopicRepo(pool *pgxpool.Pool) *TopicRepo {
	return &TopicRepo{pool: pool}
}

func (r *TopicRepo) ListActive(ctx context.Context) ([]*models.Topic, error) {
	query := `
		SELECT t.id, t.name, t.description, t.icon, t.is_active, t.created_at,
			(SELECT COUNT(*) FROM flashcard_sets fs WHERE fs.topic_id = t.id AND fs.is_public = TRUE)
		FROM topics t
		WHERE t.is_active = TRUE
		ORDER BY t.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		t := &models.Topic{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Icon, &t.IsActive, &t.CreatedAt, &t.SetCount); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *TopicRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	t := &models.Topic{}
	query := `SELECT id, name, description, icon, is_active, created_at FROM topics WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.Icon, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TopicRepo) SearchActive(ctx context.Context, q string, limit int) ([]*models.Topic, error) {
	query := `
		SELECT id, name, description, icon, is_active, created_at
		FROM topics
		WHERE is_active = TRUE AND name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		t := &models.Topic{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Icon, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
