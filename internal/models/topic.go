package models

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	IsActive    bool      `json:"is_active"`
	SetCount    int       `json:"flashcard_sets_count"`
	CreatedAt   time.Time `json:"created_at"`
}
