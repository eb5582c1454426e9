package models

import (
	"time"

	"github.com/google/uuid"
)

type FlashcardSet struct {
	ID            uuid.UUID `json:"id"`
	TopicID       uuid.UUID `json:"topic_id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	IsPublic      bool      `json:"is_public"`
	Difficulty    string    `json:"difficulty"` // "beginner" | "intermediate" | "advanced"
	TotalCards    int       `json:"total_cards"`
	TotalSaves    int       `json:"total_saves"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Flashcard struct {
	ID              uuid.UUID `json:"id"`
	SetID           uuid.UUID `json:"set_id"`
	Vietnamese      string    `json:"vietnamese"`
	English         string    `json:"english"`
	ExampleSentence string    `json:"example_sentence"`
	WordType        string    `json:"word_type"` // "noun" | "verb" | "adjective" | "adverb" | "phrase" | "other"
	CreatedAt       time.Time `json:"created_at"`
}

// SavedFlashcardSet links a user to a public set they bookmarked. Rating is
// optional and feeds the set's average_rating.
type SavedFlashcardSet struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	SetID      uuid.UUID `json:"set_id"`
	IsFavorite bool      `json:"is_favorite"`
	Rating     *int      `json:"rating"` // 1-5
	SavedAt    time.Time `json:"saved_at"`
}

type CreateFlashcardSetRequest struct {
	TopicID     uuid.UUID `json:"topic_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	Difficulty  string    `json:"difficulty"`
}

type CreateFlashcardRequest struct {
	Vietnamese      string `json:"vietnamese"`
	English         string `json:"english"`
	ExampleSentence string `json:"example_sentence"`
	WordType        string `json:"word_type"`
}

type SaveSetRequest struct {
	SetID      uuid.UUID `json:"flashcard_set_id"`
	IsFavorite bool      `json:"is_favorite"`
	Rating     *int      `json:"rating"`
}

type SetListFilter struct {
	TopicID    *uuid.UUID
	Difficulty string
	Search     string
	Ordering   string // "newest" | "popular" | "rating"
}

type UserFeedback struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FlashcardID uuid.UUID `json:"flashcard_id"`
	Rating      int       `json:"rating"` // 1=very hard .. 5=very easy
	Comment     string    `json:"comment"`
	IsProcessed bool      `json:"is_processed"`
	CreatedAt   time.Time `json:"created_at"`
}
