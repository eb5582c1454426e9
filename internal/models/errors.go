package models

import "github.com/google/uuid"

// WebSocket message types

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type AchievementEarnedEvent struct {
	AchievementID uuid.UUID `json:"achievement_id"`
	Name          string    `json:"name"`
	Icon          string    `json:"icon"`
	Points        int       `json:"points"`
	Rarity        string    `json:"rarity"`
}

// API Error response

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
