package handlers

import (
	"encoding/json"
	"net/http"

	"vocaboost-backend/internal/middleware"
	"vocaboost-backend/internal/models"
	"vocaboost-backend/internal/services"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGameSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	session, err := h.gameService.Record(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessions, err := h.gameService.History(r.Context(), userID, r.URL.Query().Get("game_type"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"game_sessions": sessions})
}
