package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"vocaboost-backend/internal/services"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error.Code
}

// ─── Helper Tests ───

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]string{"message": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "ok" {
		t.Errorf("expected message ok, got %q", body["message"])
	}
}

func TestErrorRespCarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Topic not found", req)

	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("expected code NOT_FOUND, got %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("expected request ID req-123, got %q", resp.Error.RequestID)
	}
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"email": "bad"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"validation message", &services.ValidationError{Message: "results must not be empty"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &services.ConflictError{Message: "Email already in use"}, http.StatusConflict, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "Flashcard not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", &services.UnauthorizedError{Message: "Invalid email or password"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &services.ForbiddenError{Message: "Access denied"}, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, rr.Code)
			}
			if code := decodeError(t, rr); code != tc.wantCode {
				t.Errorf("expected code %q, got %q", tc.wantCode, code)
			}
		})
	}
}

// ─── Validation Paths ───

func TestFlashcardGetRejectsBadID(t *testing.T) {
	h := NewFlashcardHandler(nil, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/flashcard-sets/not-a-uuid", nil), "id", "not-a-uuid")
	rr := httptest.NewRecorder()

	h.Get(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
	if code := decodeError(t, rr); code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %q", code)
	}
}

func TestFlashcardCreateRejectsBadBody(t *testing.T) {
	h := NewFlashcardHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/flashcard-sets", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestFlashcardCreateRejectsBadDifficulty(t *testing.T) {
	h := NewFlashcardHandler(nil, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"topic_id":   "8f1f6c1e-9d4a-4a7c-9a5f-2b6f0a1d3c4e",
		"title":      "Basics",
		"difficulty": "impossible",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/flashcard-sets", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestGameRecordRejectsInvalidSession(t *testing.T) {
	h := NewGameHandler(services.NewGameService(nil, nil, nil, nil))

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"unknown game type", map[string]interface{}{"game_type": "chess", "total_questions": 5}},
		{"negative score", map[string]interface{}{"game_type": "word_match", "score": -1, "total_questions": 5}},
		{"correct exceeds total", map[string]interface{}{"game_type": "word_match", "total_questions": 5, "correct_answers": 6}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/games/sessions", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			h.Record(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rr.Code)
			}
		})
	}
}

func TestSavedSetSaveRejectsBadRating(t *testing.T) {
	h := NewSavedSetHandler(nil, nil, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"flashcard_set_id": "8f1f6c1e-9d4a-4a7c-9a5f-2b6f0a1d3c4e",
		"rating":           9,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/saved-sets", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	h.Save(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	h := NewSearchHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=++", nil)
	rr := httptest.NewRecorder()

	h.Search(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestListProgressRejectsUnknownStatus(t *testing.T) {
	h := NewStudyHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/study/progress?status=forgotten", nil)
	rr := httptest.NewRecorder()

	h.ListProgress(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		def     int
		want    int
		wantErr bool
	}{
		{"absent uses default", "", 4, 4, false},
		{"parses value", "weeks=2", 4, 2, false},
		{"at upper bound", "weeks=12", 4, 12, false},
		{"below minimum", "weeks=0", 4, 0, true},
		{"above maximum", "weeks=13", 4, 0, true},
		{"not a number", "weeks=soon", 4, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
			got, err := queryInt(req, "weeks", tc.def, 1, 12)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestWeeklyRejectsBadWeeksParam(t *testing.T) {
	h := NewStatsHandler(nil, nil, nil, nil)

	for _, q := range []string{"weeks=0", "weeks=53", "weeks=soon"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/weekly?"+q, nil)
		rr := httptest.NewRecorder()

		h.Weekly(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", q, rr.Code)
		}
		if code := decodeError(t, rr); code != "VALIDATION_ERROR" {
			t.Errorf("%s: expected code VALIDATION_ERROR, got %q", q, code)
		}
	}
}

func TestLeaderboardRejectsBadLimit(t *testing.T) {
	h := NewStatsHandler(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=500", nil)
	rr := httptest.NewRecorder()

	h.Leaderboard(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if code := decodeError(t, rr); code != "VALIDATION_ERROR" {
		t.Errorf("expected code VALIDATION_ERROR, got %q", code)
	}
}
