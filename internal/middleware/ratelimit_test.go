package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	calls := 0
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "203.0.113.9:4411"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := send(); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, rr.Code)
		}
	}

	rr := send()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 over the limit, got %d", rr.Code)
	}
	if calls != 2 {
		t.Errorf("expected handler to run 2 times, ran %d", calls)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header on the 429")
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error.Code != "RATE_LIMITED" {
		t.Errorf("expected error code RATE_LIMITED, got %q", body.Error.Code)
	}
}

func TestRateLimiterCountsPerHostNotPerPort(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("203.0.113.9:1111"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	// Same host on a different source port shares the budget.
	if code := send("203.0.113.9:2222"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for same host on new port, got %d", code)
	}
	// A different host does not.
	if code := send("198.51.100.7:1111"); code != http.StatusOK {
		t.Errorf("expected 200 for a different host, got %d", code)
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	current := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	if ok, _ := rl.allow("203.0.113.9"); !ok {
		t.Fatal("expected first request to pass")
	}
	if ok, _ := rl.allow("203.0.113.9"); ok {
		t.Fatal("expected second request in the window to be denied")
	}

	current = current.Add(time.Minute)
	if ok, _ := rl.allow("203.0.113.9"); !ok {
		t.Error("expected the count to reset once the window elapsed")
	}
}
