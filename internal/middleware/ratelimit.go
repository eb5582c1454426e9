package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter caps requests per client IP over a fixed window. Each IP gets
// its own window starting at its first request, so the count cannot be reset
// by straddling a shared boundary.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

type clientWindow struct {
	windowStart time.Time
	count       int
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	go rl.sweep()
	return rl
}

// sweep drops expired windows so the map does not grow with every IP ever
// seen.
func (rl *RateLimiter) sweep() {
	for {
		time.Sleep(rl.window)

		rl.mu.Lock()
		cutoff := rl.now().Add(-rl.window)
		for ip, c := range rl.clients {
			if c.windowStart.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow records one request for the IP and reports whether it stays within
// the limit. On denial it also returns the seconds left in the window.
func (rl *RateLimiter) allow(ip string) (bool, int) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok || now.Sub(c.windowStart) >= rl.window {
		rl.clients[ip] = &clientWindow{windowStart: now, count: 1}
		return true, 0
	}

	c.count++
	if c.count > rl.limit {
		retry := int((rl.window - now.Sub(c.windowStart)).Seconds())
		if retry < 1 {
			retry = 1
		}
		return false, retry
	}
	return true, 0
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := rl.allow(clientIP(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP keys the limiter by host only. RealIP runs before this middleware,
// so RemoteAddr already reflects the forwarded client address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
