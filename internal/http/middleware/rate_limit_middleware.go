package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/restofleet/pos-admin-api/internal/http/response"
	"github.com/restofleet/pos-admin-api/internal/observability"
)

// Limiter decides whether one more request fits the key's current window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

// FailureMode picks what happens when the limiter backend errors: the api
// chain fails open, the auth chain fails closed.
type FailureMode string

const (
	FailOpen   FailureMode = "fail_open"
	FailClosed FailureMode = "fail_closed"
)

type RateLimiter struct {
	limiter Limiter
	limit   int
	window  time.Duration
	mode    FailureMode
	scope   string
}

func NewRateLimiter(limit int, window time.Duration, scope string) *RateLimiter {
	return NewDistributedRateLimiter(NewLocalFixedWindowLimiter(), limit, window, FailClosed, scope)
}

func NewDistributedRateLimiter(limiter Limiter, limit int, window time.Duration, mode FailureMode, scope string) *RateLimiter {
	if scope == "" {
		scope = "api"
	}
	return &RateLimiter{limiter: limiter, limit: limit, window: window, mode: mode, scope: scope}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter, err := rl.limiter.Allow(r.Context(), clientIPKey(r), rl.limit, rl.window)
			switch {
			case err != nil && rl.mode == FailOpen:
				slog.WarnContext(r.Context(), "rate limiter backend unavailable, allowing request",
					"scope", rl.scope, "mode", string(rl.mode), "error", err.Error())
				rl.recordDecision(r, "allowed_backend_error")
				next.ServeHTTP(w, r)
			case err != nil:
				rl.recordDecision(r, "rejected_backend_error")
				rl.reject(w, r, "backend_error", rl.window)
			case !allowed:
				rl.recordDecision(r, "rejected")
				rl.reject(w, r, "window_exhausted", retryAfter)
			default:
				rl.recordDecision(r, "allowed")
				next.ServeHTTP(w, r)
			}
		})
	}
}

func (rl *RateLimiter) recordDecision(r *http.Request, outcome string) {
	observability.RecordRateLimitDecision(r.Context(), rl.scope, outcome, string(rl.mode), "client_ip")
}

func (rl *RateLimiter) reject(w http.ResponseWriter, r *http.Request, reason string, retryAfter time.Duration) {
	observability.RecordRateLimitRetryAfter(r.Context(), rl.scope, reason, retryAfter)
	w.Header().Set("Retry-After", retryAfterHeader(retryAfter))
	response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
}

type fixedWindow struct {
	count       int
	windowStart time.Time
}

type localFixedWindowLimiter struct {
	mu      sync.Mutex
	store   map[string]*fixedWindow
	cleanup time.Time
}

// NewLocalFixedWindowLimiter counts per-process only; use the Redis
// limiter when more than one instance serves traffic.
func NewLocalFixedWindowLimiter() Limiter {
	return &localFixedWindowLimiter{
		store:   make(map[string]*fixedWindow),
		cleanup: time.Now().Add(time.Minute),
	}
}

func (l *localFixedWindowLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.cleanup) {
		for k, v := range l.store {
			if now.Sub(v.windowStart) > 2*window {
				delete(l.store, k)
			}
		}
		l.cleanup = now.Add(window)
	}

	entry, ok := l.store[key]
	if !ok || now.Sub(entry.windowStart) >= window {
		l.store[key] = &fixedWindow{count: 1, windowStart: now}
		return true, 0, nil
	}
	if entry.count >= limit {
		retryAfter := window - now.Sub(entry.windowStart)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter, nil
	}
	entry.count++
	return true, 0, nil
}

func clientIPKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func retryAfterHeader(d time.Duration) string {
	seconds := int(d.Round(time.Second).Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
