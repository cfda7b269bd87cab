package core

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"fangindex/internal/types"
)

// Fallbacks used when the config carries no rate limit settings.
const (
	defaultRateLimitWindow = time.Minute
	defaultRateLimitMax    = 120
)

// RateLimit enforces a per-client-IP request budget using s.RateLimitStore.
//
// Every response carries the X-RateLimit-* headers; rejected requests also
// get Retry-After and a 429 envelope. Store errors fail open. A nil store
// or a configured limit of 0 disables the middleware. Health checks and
// preflight requests are never counted.
func (s *Server) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, window := s.rateLimitSettings()
		if s.RateLimitStore == nil || limit == 0 || r.Method == http.MethodOptions || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		ip := extractClientIP(r)
		result, err := s.RateLimitStore.IncrementAndCheck(r.Context(), ip, limit, window)
		if err != nil {
			s.Logger.Error("rate limit store error",
				slog.String("client_ip", ip),
				slog.String("error", err.Error()),
			)
			next.ServeHTTP(w, r)
			return
		}

		setRateLimitHeaders(w, limit, result)

		if !result.Allowed {
			s.Logger.Warn("rate limit exceeded",
				slog.String("client_ip", ip),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			Error(w, r, types.NewAppError(types.ErrCodeRateLimitExceeded,
				"rate limit exceeded; retry after the reset time", nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimitSettings() (int, time.Duration) {
	if s.Config == nil {
		return defaultRateLimitMax, defaultRateLimitWindow
	}
	window := s.Config.Security.RateLimitWindow
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	return s.Config.Security.RateLimitPerWindow, window
}

// setRateLimitHeaders writes the standard X-RateLimit-* headers to the response.
func setRateLimitHeaders(w http.ResponseWriter, limit int, result RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// extractClientIP returns RemoteAddr without its port. X-Forwarded-For is
// ignored because callers control it; under Lambda RemoteAddr carries the
// source IP API Gateway observed.
func extractClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// MemoryRateLimitStore is a token-bucket RateLimitStore held in process
// memory, one rate.Limiter per key. A bucket holds limit tokens and refills
// at limit per window. Each Lambda instance or HTTP process counts on its
// own, which is enough to blunt a single noisy client.
type MemoryRateLimitStore struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	now      func() time.Time
	sweepAt  time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryRateLimitStore creates an empty store. A nil now uses time.Now.
func NewMemoryRateLimitStore(now func() time.Time) *MemoryRateLimitStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryRateLimitStore{
		limiters: make(map[string]*clientLimiter),
		now:      now,
	}
}

// IncrementAndCheck implements RateLimitStore.
func (m *MemoryRateLimitStore) IncrementAndCheck(_ context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	if limit <= 0 || window <= 0 {
		return RateLimitResult{}, fmt.Errorf("invalid rate limit %d per %s", limit, window)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now, window)

	interval := window / time.Duration(limit)
	every := rate.Every(interval)

	cl, ok := m.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(every, limit)}
		m.limiters[key] = cl
	} else if cl.limiter.Burst() != limit || cl.limiter.Limit() != every {
		cl.limiter.SetLimitAt(now, every)
		cl.limiter.SetBurstAt(now, limit)
	}
	cl.lastSeen = now

	allowed := cl.limiter.AllowN(now, 1)
	tokens := cl.limiter.TokensAt(now)
	if tokens < 0 {
		tokens = 0
	}

	// ResetAt is when the bucket is full again.
	deficit := float64(limit) - tokens
	return RateLimitResult{
		Allowed:   allowed,
		Remaining: int(math.Floor(tokens)),
		ResetAt:   now.Add(time.Duration(deficit * float64(interval))),
	}, nil
}

// sweep drops limiters idle for a full window at most once per window. An
// idle bucket has refilled completely, so dropping it loses no state.
func (m *MemoryRateLimitStore) sweep(now time.Time, window time.Duration) {
	if now.Before(m.sweepAt) {
		return
	}
	for key, cl := range m.limiters {
		if !now.Before(cl.lastSeen.Add(window)) {
			delete(m.limiters, key)
		}
	}
	m.sweepAt = now.Add(window)
}

// Len returns the number of tracked clients.
func (m *MemoryRateLimitStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}
