package core

import (
	"context"
	"time"
)

// RateLimitStore abstracts the backing store for rate limiting.
type RateLimitStore interface {
	// IncrementAndCheck atomically increments the counter for key and
	// reports whether limit has been exceeded within window.
	IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)
}

// RateLimitResult contains the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// HealthProbe is a subsystem health check.
type HealthProbe interface {
	// Name identifies the probe in the response, e.g. "database".
	Name() string
	// Check must respect the context deadline.
	Check(ctx context.Context) error
}
