package core

import (
	"context"
	"sync"
	"time"
)

// MockRateLimitStore is a RateLimitStore for tests. IncrementAndCheckFunc,
// when set, takes precedence over Result and Err.
//
//	store := &MockRateLimitStore{
//	    Result: RateLimitResult{Allowed: false, ResetAt: time.Now().Add(time.Minute)},
//	}
type MockRateLimitStore struct {
	Result RateLimitResult
	Err    error

	IncrementAndCheckFunc func(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)

	mu    sync.Mutex
	Calls []RateLimitCall
}

// RateLimitCall records the arguments of a single IncrementAndCheck invocation.
type RateLimitCall struct {
	Key    string
	Limit  int
	Window time.Duration
}

// IncrementAndCheck implements RateLimitStore.
func (m *MockRateLimitStore) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, RateLimitCall{Key: key, Limit: limit, Window: window})
	m.mu.Unlock()

	if m.IncrementAndCheckFunc != nil {
		return m.IncrementAndCheckFunc(ctx, key, limit, window)
	}
	return m.Result, m.Err
}

// MockMetrics is a MetricsCollector that records every call.
type MockMetrics struct {
	mu       sync.Mutex
	Requests []RecordedRequest
}

// RecordedRequest is one RecordRequest invocation.
type RecordedRequest struct {
	Method   string
	Endpoint string
	Status   string
	Duration time.Duration
}

// RecordRequest implements MetricsCollector.
func (m *MockMetrics) RecordRequest(_ context.Context, method, endpoint, status string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, RecordedRequest{Method: method, Endpoint: endpoint, Status: status, Duration: d})
}

// Snapshot returns a copy of the recorded requests.
func (m *MockMetrics) Snapshot() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.Requests))
	copy(out, m.Requests)
	return out
}

var (
	_ RateLimitStore   = (*MockRateLimitStore)(nil)
	_ RateLimitStore   = (*MemoryRateLimitStore)(nil)
	_ MetricsCollector = (*MockMetrics)(nil)
)
