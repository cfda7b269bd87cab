package core

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"fangindex/internal/config"
	"fangindex/internal/types"
)

// newTestServerForRoutes creates a server with every optional middleware
// dependency set and a single /v1/ping route.
func newTestServerForRoutes(t *testing.T) (*Server, *MockMetrics) {
	t.Helper()

	cfg := &config.Config{
		Environment: "local",
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second},
		Security: config.SecurityConfig{
			CorsAllowedOrigins: []string{"*"},
			RateLimitPerWindow: 100,
			RateLimitWindow:    time.Minute,
		},
	}

	srv, err := NewServer(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	metrics := &MockMetrics{}
	srv.Metrics = metrics
	srv.RateLimitStore = NewMemoryRateLimitStore(nil)
	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars, func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			JSON(w, r, http.StatusOK, APIResponse{Data: map[string]string{
				"request_id": types.GetRequestID(r.Context()),
			}})
		})
		r.Get("/deadline", func(w http.ResponseWriter, r *http.Request) {
			_, ok := r.Context().Deadline()
			JSON(w, r, http.StatusOK, APIResponse{Data: ok})
		})
		r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})
	})

	srv.MountRoutes()
	return srv, metrics
}

func TestMountRoutes_V1RegistrarMounted(t *testing.T) {
	srv, metrics := newTestServerForRoutes(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data["request_id"] == "" || body.Data["request_id"] != rec.Header().Get("X-Request-Id") {
		t.Errorf("request id not propagated: body=%q header=%q", body.Data["request_id"], rec.Header().Get("X-Request-Id"))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
	if rec.Header().Get("X-RateLimit-Limit") != "100" {
		t.Errorf("expected rate limit headers, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected wildcard CORS header")
	}
	if len(metrics.Snapshot()) != 1 {
		t.Errorf("expected one metrics record, got %d", len(metrics.Snapshot()))
	}
}

func TestMountRoutes_ClientRequestIDReused(t *testing.T) {
	srv, _ := newTestServerForRoutes(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("X-Request-Id", "client-supplied-id")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "client-supplied-id" {
		t.Errorf("expected client request id, got %q", got)
	}
}

func TestMountRoutes_OversizedRequestIDReplaced(t *testing.T) {
	srv, _ := newTestServerForRoutes(t)

	long := make([]byte, maxRequestIDLength+1)
	for i := range long {
		long[i] = 'a'
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("X-Request-Id", string(long))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got == string(long) || len(got) != 36 {
		t.Errorf("expected generated uuid, got %q", got)
	}
}

func TestMountRoutes_ContextDeadline(t *testing.T) {
	srv, _ := newTestServerForRoutes(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/deadline", nil))

	if rec.Body.String() != `{"data":true}` {
		t.Errorf("expected request deadline, got %s", rec.Body.String())
	}
}

func TestMountRoutes_Health(t *testing.T) {
	srv, _ := newTestServerForRoutes(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMountRoutes_NotFoundAndMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServerForRoutes(t)

	tests := []struct {
		method string
		path   string
		status int
		code   types.ErrorCode
	}{
		{http.MethodGet, "/v1/nope", http.StatusNotFound, errCodeNotFoundRoute},
		{http.MethodDelete, "/v1/ping", http.StatusMethodNotAllowed, errCodeMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

		if rec.Code != tt.status {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.status, rec.Code)
		}
		var body APIErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error.Code != string(tt.code) {
			t.Errorf("%s %s: expected code %q, got %q", tt.method, tt.path, tt.code, body.Error.Code)
		}
	}
}

func TestMountRoutes_PanicRecovered(t *testing.T) {
	srv, _ := newTestServerForRoutes(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/panic", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestMountRoutes_RateLimitKicksIn(t *testing.T) {
	srv, _ := newTestServerForRoutes(t)
	srv.Config.Security.RateLimitPerWindow = 2

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
		req.RemoteAddr = "198.51.100.20:1234"
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected third request to be limited, got %d", last)
	}
}
