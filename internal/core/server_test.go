package core

import (
	"context"
	"log/slog"
	"testing"

	"fangindex/internal/config"
)

func TestNewServer_Success(t *testing.T) {
	cfg := &config.Config{Environment: "local"}

	srv, err := NewServer(cfg, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.Config != cfg {
		t.Error("expected config to be stored")
	}
	if srv.Validator == nil {
		t.Error("expected validator to be initialized")
	}
	if srv.Router() == nil || srv.Handler() == nil {
		t.Error("expected router to be initialized")
	}
}

func TestNewServer_NilArguments(t *testing.T) {
	if _, err := NewServer(nil, slog.Default()); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewServer(&config.Config{}, nil); err == nil {
		t.Error("expected error for nil logger")
	}
}

func TestServer_Shutdown_RunsClosersInReverse(t *testing.T) {
	srv, err := NewServer(&config.Config{}, slog.Default())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	var order []string
	srv.Closers = append(srv.Closers,
		func() { order = append(order, "db") },
		func() { order = append(order, "metrics") },
	)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "metrics" || order[1] != "db" {
		t.Errorf("unexpected closer order %v", order)
	}
}
