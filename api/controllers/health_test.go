package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/angelmondragon/pos-backend/pkg/config"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	rec := serve(HealthLive(cfg), newRequest(t, http.MethodGet, "/health/live", nil, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-POS-Env") != "dev" {
		t.Fatalf("expected env header")
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := serve(HealthReady(cfg, nil, map[string]Pinger{"database": ok, "redis": nil}), newRequest(t, http.MethodGet, "/", nil, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	got := decodeData[struct {
		Checks map[string]string `json:"checks"`
	}](t, rec)
	if got.Checks["database"] != "ok" {
		t.Fatalf("expected database ok got %+v", got.Checks)
	}
	if _, present := got.Checks["redis"]; present {
		t.Fatalf("disabled redis should be skipped")
	}

	rec = serve(HealthReady(cfg, nil, map[string]Pinger{"database": ok, "redis": down}), newRequest(t, http.MethodGet, "/", nil, nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}
