package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("HEALTH_INTERVAL", "")
	t.Setenv("SESSION_MAX_AGE", "")
	t.Setenv("APP_API_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("unexpected default port %q", cfg.Port)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("unexpected default timeout %v", cfg.HTTPTimeout)
	}
	if cfg.HealthInterval != 15*time.Second {
		t.Errorf("unexpected default health interval %v", cfg.HealthInterval)
	}
	if cfg.SessionMaxAge != 24*time.Hour {
		t.Errorf("unexpected default session lifetime %v", cfg.SessionMaxAge)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed HTTP_TIMEOUT")
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &AppConfig{CORSOrigins: "http://localhost:3000, http://127.0.0.1:3000 ,,"}

	origins := cfg.AllowedOrigins()
	if len(origins) != 2 {
		t.Fatalf("expected 2 origins, got %v", origins)
	}
	if origins[0] != "http://localhost:3000" || origins[1] != "http://127.0.0.1:3000" {
		t.Errorf("unexpected origins %v", origins)
	}
}
