package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upstream.BaseURL != "http://localhost:8000" {
		t.Errorf("unexpected base url %s", cfg.Upstream.BaseURL)
	}
	if cfg.Dashboard.PriorityCount != 5 || cfg.Dashboard.PredictionHours != 24 {
		t.Errorf("unexpected dashboard defaults %+v", cfg.Dashboard)
	}
	if cfg.Dashboard.RefreshInterval != 0 {
		t.Errorf("background refresh should be off by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("API_BASE_URL", "https://flood.example.org/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REFRESH_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upstream.BaseURL != "https://flood.example.org" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", cfg.Upstream.Timeout)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Dashboard.RefreshInterval != time.Minute {
		t.Errorf("expected 1m refresh, got %s", cfg.Dashboard.RefreshInterval)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"ADMIN_PASSWORD": "x", "SERVER_PORT": "70000"}},
		{"bad base url", map[string]string{"ADMIN_PASSWORD": "x", "API_BASE_URL": "not a url"}},
		{"tiny refresh", map[string]string{"ADMIN_PASSWORD": "x", "REFRESH_INTERVAL": "1s"}},
		{"bad log level", map[string]string{"ADMIN_PASSWORD": "x", "LOG_LEVEL": "loud"}},
		{"bad log format", map[string]string{"ADMIN_PASSWORD": "x", "LOG_FORMAT": "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load should not require credentials: %v", err)
	}
	if err := cfg.Auth.Validate(); err == nil {
		t.Error("expected error without password")
	}

	cfg.Auth.PasswordHash = "$2a$10$abcdefghijklmnopqrstuu"
	if err := cfg.Auth.Validate(); err != nil {
		t.Errorf("hash alone should be enough: %v", err)
	}

	cfg.Auth.SessionTTL = 0
	if err := cfg.Auth.Validate(); err == nil {
		t.Error("expected error for zero session TTL")
	}
}
