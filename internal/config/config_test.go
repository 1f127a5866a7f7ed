package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "ORDERS_API_BASE_URL", "WS_HEARTBEAT_INTERVAL", "R2_ACCOUNT_ID", "OBJECT_STORE_ENDPOINT", "R2_S3_ENDPOINT", "SESSION_IDLE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "development" {
		t.Fatalf("expected development env, got %s", cfg.Env)
	}
	if cfg.HTTPAddr != ":8087" {
		t.Fatalf("expected :8087, got %s", cfg.HTTPAddr)
	}
	if cfg.WSHeartbeatInterval != 30*time.Second {
		t.Fatalf("expected 30s heartbeat, got %s", cfg.WSHeartbeatInterval)
	}
	if cfg.SessionIdleTTL != 8*time.Hour {
		t.Fatalf("expected 8h session ttl, got %s", cfg.SessionIdleTTL)
	}
	if cfg.ObjectStoreEnabled() {
		t.Fatalf("expected object store disabled without settings")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ORDERS_API_BASE_URL", "https://api.example.test/api/admin/")
	t.Setenv("WS_HEARTBEAT_INTERVAL", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")
	t.Setenv("R2_ACCOUNT_ID", "acc123")
	t.Setenv("OBJECT_STORE_ENDPOINT", "")
	t.Setenv("R2_S3_ENDPOINT", "")

	cfg := Load()
	if cfg.OrdersAPIBaseURL != "https://api.example.test/api/admin" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.OrdersAPIBaseURL)
	}
	if cfg.WSHeartbeatInterval != 30*time.Second {
		t.Fatalf("expected fallback heartbeat, got %s", cfg.WSHeartbeatInterval)
	}
	if len(cfg.CorsAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CorsAllowedOrigins)
	}
	if cfg.ObjectStoreEndpoint != "https://acc123.r2.cloudflarestorage.com" {
		t.Fatalf("unexpected endpoint %s", cfg.ObjectStoreEndpoint)
	}
}
