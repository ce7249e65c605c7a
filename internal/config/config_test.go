package config

import (
	"testing"
	"time"
)

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18080")
	t.Setenv("STUDYLINE_API_URL", "http://api.test:3000")
	t.Setenv("STUDYLINE_API_TIMEOUT", "5s")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "test-issuer")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("DRAFT_TTL", "1h")
	t.Setenv("REDIS_ADDR", "redis.test:6379")

	cfg := Load()
	if cfg.HTTPAddr != ":18080" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.StudyLineURL != "http://api.test:3000" {
		t.Fatalf("expected STUDYLINE_API_URL override, got %s", cfg.StudyLineURL)
	}
	if cfg.StudyLineTimeout != 5*time.Second {
		t.Fatalf("expected STUDYLINE_API_TIMEOUT 5s, got %s", cfg.StudyLineTimeout)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("expected JWT_SECRET override, got %s", cfg.JWTSecret)
	}
	if cfg.JWTIssuer != "test-issuer" {
		t.Fatalf("expected JWT_ISSUER override, got %s", cfg.JWTIssuer)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected SESSION_TTL 30m, got %s", cfg.SessionTTL)
	}
	if cfg.DraftTTL != time.Hour {
		t.Fatalf("expected DRAFT_TTL 1h, got %s", cfg.DraftTTL)
	}
	if cfg.RedisAddr != "redis.test:6379" {
		t.Fatalf("expected REDIS_ADDR override, got %s", cfg.RedisAddr)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := Load()
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("expected default SESSION_TTL, got %s", cfg.SessionTTL)
	}
	if cfg.JWTIssuer != "studyline-gateway" {
		t.Fatalf("expected default issuer, got %s", cfg.JWTIssuer)
	}
}
