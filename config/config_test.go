package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:3000" {
		t.Fatalf("addr = %q", cfg.Server.Addr())
	}
	if cfg.JWT.AccessTTL() != 15*time.Minute {
		t.Fatalf("access ttl = %v", cfg.JWT.AccessTTL())
	}
	if cfg.JWT.RefreshTTL() != 7*24*time.Hour {
		t.Fatalf("refresh ttl = %v", cfg.JWT.RefreshTTL())
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("bcrypt cost = %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.DefaultTimezone != "Europe/Istanbul" {
		t.Fatalf("timezone = %q", cfg.Auth.DefaultTimezone)
	}
	if cfg.Auth.LoginMaxAttempts != 10 || cfg.Auth.LoginWindow != 5*time.Minute {
		t.Fatalf("login throttle = %d per %v", cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
	}
	if cfg.Server.TrustProxyHeaders {
		t.Fatal("proxy headers trusted by default")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestParseRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Parse(); err == nil {
		t.Fatal("expected error for empty JWT_SECRET")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("JWT_ACCESS_EXPIRY_MINUTES", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOGIN_WINDOW", "30s")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.JWT.AccessTTL() != 5*time.Minute {
		t.Fatalf("access ttl = %v", cfg.JWT.AccessTTL())
	}
	if cfg.Auth.LoginWindow != 30*time.Second {
		t.Fatalf("login window = %v", cfg.Auth.LoginWindow)
	}
	if !cfg.Server.TrustProxyHeaders {
		t.Fatal("TRUST_PROXY_HEADERS not applied")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"SERVER_PORT":             "70000",
		"JWT_REFRESH_EXPIRY_DAYS": "0",
		"BCRYPT_COST":             "2",
		"DEFAULT_TIMEZONE":        "Mars/Olympus",
		"LOGIN_MAX_ATTEMPTS":      "-1",
		"LOGIN_WINDOW":            "0s",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s")
			t.Setenv(key, val)
			if _, err := Parse(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestParseRejectsServerLocalTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DEFAULT_TIMEZONE", "Local")

	if _, err := Parse(); err == nil {
		t.Fatal("expected error for DEFAULT_TIMEZONE=Local")
	}
}
