package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("STATIC_DIR", "")
	t.Setenv("AUTH_RATE_LIMIT", "")
	t.Setenv("AUTH_RATE_BURST", "")

	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default HTTP_ADDR, got %s", cfg.HTTPAddr)
	}
	if cfg.StaticDir != "web/static" {
		t.Fatalf("expected default STATIC_DIR, got %s", cfg.StaticDir)
	}
	if cfg.AuthRateLimit != 1 {
		t.Fatalf("expected default AUTH_RATE_LIMIT, got %v", cfg.AuthRateLimit)
	}
	if cfg.AuthRateBurst != 20 {
		t.Fatalf("expected default AUTH_RATE_BURST, got %d", cfg.AuthRateBurst)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18080")
	t.Setenv("STATIC_DIR", "/srv/static")
	t.Setenv("AUTH_RATE_LIMIT", "2.5")
	t.Setenv("AUTH_RATE_BURST", "7")

	cfg := Load()
	if cfg.HTTPAddr != ":18080" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.StaticDir != "/srv/static" {
		t.Fatalf("expected STATIC_DIR override, got %s", cfg.StaticDir)
	}
	if cfg.AuthRateLimit != 2.5 {
		t.Fatalf("expected AUTH_RATE_LIMIT override, got %v", cfg.AuthRateLimit)
	}
	if cfg.AuthRateBurst != 7 {
		t.Fatalf("expected AUTH_RATE_BURST override, got %d", cfg.AuthRateBurst)
	}
}

func TestLoadConfigBadNumbersFallBack(t *testing.T) {
	t.Setenv("AUTH_RATE_LIMIT", "plenty")
	t.Setenv("AUTH_RATE_BURST", "lots")

	cfg := Load()
	if cfg.AuthRateLimit != 1 {
		t.Fatalf("expected fallback AUTH_RATE_LIMIT, got %v", cfg.AuthRateLimit)
	}
	if cfg.AuthRateBurst != 20 {
		t.Fatalf("expected fallback AUTH_RATE_BURST, got %d", cfg.AuthRateBurst)
	}
}
