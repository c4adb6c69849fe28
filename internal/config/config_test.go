package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ProviderURL == "" {
		t.Error("ProviderURL default missing")
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.CacheTTL != 2592000 {
		t.Errorf("CacheTTL = %d, want 30 days in seconds", cfg.CacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "100")
	t.Setenv("PORT", "9001")
	t.Setenv("PROVIDER_URL", "http://localhost:3000/api/items")

	cfg := Load()
	if cfg.CacheTTL != 100 {
		t.Errorf("CacheTTL = %d, want 100", cfg.CacheTTL)
	}
	if cfg.Port != "9001" {
		t.Errorf("Port = %q, want 9001", cfg.Port)
	}
	if cfg.ProviderURL != "http://localhost:3000/api/items" {
		t.Errorf("ProviderURL = %q", cfg.ProviderURL)
	}
}

func TestGetEnvIntMalformed(t *testing.T) {
	t.Setenv("CACHE_TTL", "not-a-number")
	if got := getEnvInt("CACHE_TTL", 42); got != 42 {
		t.Errorf("getEnvInt = %d, want fallback 42", got)
	}
}
