package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_SESSION_STORE", "Memory")
	t.Setenv("AUTH_SESSION_TTL", "2h")
	t.Setenv("AUTH_SESSION_KEY_PREFIX", "test:session:")
	t.Setenv("AUTH_REMEMBER_EMAIL_TTL", "48h")
	t.Setenv("AUTH_LOGIN_PATH", "/login")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		SessionStore:     SessionStoreMemory,
		SessionTTL:       2 * time.Hour,
		SessionKeyPrefix: "test:session:",
		RememberEmailTTL: 48 * time.Hour,
		LoginPath:        "/login",
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_ParseInvalidSessionStore(t *testing.T) {
	t.Setenv("AUTH_SESSION_STORE", "sqlite")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatalf("expected parse error for unknown session store")
	}
}

func TestAppConfig_ParseBackendEnv(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", " https://api.ecoworth.example/ ")
	t.Setenv("BACKEND_TIMEOUT", "5s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Backend.BaseURL != "https://api.ecoworth.example" {
		t.Fatalf("expected trimmed base url, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.Backend.Timeout)
	}
	if cfg.Backend.CatalogCacheTTL != 30*time.Second {
		t.Fatalf("expected 30s catalog cache ttl, got %s", cfg.Backend.CatalogCacheTTL)
	}
}

func TestBackendConfig_SanitizeDefaults(t *testing.T) {
	cfg := BackendConfig{BaseURL: "http://backend:8000///", Timeout: -1, CatalogCacheTTL: -time.Second}
	cfg.Sanitize()

	if cfg.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout)
	}
	if cfg.BaseURL != "http://backend:8000" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.UserAgent != "ecoworth-web" {
		t.Fatalf("unexpected user agent %q", cfg.UserAgent)
	}
	if cfg.CatalogCacheTTL != 0 {
		t.Fatalf("expected negative catalog cache ttl to disable the cache, got %s", cfg.CatalogCacheTTL)
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{LoginPath: "login", SessionKeyPrefix: "  "}
	cfg.Sanitize()

	if cfg.SessionStore != SessionStoreRedis {
		t.Fatalf("expected redis default, got %q", cfg.SessionStore)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %s", cfg.SessionTTL)
	}
	if cfg.LoginPath != "/login" {
		t.Fatalf("expected relative login path to be reset, got %q", cfg.LoginPath)
	}
	if cfg.SessionKeyPrefix != "ecoworth:session:" {
		t.Fatalf("unexpected prefix %q", cfg.SessionKeyPrefix)
	}
}

func TestHTTPConfig_SanitizeClampsCompression(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 42}
	cfg.Sanitize()
	if cfg.CompressionLevel != 9 {
		t.Fatalf("expected level clamped to 9, got %d", cfg.CompressionLevel)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}

	cfg = HTTPConfig{Addr: ":9000", CompressionLevel: 0}
	cfg.Sanitize()
	if cfg.CompressionLevel != 1 {
		t.Fatalf("expected level clamped to 1, got %d", cfg.CompressionLevel)
	}
}

func TestAppConfig_DetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatalf("expected dev mode from NODE_ENV")
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "ecoworth" {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}
}

func TestSweeperConfig_ParseAndSanitize(t *testing.T) {
	t.Setenv("SWEEPER_INTERVAL", "10ms")
	t.Setenv("SWEEPER_IDLE_TIMEOUT", "1h")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if !cfg.Sweeper.Enabled {
		t.Fatalf("expected sweeper enabled by default")
	}
	if cfg.Sweeper.Interval != 5*time.Minute {
		t.Fatalf("expected sub-second interval to reset to 5m, got %s", cfg.Sweeper.Interval)
	}
	if cfg.Sweeper.IdleTimeout != time.Hour {
		t.Fatalf("unexpected idle timeout %s", cfg.Sweeper.IdleTimeout)
	}
}
