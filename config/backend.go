package config

import (
	"strings"
	"time"
)

const defaultBackendTimeout = 30 * time.Second

// BackendConfig describes the marketplace REST backend this front end talks to.
type BackendConfig struct {
	// BaseURL is the root of the REST API (e.g., "http://localhost:8000").
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000"`

	// Timeout bounds every backend call. A hung request surfaces as a retryable timeout.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// UserAgent is sent on every backend request.
	UserAgent string `env:"USER_AGENT" envDefault:"ecoworth-web"`

	// CatalogCacheTTL is how long the public catalog is cached in Redis. Zero disables the cache.
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"30s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = defaultBackendTimeout
	}
	if strings.TrimSpace(b.UserAgent) == "" {
		b.UserAgent = "ecoworth-web"
	}
	if b.CatalogCacheTTL < 0 {
		b.CatalogCacheTTL = 0
	}
}
