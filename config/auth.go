package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects where browser sessions are persisted.
type SessionStoreKind string

const (
	// SessionStoreRedis persists sessions in Redis (production).
	SessionStoreRedis SessionStoreKind = "redis"
	// SessionStoreMemory keeps sessions in process memory (development only).
	SessionStoreMemory SessionStoreKind = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreKind: %q (valid options: redis, memory)", v)
	}
}

// AuthConfig groups session and login related configuration.
type AuthConfig struct {
	// SessionStore selects the session persistence backend.
	SessionStore SessionStoreKind `env:"AUTH_SESSION_STORE" envDefault:"redis"`

	// SessionTTL is used when the backend access token carries no exp claim.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`

	// SessionKeyPrefix namespaces session keys in Redis.
	SessionKeyPrefix string `env:"AUTH_SESSION_KEY_PREFIX" envDefault:"ecoworth:session:"`

	// SessionEncryptionKey encrypts the backend access token inside stored sessions.
	// A 64-character hex string is used as-is; any other value is hashed to 32 bytes.
	// Leave empty to store tokens in plain text (development only).
	SessionEncryptionKey string `env:"AUTH_SESSION_ENCRYPTION_KEY" envDefault:""`

	// RememberEmailTTL controls how long the "remember me" email cookie lives.
	RememberEmailTTL time.Duration `env:"AUTH_REMEMBER_EMAIL_TTL" envDefault:"720h"`

	// LoginPath is where unauthenticated visitors are sent by the route guard.
	LoginPath string `env:"AUTH_LOGIN_PATH" envDefault:"/login"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionStore == "" {
		a.SessionStore = SessionStoreRedis
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 24 * time.Hour
	}
	if a.RememberEmailTTL <= 0 {
		a.RememberEmailTTL = 30 * 24 * time.Hour
	}
	if strings.TrimSpace(a.SessionKeyPrefix) == "" {
		a.SessionKeyPrefix = "ecoworth:session:"
	}
	if a.LoginPath = strings.TrimSpace(a.LoginPath); !strings.HasPrefix(a.LoginPath, "/") {
		a.LoginPath = "/login"
	}
}
