package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoworth/marketplace-web/config"
)

func TestLoadConfig_ReadsEnvAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BACKEND_TIMEOUT=7s\n"), 0o600))
	t.Chdir(dir)
	// godotenv writes straight to the process environment.
	t.Cleanup(func() { _ = os.Unsetenv("BACKEND_TIMEOUT") })
	t.Setenv("BACKEND_BASE_URL", "https://api.example.test/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test", cfg.Backend.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, config.SessionStoreRedis, cfg.Auth.SessionStore)
}

func TestLoadConfig_MissingDotEnvIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig()
	require.NoError(t, err)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_SESSION_STORE", "filesystem")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.AppConfig
		wantErr string
	}{
		{name: "nil", wantErr: "config is required"},
		{
			name:    "missing backend",
			cfg:     &config.AppConfig{Auth: config.AuthConfig{SessionStore: config.SessionStoreRedis}},
			wantErr: "BACKEND_BASE_URL",
		},
		{
			name: "memory sessions outside dev",
			cfg: &config.AppConfig{
				Backend: config.BackendConfig{BaseURL: "http://backend"},
				Auth:    config.AuthConfig{SessionStore: config.SessionStoreMemory},
			},
			wantErr: "only allowed in development",
		},
		{
			name: "memory sessions in dev",
			cfg: &config.AppConfig{
				IsDev:   true,
				Backend: config.BackendConfig{BaseURL: "http://backend"},
				Auth:    config.AuthConfig{SessionStore: config.SessionStoreMemory},
			},
		},
		{
			name: "redis sessions",
			cfg: &config.AppConfig{
				Backend: config.BackendConfig{BaseURL: "http://backend"},
				Auth:    config.AuthConfig{SessionStore: config.SessionStoreRedis},
			},
		},
		{
			name: "cookie domain is a public suffix",
			cfg: &config.AppConfig{
				HTTP:    config.HTTPConfig{CookieDomain: ".co.uk"},
				Backend: config.BackendConfig{BaseURL: "http://backend"},
				Auth:    config.AuthConfig{SessionStore: config.SessionStoreRedis},
			},
			wantErr: "public suffix",
		},
		{
			name: "registrable cookie domain",
			cfg: &config.AppConfig{
				HTTP:    config.HTTPConfig{CookieDomain: ".ecoworth.co.uk"},
				Backend: config.BackendConfig{BaseURL: "http://backend"},
				Auth:    config.AuthConfig{SessionStore: config.SessionStoreRedis},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
