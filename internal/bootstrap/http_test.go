package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoworth/marketplace-web/internal/testutil"
)

func TestBuildHandler_RequiresServices(t *testing.T) {
	_, err := BuildHandler(nil)
	require.Error(t, err)

	_, err = BuildHandler(&HTTPServerConfig{Config: testAppConfig()})
	require.Error(t, err)
}

func TestBuildHandler_HealthReflectsRedis(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	cfg := testAppConfig()
	cfg.HTTP.CompressionEnabled = true

	svc, err := NewServices(&ServiceDeps{Config: cfg, RedisClient: client, Logger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	handler, err := BuildHandler(&HTTPServerConfig{Config: cfg, Services: svc, RedisClient: client, Logger: discardLogger()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	mr.Close()

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","failed":["redis"]}`, rec.Body.String())
}

func TestBuildHandler_GuardUsesConfiguredLoginPath(t *testing.T) {
	_, client := testutil.SetupTestRedis(t)
	cfg := testAppConfig()
	cfg.Auth.LoginPath = "/signin"

	svc, err := NewServices(&ServiceDeps{Config: cfg, RedisClient: client, Logger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	handler, err := BuildHandler(&HTTPServerConfig{Config: cfg, Services: svc, RedisClient: client, Logger: discardLogger()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/buyer-dashboard", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/signin")
}

func TestShutdownHTTPServer(t *testing.T) {
	require.NoError(t, ShutdownHTTPServer(context.Background(), nil, nil))

	srv := httptest.NewUnstartedServer(http.NotFoundHandler())
	srv.Start()
	t.Cleanup(srv.Close)
	require.NoError(t, ShutdownHTTPServer(context.Background(), srv.Config, discardLogger()))
}
