package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lfapurpose/ghost-gateway/app"
	"github.com/lfapurpose/ghost-gateway/config"
	"github.com/lfapurpose/ghost-gateway/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	// Setup
	os.Setenv("ENVIRONMENT", "test")
	os.Setenv("LOG_LEVEL", "error")

	// Run tests
	code := m.Run()

	// Teardown
	os.Exit(code)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			RequestTimeout:  5 * time.Second,
		},
		Ghost: config.GhostConfig{
			AcceptVersion: "v5.0",
			Audience:      "/admin/",
			TokenTTL:      5 * time.Minute,
			Timeout:       5 * time.Second,
			UpcomingLimit: 5,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}, MaxAge: 300},
		Observability: config.ObservabilityConfig{
			LogLevel:  "error",
			LogFormat: "json",
		},
	}
}

func TestInitLogger(t *testing.T) {
	t.Run("json logger", func(t *testing.T) {
		logger, err := initLogger(config.ObservabilityConfig{LogLevel: "info", LogFormat: "json"})
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()

		assert.True(t, logger.Core().Enabled(zap.InfoLevel))
		assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("development console logger", func(t *testing.T) {
		logger, err := initLogger(config.ObservabilityConfig{LogLevel: "debug", LogFormat: "console"})
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()

		assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("invalid log level", func(t *testing.T) {
		logger, err := initLogger(config.ObservabilityConfig{LogLevel: "invalid", LogFormat: "json"})
		assert.Error(t, err)
		assert.Nil(t, logger)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestInitLogger_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nLOG_FORMAT=console\n"), 0o600))
	origWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := config.New(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.Equal(t, "console", cfg.Observability.LogFormat)

	logger, err := initLogger(cfg.Observability)
	require.NoError(t, err)
	defer logger.Sync()
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t)
	srv := newServer(cfg, http.NotFoundHandler())

	assert.Equal(t, "127.0.0.1:8080", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 5*time.Second, srv.WriteTimeout)
}

func TestApplicationStartup(t *testing.T) {
	t.Run("starts without ghost credentials", func(t *testing.T) {
		cfg := testConfig(t)
		logger := zaptest.NewLogger(t)

		deps, err := app.NewDependencies(context.Background(), cfg, logger)
		require.NoError(t, err)

		ts := httptest.NewServer(routes.SetupRoutes(deps))
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})
}

func TestHealthEndpoints(t *testing.T) {
	cfg := testConfig(t)
	deps, err := app.NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	ts := httptest.NewServer(routes.SetupRoutes(deps))
	defer ts.Close()

	t.Run("status endpoint returns version info", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/status")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body, "version")
		assert.Contains(t, body, "environment")
		assert.Contains(t, body, "upstream")
	})

	t.Run("not ready without ghost", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/readyz")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "not_ready", body["status"])
	})
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	t.Setenv("PORT", "38917")
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("GHOST_ADMIN_URL", "")
	t.Setenv("GHOST_ADMIN_API_KEY", "")

	cfg, err := config.New(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, zaptest.NewLogger(t)) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
