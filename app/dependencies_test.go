package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lfapurpose/ghost-gateway/config"
	"github.com/lfapurpose/ghost-gateway/internal/auth"
	"github.com/lfapurpose/ghost-gateway/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T, ghostURL, adminKey, contentKey string) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Ghost: config.GhostConfig{
			URL:           ghostURL,
			AdminKey:      adminKey,
			ContentKey:    contentKey,
			AcceptVersion: "v5.0",
			Audience:      auth.DefaultAudience,
			TokenTTL:      5 * time.Minute,
			Timeout:       5 * time.Second,
			UpcomingLimit: 5,
		},
	}
}

func TestNewDependencies(t *testing.T) {
	ctx := context.Background()

	t.Run("fully configured", func(t *testing.T) {
		cfg := testConfig(t, "https://blog.example.com", "64fa:48656c6c6f", "content-key")

		deps, err := NewDependencies(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, deps)

		assert.True(t, deps.AdminReady)
		assert.True(t, deps.ContentReady)
		assert.Empty(t, deps.GhostProblem)
		require.NotNil(t, deps.Signer)
		assert.Equal(t, "64fa", deps.Signer.KeyID())
		assert.NotNil(t, deps.Posts)
		assert.NotNil(t, deps.Metrics)

		assert.Nil(t, deps.PostCache)

		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("cache enabled", func(t *testing.T) {
		cfg := testConfig(t, "https://blog.example.com", "64fa:48656c6c6f", "")
		cfg.Cache = config.CacheConfig{TTL: time.Minute, MaxEntries: 8}

		deps, err := NewDependencies(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, deps.PostCache)
		assert.Equal(t, 8, deps.PostCache.Stats().MaxSize)

		assert.NoError(t, deps.Close(ctx))
		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("missing admin key", func(t *testing.T) {
		cfg := testConfig(t, "https://blog.example.com", "", "")

		deps, err := NewDependencies(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)

		assert.False(t, deps.AdminReady)
		assert.False(t, deps.ContentReady)
		assert.Nil(t, deps.Signer)
		assert.Contains(t, deps.GhostProblem, "GHOST_ADMIN_API_KEY")

		_, err = deps.Posts.Upcoming(ctx, 0)
		assert.True(t, services.IsConfigurationError(err))

		_, err = deps.Posts.PublicFeatured(ctx, 0)
		assert.True(t, services.IsConfigurationError(err))
	})

	t.Run("malformed admin key", func(t *testing.T) {
		cfg := testConfig(t, "https://blog.example.com", "no-colon-here", "")

		deps, err := NewDependencies(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)

		assert.False(t, deps.AdminReady)
		assert.NotContains(t, deps.GhostProblem, "no-colon-here")

		_, err = deps.Posts.Featured(ctx)
		assert.True(t, services.IsConfigurationError(err))
		assert.ErrorIs(t, err, auth.ErrInvalidKeyFormat)
	})
}

func TestNewDependencies_AdminClientSignsRequests(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posts":[]}`))
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL, "64fa:48656c6c6f", "")
	deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	posts, err := deps.Posts.Upcoming(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, posts)

	require.True(t, strings.HasPrefix(authHeader, "Ghost "))
	claims, err := auth.Verify(strings.TrimPrefix(authHeader, "Ghost "), "48656c6c6f")
	require.NoError(t, err)
	assert.Equal(t, "/admin/", claims["aud"])

	stats := deps.Metrics.Snapshot()
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].Calls)
}
