package app

import (
	"context"

	"github.com/lfapurpose/ghost-gateway/config"
	"github.com/lfapurpose/ghost-gateway/internal/auth"
	"github.com/lfapurpose/ghost-gateway/internal/observability"
	"github.com/lfapurpose/ghost-gateway/services"
	"github.com/lfapurpose/ghost-gateway/services/ghost"
	"github.com/lfapurpose/ghost-gateway/services/posts"
	"go.uber.org/zap"
)

// Version is reported by the status endpoint. Overridden at build time with
// -ldflags "-X github.com/lfapurpose/ghost-gateway/app.Version=...".
var Version = "0.1.0"

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.MemoryMetrics

	// Ghost
	Signer         *auth.Signer // nil when the admin key is missing or malformed
	AdminReady     bool
	ContentReady   bool
	GhostProblem   string // why the admin API is unavailable, safe to expose
	ContentProblem string

	// Services
	Posts     *posts.Service
	PostCache *posts.Cache // nil when caching is disabled

	stopCleanup chan struct{}
}

// NewDependencies creates and wires up all application dependencies.
// Ghost misconfiguration is not an error here: the affected APIs are replaced
// with stand-ins that fail every call with a configuration error.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewMemoryMetrics(),
	}

	clientCfg := ghost.Config{
		BaseURL:       cfg.Ghost.URL,
		AcceptVersion: cfg.Ghost.AcceptVersion,
		Timeout:       cfg.Ghost.Timeout,
		ContentKey:    cfg.Ghost.ContentKey,
	}
	clientOpts := []ghost.Option{
		ghost.WithLogger(logger),
		ghost.WithMetrics(deps.Metrics),
	}

	admin := deps.initAdmin(cfg, clientCfg, clientOpts)
	content := deps.initContent(cfg, clientCfg, clientOpts)

	var serviceOpts []posts.ServiceOption
	if cfg.Cache.Enabled() {
		deps.initCache(cfg)
		serviceOpts = append(serviceOpts, posts.WithCache(deps.PostCache))
	}

	deps.Posts = posts.NewService(admin, content, cfg.Ghost.UpcomingLimit, logger, serviceOpts...)

	logger.Info("all dependencies initialized successfully",
		zap.Bool("ghost_admin", deps.AdminReady),
		zap.Bool("ghost_content", deps.ContentReady))
	return deps, nil
}

// initAdmin builds the signer and Admin API client
func (d *Dependencies) initAdmin(cfg *config.Config, clientCfg ghost.Config, opts []ghost.Option) posts.AdminAPI {
	if !cfg.Ghost.AdminConfigured() {
		d.GhostProblem = "ghost admin API not configured: set GHOST_ADMIN_URL and GHOST_ADMIN_API_KEY"
		d.Logger.Warn("ghost admin API not configured, post endpoints disabled")
		return posts.Unavailable{Err: services.NewConfigurationError(d.GhostProblem, nil)}
	}

	key, err := auth.ParseAdminKey(cfg.Ghost.AdminKey)
	if err != nil {
		d.GhostProblem = "ghost admin API key must be <id>:<hex secret>"
		d.Logger.Warn("ghost admin API key rejected, post endpoints disabled",
			zap.String("key_id", cfg.Ghost.AdminKeyID()),
			zap.Error(err))
		return posts.Unavailable{Err: services.NewConfigurationError(d.GhostProblem, err)}
	}

	d.Signer = auth.NewSigner(key,
		auth.WithAudience(cfg.Ghost.Audience),
		auth.WithTTL(cfg.Ghost.TokenTTL))
	d.AdminReady = true

	d.Logger.Info("ghost admin client initialized",
		zap.String("url", cfg.Ghost.URL),
		zap.String("key_id", key.ID),
		zap.Duration("token_ttl", cfg.Ghost.TokenTTL))

	return ghost.NewAdminClient(clientCfg, d.Signer, opts...)
}

// initContent builds the Content API client used by the public endpoint
func (d *Dependencies) initContent(cfg *config.Config, clientCfg ghost.Config, opts []ghost.Option) posts.ContentAPI {
	if !cfg.Ghost.ContentConfigured() {
		d.ContentProblem = "ghost content API not configured: set GHOST_URL and GHOST_CONTENT_API_KEY"
		d.Logger.Info("ghost content API not configured, public endpoint disabled")
		return posts.Unavailable{Err: services.NewConfigurationError(d.ContentProblem, nil)}
	}

	d.ContentReady = true
	return ghost.NewContentClient(clientCfg, opts...)
}

// initCache creates the post list cache and its cleanup worker
func (d *Dependencies) initCache(cfg *config.Config) {
	d.PostCache = posts.NewCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	d.stopCleanup = make(chan struct{})
	go d.PostCache.StartCleanupWorker(cfg.Cache.TTL, d.stopCleanup)

	d.Logger.Info("post cache initialized",
		zap.Duration("ttl", cfg.Cache.TTL),
		zap.Int("max_entries", cfg.Cache.MaxEntries))
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.stopCleanup != nil {
		close(d.stopCleanup)
		d.stopCleanup = nil
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
