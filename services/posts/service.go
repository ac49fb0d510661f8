package posts

import (
	"context"
	"strings"

	"github.com/lfapurpose/ghost-gateway/models"
	"github.com/lfapurpose/ghost-gateway/services"
	"github.com/lfapurpose/ghost-gateway/services/ghost"
	"go.uber.org/zap"
)

const (
	// DefaultUpcomingLimit is how many scheduled posts Upcoming returns by default
	DefaultUpcomingLimit = 5

	upcomingFilter = "status:scheduled"
	upcomingOrder  = "scheduled_at asc"
	featuredFilter = "featured:true+(status:published,status:scheduled)"
	publicFilter   = "featured:true"
	publicOrder    = "published_at desc"
)

// featuredFields limits the merged featured query to what the summary needs
var featuredFields = []string{
	"id", "title", "slug", "feature_image", "custom_excerpt", "excerpt", "status",
	"featured", "published_at", "scheduled_at", "visibility", "created_at",
}

// AdminAPI is the subset of the Ghost Admin API the service uses
type AdminAPI interface {
	BrowsePosts(ctx context.Context, params ghost.BrowseParams) ([]models.Post, error)
	SetFeatured(ctx context.Context, id string, featured bool) (*models.Post, error)
}

// ContentAPI is the subset of the Ghost Content API the service uses
type ContentAPI interface {
	BrowsePosts(ctx context.Context, params ghost.BrowseParams) ([]models.Post, error)
}

// Unavailable stands in for an API that is not configured. Every call
// returns Err, which should be a configuration error.
type Unavailable struct {
	Err error
}

// BrowsePosts implements AdminAPI and ContentAPI
func (u Unavailable) BrowsePosts(context.Context, ghost.BrowseParams) ([]models.Post, error) {
	return nil, u.Err
}

// SetFeatured implements AdminAPI
func (u Unavailable) SetFeatured(context.Context, string, bool) (*models.Post, error) {
	return nil, u.Err
}

// FeatureResult reports what a bulk feature run changed
type FeatureResult struct {
	Featured []models.PostSummary `json:"featured"`
	Skipped  []string             `json:"skipped"` // ids already featured
}

// Service implements the post queries and the featured flag mutation
type Service struct {
	admin         AdminAPI
	content       ContentAPI
	upcomingLimit int
	cache         *Cache
	logger        *zap.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithCache serves list queries from c and clears it whenever a post is featured
func WithCache(c *Cache) ServiceOption {
	return func(s *Service) {
		s.cache = c
	}
}

// NewService creates a new Service instance
func NewService(admin AdminAPI, content ContentAPI, upcomingLimit int, logger *zap.Logger, opts ...ServiceOption) *Service {
	if upcomingLimit <= 0 {
		upcomingLimit = DefaultUpcomingLimit
	}
	s := &Service{
		admin:         admin,
		content:       content,
		upcomingLimit: upcomingLimit,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upcoming returns the next scheduled posts, soonest first
func (s *Service) Upcoming(ctx context.Context, limit int) ([]models.PostSummary, error) {
	limit = s.limit(limit)
	return s.cached(CacheKey{Query: "upcoming", Limit: limit}, func() ([]models.Post, error) {
		return s.admin.BrowsePosts(ctx, ghost.BrowseParams{
			Filter: upcomingFilter,
			Limit:  ghost.LimitN(limit),
			Order:  upcomingOrder,
		})
	}, models.SummarizePosts)
}

// Featured returns every featured post that is published or scheduled,
// normalized and ordered by date reference ascending
func (s *Service) Featured(ctx context.Context) ([]models.PostSummary, error) {
	return s.cached(CacheKey{Query: "featured"}, func() ([]models.Post, error) {
		return s.admin.BrowsePosts(ctx, ghost.BrowseParams{
			Filter: featuredFilter,
			Limit:  ghost.LimitAll,
			Fields: featuredFields,
		})
	}, models.SummarizePosts)
}

// PublicFeatured returns featured published posts through the Content API,
// newest first as Ghost orders them
func (s *Service) PublicFeatured(ctx context.Context, limit int) ([]models.PostSummary, error) {
	limit = s.limit(limit)
	return s.cached(CacheKey{Query: "public_featured", Limit: limit}, func() ([]models.Post, error) {
		return s.content.BrowsePosts(ctx, ghost.BrowseParams{
			Filter: publicFilter,
			Limit:  ghost.LimitN(limit),
			Order:  publicOrder,
		})
	}, models.NormalizePosts)
}

// cached runs fetch on a cache miss and stores the normalized result.
// Errors are never cached, and neither is a result fetched across an
// invalidation.
func (s *Service) cached(key CacheKey, fetch func() ([]models.Post, error), summarize func([]models.Post) []models.PostSummary) ([]models.PostSummary, error) {
	var gen uint64
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			return hit, nil
		}
		gen = s.cache.Generation()
	}

	posts, err := fetch()
	if err != nil {
		return nil, err
	}

	summaries := summarize(posts)
	if s.cache != nil && !s.cache.SetIfCurrent(key, summaries, gen) {
		s.logger.Debug("post list changed during fetch, not cached", zap.String("key", key.String()))
	}
	return summaries, nil
}

// invalidate drops cached lists after a featured flag changed
func (s *Service) invalidate() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// Feature sets featured=true on one post
func (s *Service) Feature(ctx context.Context, id string) (*models.PostSummary, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.NewValidationError("post id is required")
	}

	post, err := s.admin.SetFeatured(ctx, id, true)
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.logger.Info("post featured", zap.String("post_id", post.ID), zap.String("slug", post.Slug))

	summary := models.NewPostSummary(*post)
	return &summary, nil
}

// FeatureUpcoming features every upcoming post that is not featured yet.
// Posts are updated one at a time; the first failure stops the run and the
// partial result is returned alongside the error.
func (s *Service) FeatureUpcoming(ctx context.Context, limit int) (*FeatureResult, error) {
	posts, err := s.admin.BrowsePosts(ctx, ghost.BrowseParams{
		Filter: upcomingFilter,
		Limit:  ghost.LimitN(s.limit(limit)),
		Order:  upcomingOrder,
	})
	if err != nil {
		return nil, err
	}

	result := &FeatureResult{
		Featured: []models.PostSummary{},
		Skipped:  []string{},
	}

	for _, p := range posts {
		if p.Featured {
			result.Skipped = append(result.Skipped, p.ID)
			continue
		}

		updated, err := s.admin.SetFeatured(ctx, p.ID, true)
		if err != nil {
			if len(result.Featured) > 0 {
				s.invalidate()
			}
			s.logger.Warn("feature run stopped",
				zap.String("post_id", p.ID),
				zap.Int("featured_so_far", len(result.Featured)),
				zap.Error(err))
			return result, err
		}
		result.Featured = append(result.Featured, models.NewPostSummary(*updated))
	}

	if len(result.Featured) > 0 {
		s.invalidate()
	}

	s.logger.Info("upcoming posts featured",
		zap.Int("featured", len(result.Featured)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

func (s *Service) limit(limit int) int {
	if limit <= 0 {
		return s.upcomingLimit
	}
	return limit
}
