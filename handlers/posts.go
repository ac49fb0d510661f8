package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lfapurpose/ghost-gateway/app"
	"github.com/lfapurpose/ghost-gateway/internal/observability"
	"github.com/lfapurpose/ghost-gateway/models"
	"github.com/lfapurpose/ghost-gateway/services/posts"
	"github.com/lfapurpose/ghost-gateway/utils"
	"go.uber.org/zap"
)

// PostService is the post API the handlers depend on
type PostService interface {
	Upcoming(ctx context.Context, limit int) ([]models.PostSummary, error)
	Featured(ctx context.Context) ([]models.PostSummary, error)
	PublicFeatured(ctx context.Context, limit int) ([]models.PostSummary, error)
	Feature(ctx context.Context, id string) (*models.PostSummary, error)
	FeatureUpcoming(ctx context.Context, limit int) (*posts.FeatureResult, error)
}

// listQuery holds the optional query parameters of list endpoints
type listQuery struct {
	Limit *int `validate:"omitempty,min=1,max=100"`
}

// postPath holds the path parameters of single post endpoints
type postPath struct {
	ID string `validate:"required,ghostid"`
}

// FeatureUpcomingResponse reports the posts a bulk feature run changed
type FeatureUpcomingResponse struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Posts   []models.PostSummary `json:"posts"`
	Skipped []string             `json:"skipped"`
}

// PostHandler handles the post endpoints
type PostHandler struct {
	service PostService
	logger  *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		logger:  logger,
	}
}

// NewPostHandlerFromDeps builds a PostHandler from the application dependencies
func NewPostHandlerFromDeps(deps *app.Dependencies) *PostHandler {
	return NewPostHandler(deps.Posts, deps.Logger)
}

// HandleUpcoming handles GET /api/v1/posts/upcoming
func (h *PostHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	result, err := h.service.Upcoming(r.Context(), limit)
	if err != nil {
		HandleServiceError(w, err, observability.ForRequest(r.Context(), h.logger))
		return
	}

	_ = utils.WritePosts(w, result)
}

// HandleFeatured handles GET /api/v1/posts/featured
func (h *PostHandler) HandleFeatured(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Featured(r.Context())
	if err != nil {
		HandleServiceError(w, err, observability.ForRequest(r.Context(), h.logger))
		return
	}

	_ = utils.WritePosts(w, result)
}

// HandlePublicFeatured handles GET /api/v1/posts/public/featured
func (h *PostHandler) HandlePublicFeatured(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	result, err := h.service.PublicFeatured(r.Context(), limit)
	if err != nil {
		HandleServiceError(w, err, observability.ForRequest(r.Context(), h.logger))
		return
	}

	_ = utils.WritePosts(w, result)
}

// HandleFeature handles PUT /api/v1/posts/{id}/featured
func (h *PostHandler) HandleFeature(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(r.Context(), h.logger)

	path := postPath{ID: chi.URLParam(r, "id")}
	if err := utils.ValidateStruct(&path); err != nil {
		HandleValidationError(w, err, logger)
		return
	}

	post, err := h.service.Feature(r.Context(), path.ID)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	_ = utils.WritePost(w, post)
}

// HandleFeatureUpcoming handles POST /api/v1/posts/upcoming/featured
func (h *PostHandler) HandleFeatureUpcoming(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(r.Context(), h.logger)

	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	result, err := h.service.FeatureUpcoming(r.Context(), limit)
	if err != nil {
		if result == nil {
			HandleServiceError(w, err, logger)
			return
		}

		ids := make([]string, 0, len(result.Featured))
		for _, p := range result.Featured {
			ids = append(ids, p.ID)
		}
		skipped := result.Skipped
		if skipped == nil {
			skipped = []string{}
		}
		if len(ids) > 0 {
			logger.Warn("feature run partially applied", zap.Strings("featured", ids))
		}
		HandleServiceErrorWithDetails(w, err, logger, map[string]interface{}{
			"featured": ids,
			"skipped":  skipped,
		})
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, FeatureUpcomingResponse{
		Success: true,
		Count:   len(result.Featured),
		Posts:   result.Featured,
		Skipped: result.Skipped,
	})
}

// parseLimit reads the optional limit query parameter. Zero means "use the
// service default". On failure the 400 response has already been written.
func (h *PostHandler) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Validation failed", map[string]interface{}{
			"Limit": "Limit must be an integer",
		})
		return 0, false
	}

	query := listQuery{Limit: &n}
	if err := utils.ValidateStruct(&query); err != nil {
		HandleValidationError(w, err, h.logger)
		return 0, false
	}
	return n, true
}
