package ghost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lfapurpose/ghost-gateway/internal/auth"
	"github.com/lfapurpose/ghost-gateway/internal/observability"
	"github.com/lfapurpose/ghost-gateway/internal/shared"
	"github.com/lfapurpose/ghost-gateway/models"
	"github.com/lfapurpose/ghost-gateway/services"
	"go.uber.org/zap"
)

// maxBodySize caps how much of a Ghost response is read
const maxBodySize = 10 << 20

// Option configures a client
type Option func(*client)

// WithLogger sets the logger used for call tracing
func WithLogger(logger *zap.Logger) Option {
	return func(c *client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the collector that receives one record per call
func WithMetrics(m observability.Metrics) Option {
	return func(c *client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTransport overrides the base round tripper (http.DefaultTransport)
func WithTransport(rt http.RoundTripper) Option {
	return func(c *client) {
		c.transport = rt
	}
}

// client holds what the Admin and Content clients share
type client struct {
	api           string
	baseURL       string
	acceptVersion string
	timeout       time.Duration
	transport     http.RoundTripper
	httpClient    *http.Client
	logger        *zap.Logger
	metrics       observability.Metrics
}

func newClient(api string, cfg Config, opts []Option) *client {
	c := &client{
		api:           api,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		acceptVersion: cfg.AcceptVersion,
		timeout:       cfg.Timeout,
		logger:        zap.NewNop(),
		metrics:       observability.NopMetrics{},
	}
	if c.acceptVersion == "" {
		c.acceptVersion = defaultAcceptVersion
	}
	if c.timeout == 0 {
		c.timeout = defaultTimeout
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AdminClient calls the Ghost Admin API. Every request carries a freshly
// minted "Authorization: Ghost <token>" header.
type AdminClient struct {
	*client
}

// NewAdminClient creates an Admin API client signing with signer
func NewAdminClient(cfg Config, signer *auth.Signer, opts ...Option) *AdminClient {
	c := newClient("admin", cfg, opts)
	base := c.transport
	c.httpClient = &http.Client{
		Timeout:   c.timeout,
		Transport: auth.NewTransport(signer, base),
	}
	return &AdminClient{client: c}
}

// BrowsePosts lists posts matching params
func (a *AdminClient) BrowsePosts(ctx context.Context, params BrowseParams) ([]models.Post, error) {
	body, err := a.do(ctx, "browse_posts", http.MethodGet, adminPostsPath, params.Values(), nil)
	if err != nil {
		return nil, err
	}
	return decodePosts(body)
}

// ReadPost fetches a single post by id
func (a *AdminClient) ReadPost(ctx context.Context, id string) (*models.Post, error) {
	body, err := a.do(ctx, "read_post", http.MethodGet, postPath(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return firstPost(body, id)
}

// EditPost sends fields as a post edit. Ghost requires updated_at to be
// present and current; stale values are rejected upstream.
func (a *AdminClient) EditPost(ctx context.Context, id string, fields map[string]interface{}) (*models.Post, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"posts": []map[string]interface{}{fields},
	})
	if err != nil {
		return nil, services.NewSerializationError("failed to encode post", err)
	}

	body, err := a.do(ctx, "edit_post", http.MethodPut, postPath(id), nil, payload)
	if err != nil {
		return nil, err
	}
	return firstPost(body, id)
}

// SetFeatured reads a post and writes it back with featured set. The whole
// post is echoed so updated_at and every other field stay as Ghost sent them.
func (a *AdminClient) SetFeatured(ctx context.Context, id string, featured bool) (*models.Post, error) {
	body, err := a.do(ctx, "read_post", http.MethodGet, postPath(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Posts []map[string]interface{} `json:"posts"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		return nil, services.NewSerializationError("failed to decode ghost response", err)
	}
	if len(envelope.Posts) == 0 {
		return nil, services.NewNotFoundError(fmt.Sprintf("post %s not found", id))
	}

	post := envelope.Posts[0]
	post["featured"] = featured

	return a.EditPost(ctx, id, post)
}

// ContentClient calls the public Ghost Content API with a content key
type ContentClient struct {
	*client
	key string
}

// NewContentClient creates a Content API client
func NewContentClient(cfg Config, opts ...Option) *ContentClient {
	c := newClient("content", cfg, opts)
	c.httpClient = &http.Client{
		Timeout:   c.timeout,
		Transport: c.transport,
	}
	return &ContentClient{client: c, key: cfg.ContentKey}
}

// BrowsePosts lists published posts matching params
func (c *ContentClient) BrowsePosts(ctx context.Context, params BrowseParams) ([]models.Post, error) {
	query := params.Values()
	query.Set("key", c.key)

	body, err := c.do(ctx, "browse_posts", http.MethodGet, contentPostsPath, query, nil)
	if err != nil {
		return nil, err
	}
	return decodePosts(body)
}

// do performs one call and returns the body of a 2xx response.
// Non-2xx responses become upstream errors carrying status and body.
func (c *client) do(ctx context.Context, op, method, path string, query url.Values, payload []byte) ([]byte, error) {
	startTime := time.Now()
	logger := observability.ForRequest(ctx, c.logger).With(
		zap.String("api", c.api),
		zap.String("operation", op),
	)

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, services.WrapInternal("failed to create ghost request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", c.acceptVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := shared.RequestID(ctx); id != "" {
		req.Header.Set(shared.RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordCall(observability.CallLabels{API: c.api, Operation: op}, time.Since(startTime))
		logger.Warn("ghost request failed", zap.Error(err))
		if errors.Is(err, auth.ErrInvalidKeyFormat) {
			return nil, services.NewConfigurationError("ghost admin key is invalid", err)
		}
		if errors.Is(err, auth.ErrSerialization) {
			return nil, services.NewSerializationError("failed to sign ghost request", err)
		}
		return nil, services.WrapError(services.ErrorTypeUpstream, "ghost request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.metrics.RecordCall(observability.CallLabels{API: c.api, Operation: op, Status: resp.StatusCode}, time.Since(startTime))
	if err != nil {
		return nil, services.WrapError(services.ErrorTypeUpstream, "failed to read ghost response", err)
	}

	logger.Debug("ghost call completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(startTime)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, services.NewUpstreamError(resp.StatusCode, string(body))
	}

	return body, nil
}

func postPath(id string) string {
	return adminPostsPath + url.PathEscape(id) + "/"
}

func decodePosts(body []byte) ([]models.Post, error) {
	var envelope postsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, services.NewSerializationError("failed to decode ghost response", err)
	}
	if envelope.Posts == nil {
		envelope.Posts = []models.Post{}
	}
	return envelope.Posts, nil
}

func firstPost(body []byte, id string) (*models.Post, error) {
	posts, err := decodePosts(body)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, services.NewNotFoundError(fmt.Sprintf("post %s not found", id))
	}
	return &posts[0], nil
}
