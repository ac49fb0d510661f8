package ghost

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lfapurpose/ghost-gateway/models"
)

const (
	adminPostsPath   = "/ghost/api/admin/posts/"
	contentPostsPath = "/ghost/api/content/posts/"

	defaultAcceptVersion = "v5.0"
	defaultTimeout       = 15 * time.Second

	// LimitAll asks Ghost for every matching post
	LimitAll = "all"
)

// Config holds the connection settings shared by the Admin and Content clients
type Config struct {
	BaseURL       string // site root, e.g. https://blog.example.com
	AcceptVersion string
	Timeout       time.Duration
	ContentKey    string // Content API only
}

// BrowseParams are the query parameters Ghost accepts on browse endpoints
type BrowseParams struct {
	Filter string
	Limit  string // "all" or a positive integer; empty leaves Ghost's default
	Fields []string
	Order  string
}

// LimitN formats a numeric limit
func LimitN(n int) string {
	return strconv.Itoa(n)
}

// Values encodes the params as a query string
func (p BrowseParams) Values() url.Values {
	v := url.Values{}
	if p.Filter != "" {
		v.Set("filter", p.Filter)
	}
	if p.Limit != "" {
		v.Set("limit", p.Limit)
	}
	if len(p.Fields) > 0 {
		v.Set("fields", strings.Join(p.Fields, ","))
	}
	if p.Order != "" {
		v.Set("order", p.Order)
	}
	return v
}

// postsEnvelope is the body shape of every posts endpoint
type postsEnvelope struct {
	Posts []models.Post `json:"posts"`
}
