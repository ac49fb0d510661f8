package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// PostStatus is the publication state Ghost reports for a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusSent      PostStatus = "sent"
)

// Post is a post as returned by the Ghost Admin and Content APIs.
// Only the fields this service reads are modelled.
type Post struct {
	ID            string     `json:"id"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Status        PostStatus `json:"status,omitempty"`
	Featured      bool       `json:"featured"`
	FeatureImage  *string    `json:"feature_image,omitempty"`
	CustomExcerpt *string    `json:"custom_excerpt,omitempty"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	Visibility    string     `json:"visibility,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// DateRef returns the date a post is ordered by: scheduled, then published, then created
func (p *Post) DateRef() *time.Time {
	switch {
	case p.ScheduledAt != nil:
		return p.ScheduledAt
	case p.PublishedAt != nil:
		return p.PublishedAt
	default:
		return p.CreatedAt
	}
}

// PostSummary is the normalized post shape returned to clients
type PostSummary struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	FeatureImage *string    `json:"feature_image"`
	Excerpt      string     `json:"excerpt"`
	Status       PostStatus `json:"status"`
	Featured     bool       `json:"featured"`
	PublishedAt  *time.Time `json:"published_at"`
	ScheduledAt  *time.Time `json:"scheduled_at"`
	Visibility   *string    `json:"visibility"`
	DateRef      *time.Time `json:"dateRef"`
}

// NewPostSummary normalizes a Ghost post. The custom excerpt wins over the
// generated one; an empty visibility becomes null.
func NewPostSummary(p Post) PostSummary {
	summary := PostSummary{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		FeatureImage: p.FeatureImage,
		Status:       p.Status,
		Featured:     p.Featured,
		PublishedAt:  p.PublishedAt,
		ScheduledAt:  p.ScheduledAt,
		DateRef:      p.DateRef(),
	}

	if p.CustomExcerpt != nil && *p.CustomExcerpt != "" {
		summary.Excerpt = *p.CustomExcerpt
	} else if p.Excerpt != nil {
		summary.Excerpt = *p.Excerpt
	}

	if p.Visibility != "" {
		visibility := p.Visibility
		summary.Visibility = &visibility
	}

	return summary
}

// NormalizePosts converts posts to summaries keeping Ghost's order
func NormalizePosts(posts []Post) []PostSummary {
	summaries := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, NewPostSummary(p))
	}
	return summaries
}

// SummarizePosts normalizes posts and sorts them by DateRef, oldest first.
// Posts without any date sort as the zero time; ties keep Ghost's order.
func SummarizePosts(posts []Post) []PostSummary {
	summaries := NormalizePosts(posts)

	sort.SliceStable(summaries, func(i, j int) bool {
		return dateRefUnix(summaries[i].DateRef) < dateRefUnix(summaries[j].DateRef)
	})

	return summaries
}

func dateRefUnix(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}
