package domain

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_post_repository.go -package mocks github.com/campaignbridge/campaignbridge/internal/domain PostRepository

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) Validate() error {
	switch s {
	case PostStatusDraft, PostStatusPublished:
		return nil
	}
	return fmt.Errorf("invalid post status: %s", s)
}

// Post is a syndicated content item that can be placed into template
// slots. Images maps a named size ("thumbnail", "medium", "large") to
// the featured image URL at that size.
type Post struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Permalink   string            `json:"permalink"`
	Content     string            `json:"content,omitempty"`
	Excerpt     string            `json:"excerpt,omitempty"`
	PostType    string            `json:"post_type"`
	Status      PostStatus        `json:"status"`
	Images      map[string]string `json:"images,omitempty"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (p *Post) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("invalid post: title is required")
	}
	if p.PostType == "" {
		return fmt.Errorf("invalid post: post_type is required")
	}
	if p.Status == "" {
		p.Status = PostStatusDraft
	}
	if err := p.Status.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}
	return nil
}

// ListPostsFilter narrows ListPosts results. Zero values mean no
// filtering on that dimension.
type ListPostsFilter struct {
	PostType string
	Status   PostStatus
	Limit    int
}

// PostRepository provides database operations for posts
type PostRepository interface {
	// CreatePost inserts a new post and assigns its ID
	CreatePost(ctx context.Context, post *Post) error

	// GetPostByID retrieves a post by its ID
	GetPostByID(ctx context.Context, id int64) (*Post, error)

	// ListPosts retrieves posts matching the filter, newest first
	ListPosts(ctx context.Context, filter ListPostsFilter) ([]*Post, error)

	// UpdatePost updates an existing post
	UpdatePost(ctx context.Context, post *Post) error

	// DeletePost deletes a post by ID
	DeletePost(ctx context.Context, id int64) error

	// GetArchiveURL returns the archive URL registered for a post type,
	// or "" when none is registered
	GetArchiveURL(ctx context.Context, postType string) (string, error)
}
