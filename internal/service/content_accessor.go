package service

import (
	"context"
	"fmt"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/pkg/blocks"
	"github.com/campaignbridge/campaignbridge/pkg/logger"
)

// postContentAccessor adapts PostRepository to the blocks.ContentAccessor
// interface the renderer consumes. It carries the request context because
// the renderer callbacks take none, and memoizes lookups so a post placed
// in several slots is fetched once per render.
type postContentAccessor struct {
	ctx      context.Context
	repo     domain.PostRepository
	logger   logger.Logger
	posts    map[int64]*domain.Post
	archives map[string]string
}

func newPostContentAccessor(ctx context.Context, repo domain.PostRepository, log logger.Logger) *postContentAccessor {
	return &postContentAccessor{
		ctx:      ctx,
		repo:     repo,
		logger:   log,
		posts:    make(map[int64]*domain.Post),
		archives: make(map[string]string),
	}
}

func (a *postContentAccessor) get(id int64) *domain.Post {
	if post, ok := a.posts[id]; ok {
		return post
	}
	post, err := a.repo.GetPostByID(a.ctx, id)
	if err != nil {
		if _, ok := err.(*domain.ErrPostNotFound); !ok {
			a.logger.WithField("post_id", id).Error(fmt.Sprintf("Failed to load post for rendering: %v", err))
		}
		a.posts[id] = nil
		return nil
	}
	a.posts[id] = post
	return post
}

func (a *postContentAccessor) Post(id int64) (*blocks.PostContent, bool) {
	post := a.get(id)
	if post == nil {
		return nil, false
	}
	return &blocks.PostContent{
		ID:        post.ID,
		Title:     post.Title,
		Permalink: post.Permalink,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		PostType:  post.PostType,
	}, true
}

func (a *postContentAccessor) FeaturedImageURL(id int64, size string) string {
	post := a.get(id)
	if post == nil {
		return ""
	}
	return post.Images[size]
}

func (a *postContentAccessor) ArchiveURL(postType string) string {
	if url, ok := a.archives[postType]; ok {
		return url
	}
	url, err := a.repo.GetArchiveURL(a.ctx, postType)
	if err != nil {
		a.logger.WithField("post_type", postType).Error(fmt.Sprintf("Failed to load archive url: %v", err))
		url = ""
	}
	a.archives[postType] = url
	return url
}
