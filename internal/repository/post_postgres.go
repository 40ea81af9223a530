package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/campaignbridge/campaignbridge/internal/domain"
)

type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) domain.PostRepository {
	return &postRepository{
		db: db,
	}
}

func (r *postRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	images, err := json.Marshal(post.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal post images: %w", err)
	}

	query := `
		INSERT INTO posts (
			title,
			permalink,
			content,
			excerpt,
			post_type,
			status,
			images,
			published_at,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query,
		post.Title,
		post.Permalink,
		post.Content,
		post.Excerpt,
		post.PostType,
		post.Status,
		images,
		post.PublishedAt,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID)

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetPostByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `
		SELECT id, title, permalink, content, excerpt, post_type, status, images, published_at, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrPostNotFound{Message: "post not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

func (r *postRepository) ListPosts(ctx context.Context, filter domain.ListPostsFilter) ([]*domain.Post, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	selectBuilder := psql.Select(
		"id",
		"title",
		"permalink",
		"content",
		"excerpt",
		"post_type",
		"status",
		"images",
		"published_at",
		"created_at",
		"updated_at",
	).From("posts").
		OrderBy("published_at DESC NULLS LAST", "id DESC")

	if filter.PostType != "" {
		selectBuilder = selectBuilder.Where(sq.Eq{"post_type": filter.PostType})
	}
	if filter.Status != "" {
		selectBuilder = selectBuilder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func (r *postRepository) UpdatePost(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()

	images, err := json.Marshal(post.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal post images: %w", err)
	}

	query := `
		UPDATE posts
		SET title = $1, permalink = $2, content = $3, excerpt = $4, post_type = $5, status = $6, images = $7, published_at = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		post.Title,
		post.Permalink,
		post.Content,
		post.Excerpt,
		post.PostType,
		post.Status,
		images,
		post.PublishedAt,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrPostNotFound{Message: "post not found"}
	}

	return nil
}

func (r *postRepository) DeletePost(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrPostNotFound{Message: "post not found"}
	}

	return nil
}

func (r *postRepository) GetArchiveURL(ctx context.Context, postType string) (string, error) {
	var archiveURL string
	err := r.db.QueryRowContext(ctx,
		`SELECT archive_url FROM post_types WHERE name = $1`,
		postType,
	).Scan(&archiveURL)

	if err == sql.ErrNoRows {
		// Unregistered post types simply have no archive
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get archive url: %w", err)
	}

	return archiveURL, nil
}

func scanPost(s scanner) (*domain.Post, error) {
	var post domain.Post
	var images []byte

	err := s.Scan(
		&post.ID,
		&post.Title,
		&post.Permalink,
		&post.Content,
		&post.Excerpt,
		&post.PostType,
		&post.Status,
		&images,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(images) > 0 {
		if err := json.Unmarshal(images, &post.Images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal post images: %w", err)
		}
	}

	return &post, nil
}
