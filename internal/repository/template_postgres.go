package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/campaignbridge/campaignbridge/internal/domain"
)

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new PostgreSQL template repository
func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{
		db: db,
	}
}

func (r *templateRepository) CreateTemplate(ctx context.Context, template *domain.Template) error {
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	// Ensure version is at least 1 for creation
	if template.Version == 0 {
		template.Version = 1
	}

	query := `
		INSERT INTO templates (
			id,
			name,
			version,
			subject,
			content,
			settings,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		template.ID,
		template.Name,
		template.Version,
		template.Subject,
		template.Content,
		template.Settings,
		template.CreatedAt,
		template.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *templateRepository) GetTemplateByID(ctx context.Context, id string, version int64) (*domain.Template, error) {
	var query string
	var args []interface{}

	if version > 0 {
		// Get specific version
		query = `
			SELECT id, name, version, subject, content, settings, created_at, updated_at, deleted_at
			FROM templates
			WHERE id = $1 AND version = $2
		`
		args = []interface{}{id, version}
	} else {
		// Get latest version
		query = `
			SELECT id, name, version, subject, content, settings, created_at, updated_at, deleted_at
			FROM templates
			WHERE id = $1 AND deleted_at IS NULL
			ORDER BY version DESC
			LIMIT 1
		`
		args = []interface{}{id}
	}

	row := r.db.QueryRowContext(ctx, query, args...)

	template, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrTemplateNotFound{Message: "template not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return template, nil
}

func (r *templateRepository) GetTemplateLatestVersion(ctx context.Context, id string) (int64, error) {
	var version int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM templates WHERE id = $1`,
		id,
	).Scan(&version)

	if err != nil {
		return 0, fmt.Errorf("failed to get template latest version: %w", err)
	}
	if version == 0 {
		return 0, &domain.ErrTemplateNotFound{Message: "template not found"}
	}

	return version, nil
}

func (r *templateRepository) GetTemplates(ctx context.Context, withDeleted bool) ([]*domain.Template, error) {
	// Get only the latest version of each template
	latestVersionsCTE := `
		WITH latest_versions AS (
			SELECT id, MAX(version) as max_version
			FROM templates
			GROUP BY id
		)
	`

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	selectBuilder := psql.Select(
		"t.id",
		"t.name",
		"t.version",
		"t.subject",
		"t.content",
		"t.settings",
		"t.created_at",
		"t.updated_at",
		"t.deleted_at",
	).Prefix(latestVersionsCTE).
		From("templates t").
		Join("latest_versions lv ON t.id = lv.id AND t.version = lv.max_version").
		OrderBy("t.updated_at DESC")

	if !withDeleted {
		selectBuilder = selectBuilder.Where(sq.Eq{"t.deleted_at": nil})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	return templates, nil
}

func (r *templateRepository) UpdateTemplate(ctx context.Context, template *domain.Template) error {
	// Updates never mutate a stored version; they insert the next one
	latestVersion, err := r.GetTemplateLatestVersion(ctx, template.ID)
	if err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			return err
		}
		return fmt.Errorf("failed to get template latest version: %w", err)
	}

	template.Version = latestVersion + 1
	template.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO templates (
			id,
			name,
			version,
			subject,
			content,
			settings,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		template.ID,
		template.Name,
		template.Version,
		template.Subject,
		template.Content,
		template.Settings,
		template.UpdatedAt,
		template.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

func (r *templateRepository) DeleteTemplate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE templates SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrTemplateNotFound{Message: "template not found"}
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanTemplate
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(s scanner) (*domain.Template, error) {
	var template domain.Template
	err := s.Scan(
		&template.ID,
		&template.Name,
		&template.Version,
		&template.Subject,
		&template.Content,
		&template.Settings,
		&template.CreatedAt,
		&template.UpdatedAt,
		&template.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &template, nil
}
