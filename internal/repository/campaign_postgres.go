package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/campaignbridge/campaignbridge/internal/domain"
)

type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new PostgreSQL campaign repository
func NewCampaignRepository(db *sql.DB) domain.CampaignRepository {
	return &campaignRepository{
		db: db,
	}
}

func (r *campaignRepository) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	query := `
		INSERT INTO campaigns (
			id,
			name,
			template_id,
			template_version,
			subject,
			slot_assignments,
			status,
			sent_at,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		campaign.ID,
		campaign.Name,
		campaign.TemplateID,
		campaign.TemplateVersion,
		campaign.Subject,
		campaign.SlotAssignments,
		campaign.Status,
		campaign.SentAt,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *campaignRepository) GetCampaignByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query := `
		SELECT id, name, template_id, template_version, subject, slot_assignments, status, sent_at, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	campaign, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrCampaignNotFound{Message: "campaign not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

func (r *campaignRepository) ListCampaigns(ctx context.Context) ([]*domain.Campaign, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query, args, err := psql.Select(
		"id",
		"name",
		"template_id",
		"template_version",
		"subject",
		"slot_assignments",
		"status",
		"sent_at",
		"created_at",
		"updated_at",
	).From("campaigns").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign rows: %w", err)
	}

	return campaigns, nil
}

func (r *campaignRepository) UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	campaign.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE campaigns
		SET name = $1, subject = $2, slot_assignments = $3, status = $4, sent_at = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		campaign.Name,
		campaign.Subject,
		campaign.SlotAssignments,
		campaign.Status,
		campaign.SentAt,
		campaign.UpdatedAt,
		campaign.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrCampaignNotFound{Message: "campaign not found"}
	}

	return nil
}

func (r *campaignRepository) DeleteCampaign(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrCampaignNotFound{Message: "campaign not found"}
	}

	return nil
}

func scanCampaign(s scanner) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := s.Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.TemplateID,
		&campaign.TemplateVersion,
		&campaign.Subject,
		&campaign.SlotAssignments,
		&campaign.Status,
		&campaign.SentAt,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}
