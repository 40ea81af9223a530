package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_campaign_service.go -package mocks github.com/campaignbridge/campaignbridge/internal/domain CampaignService
//go:generate mockgen -destination mocks/mock_campaign_repository.go -package mocks github.com/campaignbridge/campaignbridge/internal/domain CampaignRepository

type CampaignStatus string

const (
	CampaignStatusDraft CampaignStatus = "draft"
	CampaignStatusSent  CampaignStatus = "sent"
)

func (s CampaignStatus) Validate() error {
	switch s {
	case CampaignStatusDraft, CampaignStatusSent:
		return nil
	}
	return fmt.Errorf("invalid campaign status: %s", s)
}

// Campaign binds a template version to concrete slot assignments. The
// assignments map slot keys discovered from the template content to
// post IDs; slots left unassigned render empty.
type Campaign struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	TemplateID      string          `json:"template_id"`
	TemplateVersion int64           `json:"template_version"`
	Subject         string          `json:"subject,omitempty"`
	SlotAssignments SlotAssignments `json:"slot_assignments,omitempty"`
	Status          CampaignStatus  `json:"status"`
	SentAt          *time.Time      `json:"sent_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (c *Campaign) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("invalid campaign: id is required")
	}
	if !govalidator.IsUUID(c.ID) {
		return fmt.Errorf("invalid campaign: id must be a UUID")
	}
	if c.Name == "" {
		return fmt.Errorf("invalid campaign: name is required")
	}
	if len(c.Name) > 64 {
		return fmt.Errorf("invalid campaign: name length must be between 1 and 64")
	}
	if c.TemplateID == "" {
		return fmt.Errorf("invalid campaign: template_id is required")
	}
	if c.TemplateVersion < 0 {
		return fmt.Errorf("invalid campaign: template_version must be zero or positive")
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
	if err := c.Status.Validate(); err != nil {
		return fmt.Errorf("invalid campaign: %w", err)
	}
	return nil
}

// Request/Response types
type CreateCampaignRequest struct {
	Name            string          `json:"name"`
	TemplateID      string          `json:"template_id"`
	TemplateVersion int64           `json:"template_version,omitempty"`
	Subject         string          `json:"subject,omitempty"`
	SlotAssignments SlotAssignments `json:"slot_assignments,omitempty"`
}

func (r *CreateCampaignRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("invalid create campaign request: name is required")
	}
	if len(r.Name) > 64 {
		return fmt.Errorf("invalid create campaign request: name length must be between 1 and 64")
	}
	if r.TemplateID == "" {
		return fmt.Errorf("invalid create campaign request: template_id is required")
	}
	if r.TemplateVersion < 0 {
		return fmt.Errorf("invalid create campaign request: template_version must be zero or positive")
	}
	return nil
}

type UpdateCampaignRequest struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Subject         string          `json:"subject,omitempty"`
	SlotAssignments SlotAssignments `json:"slot_assignments,omitempty"`
}

func (r *UpdateCampaignRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("invalid update campaign request: id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("invalid update campaign request: name is required")
	}
	return nil
}

// SendCampaignRequest dispatches a compiled campaign to recipients
// through the configured provider.
type SendCampaignRequest struct {
	CampaignID string   `json:"campaign_id"`
	Recipients []string `json:"recipients"`
	FromEmail  string   `json:"from_email,omitempty"`
	FromName   string   `json:"from_name,omitempty"`
}

func (r *SendCampaignRequest) Validate() error {
	if r.CampaignID == "" {
		return fmt.Errorf("invalid send campaign request: campaign_id is required")
	}
	if len(r.Recipients) == 0 {
		return fmt.Errorf("invalid send campaign request: at least one recipient is required")
	}
	for _, email := range r.Recipients {
		if !govalidator.IsEmail(email) {
			return fmt.Errorf("invalid send campaign request: %q is not a valid email", email)
		}
	}
	if r.FromEmail != "" && !govalidator.IsEmail(r.FromEmail) {
		return fmt.Errorf("invalid send campaign request: from_email is not a valid email")
	}
	return nil
}

// SendCampaignResponse reports per-recipient dispatch outcomes.
type SendCampaignResponse struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed,omitempty"`
}

// CampaignService manages campaign lifecycle, compilation and dispatch
type CampaignService interface {
	// CreateCampaign creates a new campaign bound to a template version
	CreateCampaign(ctx context.Context, payload CreateCampaignRequest) (*Campaign, error)

	// GetCampaignByID retrieves a campaign by its ID
	GetCampaignByID(ctx context.Context, id string) (*Campaign, error)

	// ListCampaigns retrieves all campaigns, newest first
	ListCampaigns(ctx context.Context) ([]*Campaign, error)

	// UpdateCampaign updates a draft campaign
	UpdateCampaign(ctx context.Context, payload UpdateCampaignRequest) (*Campaign, error)

	// DeleteCampaign deletes a campaign by ID
	DeleteCampaign(ctx context.Context, id string) error

	// CompileCampaign renders the campaign into a complete email document
	CompileCampaign(ctx context.Context, id string, recipientData MapOfAny) (*CompileTemplateResponse, error)

	// SendCampaign compiles and dispatches the campaign to recipients
	SendCampaign(ctx context.Context, payload SendCampaignRequest) (*SendCampaignResponse, error)
}

// CampaignRepository provides database operations for campaigns
type CampaignRepository interface {
	// CreateCampaign creates a new campaign in the database
	CreateCampaign(ctx context.Context, campaign *Campaign) error

	// GetCampaignByID retrieves a campaign by its ID
	GetCampaignByID(ctx context.Context, id string) (*Campaign, error)

	// ListCampaigns retrieves all campaigns, newest first
	ListCampaigns(ctx context.Context) ([]*Campaign, error)

	// UpdateCampaign updates an existing campaign
	UpdateCampaign(ctx context.Context, campaign *Campaign) error

	// DeleteCampaign deletes a campaign by ID
	DeleteCampaign(ctx context.Context, id string) error
}
