package domain

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/campaignbridge/campaignbridge/pkg/blocks"
)

//go:generate mockgen -destination mocks/mock_template_service.go -package mocks github.com/campaignbridge/campaignbridge/internal/domain TemplateService
//go:generate mockgen -destination mocks/mock_template_repository.go -package mocks github.com/campaignbridge/campaignbridge/internal/domain TemplateRepository

// Template is a reusable email layout expressed as serialized block
// markup. Content holds the raw block comment syntax; the slot keys it
// exposes are discovered by parsing, never stored.
type Template struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Version   int64      `json:"version"`
	Subject   string     `json:"subject"`
	Content   string     `json:"content"`
	Settings  MapOfAny   `json:"settings,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("invalid template: id is required")
	}
	if len(t.ID) > 32 {
		return fmt.Errorf("invalid template: id length must be between 1 and 32")
	}

	if t.Name == "" {
		return fmt.Errorf("invalid template: name is required")
	}
	if len(t.Name) > 64 {
		return fmt.Errorf("invalid template: name length must be between 1 and 64")
	}

	if t.Version <= 0 {
		return fmt.Errorf("invalid template: version must be positive")
	}

	if t.Subject == "" {
		return fmt.Errorf("invalid template: subject is required")
	}
	if len(t.Subject) > 255 {
		return fmt.Errorf("invalid template: subject length must be between 1 and 255")
	}

	if t.Content == "" {
		return fmt.Errorf("invalid template: content is required")
	}

	return nil
}

// Blocks parses the stored block markup. Parsing is lenient and cannot
// fail; malformed fragments degrade to freeform blocks.
func (t *Template) Blocks() []blocks.Block {
	return blocks.ParseBlocks(t.Content)
}

// Request/Response types
type CreateTemplateRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subject  string   `json:"subject"`
	Content  string   `json:"content"`
	Settings MapOfAny `json:"settings,omitempty"`
}

func (r *CreateTemplateRequest) Validate() (template *Template, err error) {
	template = &Template{
		ID:       r.ID,
		Name:     r.Name,
		Version:  1, // Start with version 1 for new templates
		Subject:  r.Subject,
		Content:  r.Content,
		Settings: r.Settings,
	}
	if err := template.Validate(); err != nil {
		return nil, fmt.Errorf("invalid create template request: %w", err)
	}
	return template, nil
}

type GetTemplatesRequest struct {
	// WithDeleted includes soft-deleted templates in the listing
	WithDeleted bool
}

func (r *GetTemplatesRequest) FromURLParams(queryParams url.Values) (err error) {
	if v := queryParams.Get("with_deleted"); v != "" {
		r.WithDeleted, err = strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid get templates request: with_deleted must be a boolean")
		}
	}
	return nil
}

type GetTemplateRequest struct {
	ID      string `json:"id"`
	Version int64  `json:"version,omitempty"`
}

func (r *GetTemplateRequest) FromURLParams(queryParams url.Values) (err error) {
	r.ID = queryParams.Get("id")
	versionStr := queryParams.Get("version")

	if r.ID == "" {
		return fmt.Errorf("invalid get template request: id is required")
	}
	if len(r.ID) > 32 {
		return fmt.Errorf("invalid get template request: id length must be between 1 and 32")
	}

	if versionStr != "" {
		version, err := strconv.ParseInt(versionStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid get template request: version must be a valid integer")
		}
		r.Version = version
	}

	return nil
}

type UpdateTemplateRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subject  string   `json:"subject"`
	Content  string   `json:"content"`
	Settings MapOfAny `json:"settings,omitempty"`
}

func (r *UpdateTemplateRequest) Validate() (template *Template, err error) {
	template = &Template{
		ID:       r.ID,
		Name:     r.Name,
		Version:  1, // Replaced with the next version on update
		Subject:  r.Subject,
		Content:  r.Content,
		Settings: r.Settings,
	}
	if err := template.Validate(); err != nil {
		return nil, fmt.Errorf("invalid update template request: %w", err)
	}
	return template, nil
}

type DeleteTemplateRequest struct {
	ID string `json:"id"`
}

func (r *DeleteTemplateRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("invalid delete template request: id is required")
	}
	return nil
}

// CompileTemplateRequest renders a template against a set of slot
// assignments without creating a campaign. Used for editor previews.
type CompileTemplateRequest struct {
	TemplateID      string          `json:"template_id"`
	Version         int64           `json:"version,omitempty"`
	SlotAssignments SlotAssignments `json:"slot_assignments,omitempty"`
	RecipientData   MapOfAny        `json:"recipient_data,omitempty"`
}

func (r *CompileTemplateRequest) Validate() error {
	if r.TemplateID == "" {
		return fmt.Errorf("invalid compile template request: template_id is required")
	}
	if r.Version < 0 {
		return fmt.Errorf("invalid compile template request: version must be zero or positive")
	}
	return nil
}

type CompileTemplateResponse struct {
	Subject string                  `json:"subject"`
	HTML    string                  `json:"html"`
	Text    string                  `json:"text"`
	Slots   []blocks.SlotDescriptor `json:"slots"`
}

// TemplateService manages template lifecycle and rendering
type TemplateService interface {
	// CreateTemplate creates a new template
	CreateTemplate(ctx context.Context, template *Template) error

	// GetTemplateByID retrieves a template by ID and optional version
	GetTemplateByID(ctx context.Context, id string, version int64) (*Template, error)

	// GetTemplates retrieves the latest version of every template
	GetTemplates(ctx context.Context, withDeleted bool) ([]*Template, error)

	// UpdateTemplate updates an existing template, creating a new version
	UpdateTemplate(ctx context.Context, template *Template) error

	// DeleteTemplate soft-deletes a template by ID
	DeleteTemplate(ctx context.Context, id string) error

	// DiscoverSlots lists the slot placeholders a template exposes
	DiscoverSlots(ctx context.Context, id string, version int64) ([]blocks.SlotDescriptor, error)

	// CompileTemplate renders a template into a complete email document
	CompileTemplate(ctx context.Context, payload CompileTemplateRequest) (*CompileTemplateResponse, error)
}

// TemplateRepository provides database operations for templates
type TemplateRepository interface {
	// CreateTemplate creates a new template in the database
	CreateTemplate(ctx context.Context, template *Template) error

	// GetTemplateByID retrieves a template by its ID and optional version
	GetTemplateByID(ctx context.Context, id string, version int64) (*Template, error)

	// GetTemplateLatestVersion retrieves the latest version of a template
	GetTemplateLatestVersion(ctx context.Context, id string) (int64, error)

	// GetTemplates retrieves the latest version of every template
	GetTemplates(ctx context.Context, withDeleted bool) ([]*Template, error)

	// UpdateTemplate updates an existing template, creating a new version
	UpdateTemplate(ctx context.Context, template *Template) error

	// DeleteTemplate soft-deletes a template
	DeleteTemplate(ctx context.Context, id string) error
}
