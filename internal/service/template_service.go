package service

import (
	"context"
	"fmt"

	"github.com/osteele/liquid"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/pkg/blocks"
	"github.com/campaignbridge/campaignbridge/pkg/logger"
)

type TemplateService struct {
	repo      domain.TemplateRepository
	postRepo  domain.PostRepository
	logger    logger.Logger
	structure blocks.StructureOptions
	debug     bool
	liquid    *liquid.Engine
}

func NewTemplateService(repo domain.TemplateRepository, postRepo domain.PostRepository, logger logger.Logger, structure blocks.StructureOptions, debug bool) *TemplateService {
	return &TemplateService{
		repo:      repo,
		postRepo:  postRepo,
		logger:    logger,
		structure: structure,
		debug:     debug,
		liquid:    liquid.NewEngine(),
	}
}

func (s *TemplateService) CreateTemplate(ctx context.Context, template *domain.Template) error {
	template.Version = 1
	if err := template.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		s.logger.WithField("template_id", template.ID).Error(fmt.Sprintf("Failed to create template: %v", err))
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

func (s *TemplateService) GetTemplateByID(ctx context.Context, id string, version int64) (*domain.Template, error) {
	template, err := s.repo.GetTemplateByID(ctx, id, version)
	if err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			return nil, err
		}
		s.logger.WithField("template_id", id).Error(fmt.Sprintf("Failed to get template: %v", err))
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return template, nil
}

func (s *TemplateService) GetTemplates(ctx context.Context, withDeleted bool) ([]*domain.Template, error) {
	templates, err := s.repo.GetTemplates(ctx, withDeleted)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to get templates: %v", err))
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}

	return templates, nil
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, template *domain.Template) error {
	if err := template.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	if err := s.repo.UpdateTemplate(ctx, template); err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			return err
		}
		s.logger.WithField("template_id", template.ID).Error(fmt.Sprintf("Failed to update template: %v", err))
		return fmt.Errorf("failed to update template: %w", err)
	}

	return nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			return err
		}
		s.logger.WithField("template_id", id).Error(fmt.Sprintf("Failed to delete template: %v", err))
		return fmt.Errorf("failed to delete template: %w", err)
	}

	return nil
}

func (s *TemplateService) DiscoverSlots(ctx context.Context, id string, version int64) ([]blocks.SlotDescriptor, error) {
	template, err := s.GetTemplateByID(ctx, id, version)
	if err != nil {
		return nil, err
	}
	return blocks.DiscoverSlots(template.Blocks()), nil
}

// DiscoverSlotsFromContent lists the slots exposed by raw block markup
// that has not been stored yet. Used by editors before the first save.
func (s *TemplateService) DiscoverSlotsFromContent(raw string) []blocks.SlotDescriptor {
	return blocks.DiscoverSlots(blocks.ParseBlocks(raw))
}

// RenderTemplateHTML renders a stored template against slot assignments
// into a complete email document. Template lookup can fail; rendering
// itself cannot.
func (s *TemplateService) RenderTemplateHTML(ctx context.Context, templateID string, slotMap map[string]int64) (string, error) {
	resp, err := s.CompileTemplate(ctx, domain.CompileTemplateRequest{
		TemplateID:      templateID,
		SlotAssignments: slotMap,
	})
	if err != nil {
		return "", err
	}
	return resp.HTML, nil
}

func (s *TemplateService) CompileTemplate(ctx context.Context, payload domain.CompileTemplateRequest) (*domain.CompileTemplateResponse, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	template, err := s.GetTemplateByID(ctx, payload.TemplateID, payload.Version)
	if err != nil {
		return nil, err
	}

	parsed := template.Blocks()

	content := newPostContentAccessor(ctx, s.postRepo, s.logger)
	structure := s.structureFor(template)
	if bg := blocks.ExtractTemplateBackground(parsed); bg != "" {
		structure.BackgroundColor = bg
	}

	body := blocks.RenderTemplateBlocks(parsed, payload.SlotAssignments, blocks.Options{
		Debug:     s.debug,
		Logger:    s.logger,
		Content:   content,
		Structure: structure,
	})

	html := blocks.BuildHeader(structure) + body + blocks.BuildFooter(structure)
	html = blocks.InlineCSS(html)
	html = blocks.MakeResponsive(html, structure)

	subject := template.Subject
	if len(payload.RecipientData) > 0 {
		html = s.personalize(html, payload.RecipientData)
		subject = s.personalize(subject, payload.RecipientData)
	}

	return &domain.CompileTemplateResponse{
		Subject: subject,
		HTML:    html,
		Text:    blocks.ExtractPlainText(html),
		Slots:   blocks.DiscoverSlots(parsed),
	}, nil
}

// structureFor merges per-template settings over the service defaults.
func (s *TemplateService) structureFor(template *domain.Template) blocks.StructureOptions {
	structure := s.structure
	structure.Title = template.Name

	if template.Settings == nil {
		return structure
	}
	if v, ok := template.Settings["email_width"].(float64); ok && v > 0 {
		structure.EmailWidth = int(v)
	}
	if v, ok := template.Settings["max_width"].(float64); ok && v > 0 {
		structure.MaxWidth = int(v)
	}
	if v, ok := template.Settings["background_color"].(string); ok && v != "" {
		structure.BackgroundColor = v
	}
	if v, ok := template.Settings["text_color"].(string); ok && v != "" {
		structure.TextColor = v
	}
	if v, ok := template.Settings["font_family"].(string); ok && v != "" {
		structure.FontFamily = v
	}
	return structure
}

// personalize renders liquid tags against recipient data. Rendering is
// best effort: a template that fails to parse is delivered as-is.
func (s *TemplateService) personalize(text string, data domain.MapOfAny) string {
	rendered, err := s.liquid.ParseAndRenderString(text, liquid.Bindings(data))
	if err != nil {
		s.logger.Warn(fmt.Sprintf("Failed to render liquid template: %v", err))
		return text
	}
	return rendered
}
