package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/pkg/logger"
)

// sendConcurrency caps parallel provider calls during a batch send.
const sendConcurrency = 4

type CampaignService struct {
	repo        domain.CampaignRepository
	templateSvc domain.TemplateService
	sender      domain.EmailSender
	logger      logger.Logger
	fromEmail   string
	fromName    string
}

func NewCampaignService(repo domain.CampaignRepository, templateSvc domain.TemplateService, sender domain.EmailSender, logger logger.Logger, fromEmail, fromName string) *CampaignService {
	return &CampaignService{
		repo:        repo,
		templateSvc: templateSvc,
		sender:      sender,
		logger:      logger,
		fromEmail:   fromEmail,
		fromName:    fromName,
	}
}

func (s *CampaignService) CreateCampaign(ctx context.Context, payload domain.CreateCampaignRequest) (*domain.Campaign, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	// Pin the campaign to a concrete template version so later template
	// edits do not change what an existing campaign renders.
	template, err := s.templateSvc.GetTemplateByID(ctx, payload.TemplateID, payload.TemplateVersion)
	if err != nil {
		return nil, err
	}

	campaign := &domain.Campaign{
		ID:              uuid.NewString(),
		Name:            payload.Name,
		TemplateID:      template.ID,
		TemplateVersion: template.Version,
		Subject:         payload.Subject,
		SlotAssignments: payload.SlotAssignments,
		Status:          domain.CampaignStatusDraft,
	}
	if err := campaign.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		s.logger.WithField("campaign_id", campaign.ID).Error(fmt.Sprintf("Failed to create campaign: %v", err))
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return campaign, nil
}

func (s *CampaignService) GetCampaignByID(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.repo.GetCampaignByID(ctx, id)
	if err != nil {
		if _, ok := err.(*domain.ErrCampaignNotFound); ok {
			return nil, err
		}
		s.logger.WithField("campaign_id", id).Error(fmt.Sprintf("Failed to get campaign: %v", err))
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context) ([]*domain.Campaign, error) {
	campaigns, err := s.repo.ListCampaigns(ctx)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to list campaigns: %v", err))
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, payload domain.UpdateCampaignRequest) (*domain.Campaign, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	campaign, err := s.GetCampaignByID(ctx, payload.ID)
	if err != nil {
		return nil, err
	}
	if campaign.Status == domain.CampaignStatusSent {
		return nil, domain.NewValidationError("sent campaigns cannot be updated")
	}

	campaign.Name = payload.Name
	campaign.Subject = payload.Subject
	campaign.SlotAssignments = payload.SlotAssignments

	if err := s.repo.UpdateCampaign(ctx, campaign); err != nil {
		s.logger.WithField("campaign_id", campaign.ID).Error(fmt.Sprintf("Failed to update campaign: %v", err))
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	return campaign, nil
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, id string) error {
	if err := s.repo.DeleteCampaign(ctx, id); err != nil {
		if _, ok := err.(*domain.ErrCampaignNotFound); ok {
			return err
		}
		s.logger.WithField("campaign_id", id).Error(fmt.Sprintf("Failed to delete campaign: %v", err))
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

func (s *CampaignService) CompileCampaign(ctx context.Context, id string, recipientData domain.MapOfAny) (*domain.CompileTemplateResponse, error) {
	campaign, err := s.GetCampaignByID(ctx, id)
	if err != nil {
		return nil, err
	}

	compiled, err := s.templateSvc.CompileTemplate(ctx, domain.CompileTemplateRequest{
		TemplateID:      campaign.TemplateID,
		Version:         campaign.TemplateVersion,
		SlotAssignments: campaign.SlotAssignments,
		RecipientData:   recipientData,
	})
	if err != nil {
		return nil, err
	}

	// A campaign-level subject overrides the template default.
	if campaign.Subject != "" {
		compiled.Subject = campaign.Subject
	}

	return compiled, nil
}

func (s *CampaignService) SendCampaign(ctx context.Context, payload domain.SendCampaignRequest) (*domain.SendCampaignResponse, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if s.sender == nil {
		return nil, domain.NewValidationError("no email provider configured")
	}

	campaign, err := s.GetCampaignByID(ctx, payload.CampaignID)
	if err != nil {
		return nil, err
	}

	compiled, err := s.CompileCampaign(ctx, campaign.ID, nil)
	if err != nil {
		return nil, err
	}

	fromEmail := payload.FromEmail
	if fromEmail == "" {
		fromEmail = s.fromEmail
	}
	fromName := payload.FromName
	if fromName == "" {
		fromName = s.fromName
	}
	if fromEmail == "" {
		return nil, domain.NewValidationError("from_email is required: no default sender configured")
	}

	// One recipient failing must not abort the batch; failures are
	// collected and reported instead.
	var mu sync.Mutex
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sendConcurrency)

	for _, recipient := range payload.Recipients {
		recipient := recipient
		g.Go(func() error {
			err := s.sender.SendEmail(gctx, domain.EmailMessage{
				To:        recipient,
				FromEmail: fromEmail,
				FromName:  fromName,
				Subject:   compiled.Subject,
				HTML:      compiled.HTML,
				Text:      compiled.Text,
			})
			if err != nil {
				s.logger.WithFields(map[string]interface{}{
					"campaign_id": campaign.ID,
					"recipient":   recipient,
				}).Error(fmt.Sprintf("Failed to send campaign email: %v", err))
				mu.Lock()
				failed = append(failed, recipient)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to send campaign: %w", err)
	}

	sent := len(payload.Recipients) - len(failed)
	if sent > 0 && campaign.Status != domain.CampaignStatusSent {
		now := time.Now().UTC()
		campaign.Status = domain.CampaignStatusSent
		campaign.SentAt = &now
		if err := s.repo.UpdateCampaign(ctx, campaign); err != nil {
			s.logger.WithField("campaign_id", campaign.ID).Error(fmt.Sprintf("Failed to mark campaign as sent: %v", err))
		}
	}

	return &domain.SendCampaignResponse{
		Sent:   sent,
		Failed: failed,
	}, nil
}
