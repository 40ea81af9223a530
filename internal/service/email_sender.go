package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/campaignbridge/campaignbridge/config"
	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/pkg/logger"
	"github.com/campaignbridge/campaignbridge/pkg/mailer"
)

// NewEmailSender builds the sender for the configured provider kind.
// Kind "none" yields a nil sender; dispatch is then rejected at the
// service layer while compile and export keep working.
func NewEmailSender(cfg config.ProviderConfig, log logger.Logger) (domain.EmailSender, error) {
	switch domain.EmailProviderKind(cfg.Kind) {
	case domain.EmailProviderKindNone:
		return nil, nil
	case domain.EmailProviderKindSMTP:
		return NewSMTPSender(cfg.SMTP), nil
	case domain.EmailProviderKindMailchimp:
		return NewMailchimpSender(cfg.Mailchimp, log), nil
	}
	return nil, fmt.Errorf("unknown email provider kind: %s", cfg.Kind)
}

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	mailer mailer.Mailer
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		mailer: mailer.NewSMTPMailer(&mailer.Config{
			SMTPHost:     cfg.Host,
			SMTPPort:     cfg.Port,
			SMTPUsername: cfg.Username,
			SMTPPassword: cfg.Password,
			UseTLS:       cfg.UseTLS,
		}),
	}
}

func (s *SMTPSender) SendEmail(ctx context.Context, message domain.EmailMessage) error {
	if err := message.Validate(); err != nil {
		return err
	}
	return s.mailer.Send(ctx, mailer.Message{
		To:        message.To,
		FromEmail: message.FromEmail,
		FromName:  message.FromName,
		Subject:   message.Subject,
		HTML:      message.HTML,
		Text:      message.Text,
	})
}

// MailchimpSender delivers messages through the Mandrill transactional
// API (messages/send).
type MailchimpSender struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     logger.Logger
}

func NewMailchimpSender(cfg config.MailchimpConfig, log logger.Logger) *MailchimpSender {
	return &MailchimpSender{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: log,
	}
}

func (s *MailchimpSender) SendEmail(ctx context.Context, message domain.EmailMessage) error {
	if err := message.Validate(); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"key": s.apiKey,
		"message": map[string]interface{}{
			"html":       message.HTML,
			"text":       message.Text,
			"subject":    message.Subject,
			"from_email": message.FromEmail,
			"from_name":  message.FromName,
			"to": []map[string]string{
				{"email": message.To, "type": "to"},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mandrill payload: %w", err)
	}

	apiURL := s.endpoint + "/messages/send.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create mandrill request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mandrill API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read mandrill response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mandrill API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	// A 200 still carries per-recipient statuses; rejected and invalid
	// must surface as errors.
	result := gjson.ParseBytes(respBody)
	if result.IsArray() {
		for _, entry := range result.Array() {
			status := entry.Get("status").String()
			if status == "rejected" || status == "invalid" {
				return fmt.Errorf("mandrill rejected recipient %s: %s", entry.Get("email").String(), status)
			}
		}
	}

	return nil
}
