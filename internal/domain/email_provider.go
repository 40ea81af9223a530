package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination mocks/mock_email_sender.go -package mocks github.com/campaignbridge/campaignbridge/internal/domain EmailSender

type EmailProviderKind string

const (
	EmailProviderKindNone      EmailProviderKind = "none"
	EmailProviderKindSMTP      EmailProviderKind = "smtp"
	EmailProviderKindMailchimp EmailProviderKind = "mailchimp"
)

func (k EmailProviderKind) Validate() error {
	switch k {
	case EmailProviderKindNone, EmailProviderKindSMTP, EmailProviderKindMailchimp:
		return nil
	}
	return fmt.Errorf("invalid email provider kind: %s", k)
}

// EmailMessage is one outbound email, already compiled to its final
// HTML and plain-text parts.
type EmailMessage struct {
	To        string
	FromEmail string
	FromName  string
	Subject   string
	HTML      string
	Text      string
}

func (m *EmailMessage) Validate() error {
	if m.To == "" {
		return fmt.Errorf("invalid email message: to is required")
	}
	if m.FromEmail == "" {
		return fmt.Errorf("invalid email message: from_email is required")
	}
	if m.Subject == "" {
		return fmt.Errorf("invalid email message: subject is required")
	}
	if m.HTML == "" {
		return fmt.Errorf("invalid email message: html is required")
	}
	return nil
}

// EmailSender delivers a single compiled message through a provider
type EmailSender interface {
	SendEmail(ctx context.Context, message EmailMessage) error
}
