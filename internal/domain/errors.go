package domain

import (
	"fmt"
)

// ErrTemplateNotFound is returned when a template is not found
type ErrTemplateNotFound struct {
	Message string
}

func (e *ErrTemplateNotFound) Error() string {
	return e.Message
}

// ErrCampaignNotFound is returned when a campaign is not found
type ErrCampaignNotFound struct {
	Message string
}

func (e *ErrCampaignNotFound) Error() string {
	return e.Message
}

// ErrPostNotFound is returned when a post is not found
type ErrPostNotFound struct {
	Message string
}

func (e *ErrPostNotFound) Error() string {
	return e.Message
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}
