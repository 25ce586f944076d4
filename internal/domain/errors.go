package domain

import "errors"

var (
	// ErrEmptyQuestion indicates the question was missing or whitespace-only
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrInvalidPayload indicates an inbound forward body matched neither accepted shape
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrUnauthorized indicates a missing or wrong shared secret
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotConfigured indicates a required integration has no configuration
	ErrNotConfigured = errors.New("integration not configured")
)
