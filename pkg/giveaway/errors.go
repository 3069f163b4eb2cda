package giveaway

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrUnauthorized indicates the caller has no verified identity
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller may not modify the resource
	ErrForbidden = errors.New("forbidden")

	// ErrListingNotFound indicates a listing was not found
	ErrListingNotFound = errors.New("listing not found")

	// ErrProfileNotFound indicates a profile was not found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileExists indicates the identity already has a profile
	ErrProfileExists = errors.New("profile already exists")
)

// ConfigError reports a missing or invalid piece of required configuration.
type ConfigError struct {
	Variable string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid environment variable %s: %s", e.Variable, e.Reason)
	}
	return fmt.Sprintf("missing required environment variable: %s", e.Variable)
}

// ValidationError is a client error. Details is serialised verbatim into the response.
type ValidationError struct {
	Message string
	Details interface{}
}

func (e *ValidationError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Details)
	}
	return e.Message
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string, details interface{}) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// FileSizeDetails identifies an oversized file in a batch.
type FileSizeDetails struct {
	Index   int   `json:"index"`
	MaxSize int64 `json:"maxSize"`
}

// FileTypeDetails identifies a file whose MIME type is not accepted.
type FileTypeDetails struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
}

// Issue is a single field-level validation problem.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
