package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the analysis pipeline.
var (
	ErrNotFound         = errors.New("not found")
	ErrTemplateNotFound = errors.New("prompt template not found")
	ErrDuplicateResult  = errors.New("result already exists for report, tone and language")
	ErrNoProfileData    = errors.New("no analysis history available for profile")
)

// GenerationError signals that the model returned empty or undecodable text.
// The raw response is carried for diagnostics instead of being discarded.
type GenerationError struct {
	Reason string `json:"reason"`
	Raw    string `json:"raw,omitempty"`
}

// Error implements the error interface
func (e *GenerationError) Error() string {
	return fmt.Sprintf("analysis generation failed: %s", e.Reason)
}

// APIError represents a standardized error response
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrInvalidInput   = "INVALID_INPUT"
	ErrDatabaseError  = "DATABASE_ERROR"
	ErrGeneration     = "GENERATION_ERROR"
	ErrTemplate       = "TEMPLATE_ERROR"
	ErrRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
	ErrValidation     = "VALIDATION_ERROR"
	ErrNotFoundCode   = "NOT_FOUND"
)

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
