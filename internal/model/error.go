package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidData          = "INVALID_DATA"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "product not found")

	// ErrProductNotPersisted is returned when an update is attempted on a
	// product that has no store-assigned id.
	ErrProductNotPersisted = NewDomainError(ErrCodeInternalError, "product has no id; create it before updating")
)

// ValidationError is the single error kind produced while decoding or
// validating product data.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: cause}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid product data: " + e.Message
	}
	return fmt.Sprintf("invalid product data: %s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
