package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error wrapping an underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error codes used across the fulfillment and tax subsystems.
const (
	CodeInvalidArgument      = "INVALID_ARGUMENT"
	CodeIllegalTransition    = "ILLEGAL_TRANSITION"
	CodeUpstreamUnavailable  = "UPSTREAM_UNAVAILABLE"
	CodeConfigurationMissing = "CONFIGURATION_MISSING"
	CodeDataUnresolvable     = "DATA_UNRESOLVABLE"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidArgument   = NewDomainError(CodeInvalidArgument, "Invalid input provided")
	ErrIllegalTransition = NewDomainError(CodeIllegalTransition, "Fulfillment state rule violated")
)

// InvalidArgument creates an INVALID_ARGUMENT error with the given message
func InvalidArgument(message string) *DomainError {
	return NewDomainError(CodeInvalidArgument, message)
}

// IllegalTransition creates an ILLEGAL_TRANSITION error with the given message
func IllegalTransition(message string) *DomainError {
	return NewDomainError(CodeIllegalTransition, message)
}

// CodeOf returns the domain error code for err, or empty string if no
// DomainError is found in its chain.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries a DomainError with the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
