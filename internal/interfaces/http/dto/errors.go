package dto

import (
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Transport-level error codes for failures that never reach the domain
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeInvalidArgument:      http.StatusBadRequest,
	shared.CodeNotFound:             http.StatusNotFound,
	shared.CodeIllegalTransition:    http.StatusConflict,
	shared.CodeConflict:             http.StatusConflict,
	shared.CodeDataUnresolvable:     http.StatusUnprocessableEntity,
	shared.CodeConfigurationMissing: http.StatusUnprocessableEntity,
	shared.CodeUpstreamUnavailable:  http.StatusBadGateway,
	ErrCodeBadRequest:               http.StatusBadRequest,
	ErrCodeInternal:                 http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
