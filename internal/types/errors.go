package types

import (
	"fmt"
	"maps"
	"net/http"
	"strings"
)

// ErrorCode identifies a failure class. The prefix decides the HTTP status.
type ErrorCode string

const (
	// Validation (400)
	ErrCodeValidationInvalidLat         ErrorCode = "validation_invalid_latitude"
	ErrCodeValidationInvalidLon         ErrorCode = "validation_invalid_longitude"
	ErrCodeValidationInvalidRadius      ErrorCode = "validation_invalid_radius"
	ErrCodeValidationInvalidLimit       ErrorCode = "validation_invalid_limit"
	ErrCodeValidationMissingField       ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidTime        ErrorCode = "validation_invalid_time"
	ErrCodeValidationMalformedCandidate ErrorCode = "validation_malformed_candidate"
	ErrCodeValidationInvalidRequest     ErrorCode = "validation_invalid_request"

	// Permission (403)
	ErrCodePermissionLocationDenied ErrorCode = "permission_location_denied"

	// Not Found (404)
	ErrCodeNotFoundWaterBody ErrorCode = "not_found_water_body"
	ErrCodeNotFoundStation   ErrorCode = "not_found_station"

	// Rate Limit (429)
	ErrCodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"

	// Internal/Upstream (500/502)
	ErrCodeInternalDB              ErrorCode = "internal_database_error"
	ErrCodeInternalUnexpected      ErrorCode = "internal_unexpected_error"
	ErrCodeUpstreamWeather         ErrorCode = "upstream_weather_unavailable"
	ErrCodeUpstreamWaterLevel      ErrorCode = "upstream_water_level_unavailable"
	ErrCodeUpstreamUnavailable     ErrorCode = "upstream_unavailable"
	ErrCodeUpstreamRateLimited     ErrorCode = "upstream_rate_limited"
	ErrCodeUpstreamInvalidResponse ErrorCode = "upstream_invalid_response"
)

// statusByPrefix is checked in order after the exact matches in HTTPStatus.
var statusByPrefix = []struct {
	prefix string
	status int
}{
	{"validation_", http.StatusBadRequest},
	{"permission_", http.StatusForbidden},
	{"not_found_", http.StatusNotFound},
	{"upstream_", http.StatusBadGateway},
}

// HTTPStatus maps c to a response status. Unknown codes are 500.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamRateLimited:
		return http.StatusServiceUnavailable
	}
	for _, p := range statusByPrefix {
		if strings.HasPrefix(string(c), p.prefix) {
			return p.status
		}
	}
	return http.StatusInternalServerError
}

// Retryable reports whether a caller may retry the operation that produced
// this code. Upstream failures are transient from the caller's point of view;
// validation and not-found errors are not.
func (c ErrorCode) Retryable() bool {
	return strings.HasPrefix(string(c), "upstream_")
}

// AppError is the standard application error type used throughout the service.
// All domain and handler errors are expressed as AppError to enable consistent
// error formatting, HTTP status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of e with details merged over its own.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	maps.Copy(merged, e.Details)
	maps.Copy(merged, details)
	out := *e
	out.Details = merged
	return &out
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewAppErrorWithDetails creates an AppError carrying client-visible details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{Code: code, Message: message, Err: err, Details: details}
}

// HasCode reports whether err is (or wraps) an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
