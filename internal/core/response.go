package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"fangindex/internal/types"
)

// maxRequestBodySize bounds decoded request bodies.
const maxRequestBodySize = 1 << 20

// APIResponse is the envelope for successful responses. Meta carries
// request context such as the resolved location source and radius.
type APIResponse struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// APIErrorResponse is the standard envelope for all error API responses.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned to clients.
type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id"`
}

// JSON writes data with the given status. A marshalling failure becomes a
// 500 error envelope.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		requestLogger(r.Context()).Error("response marshal failed", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorEnvelope(r, types.ErrCodeInternalUnexpected, "failed to marshal response", nil))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func errorEnvelope(r *http.Request, code types.ErrorCode, message string, details map[string]any) APIErrorResponse {
	return APIErrorResponse{Error: ErrorDetail{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: types.GetRequestID(r.Context()),
	}}
}

// Error writes err as an error envelope. An *types.AppError in the chain
// supplies code, status, message and details; anything else is a generic
// 500. Wrapped causes are logged and never sent to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		requestLogger(r.Context()).Error("request failed", "error", err)
		JSON(w, r, http.StatusInternalServerError,
			errorEnvelope(r, types.ErrCodeInternalUnexpected, "an unexpected error occurred", nil))
		return
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		requestLogger(r.Context()).Error("request failed", "code", string(appErr.Code), "error", err)
	}
	JSON(w, r, status, errorEnvelope(r, appErr.Code, appErr.Message, appErr.Details))
}

// DecodeJSON decodes exactly one JSON value from the request body into dst.
// Oversized or empty bodies, unknown fields and trailing values all fail
// with validation_invalid_json.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return types.NewAppError(errCodeValidationInvalidJSON, "request body must contain a single JSON object", nil)
	}
	return nil
}

// errCodeValidationInvalidJSON is only produced by the chassis.
const errCodeValidationInvalidJSON types.ErrorCode = "validation_invalid_json"

const unknownFieldPrefix = "json: unknown field "

// decodeError classifies a json.Decoder failure.
func decodeError(err error) *types.AppError {
	var (
		maxBytes  *http.MaxBytesError
		syntax    *json.SyntaxError
		fieldType *json.UnmarshalTypeError
		message   = "invalid JSON in request body"
		details   map[string]any
	)

	switch {
	case errors.As(err, &maxBytes):
		message = "request body must not exceed 1MB"
	case errors.As(err, &syntax):
		message = "malformed JSON in request body"
	case errors.As(err, &fieldType):
		message = "invalid value for field"
		details = map[string]any{"field": fieldType.Field, "expected": fieldType.Type.String()}
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		message = "unknown field in request body: " + strings.TrimPrefix(err.Error(), unknownFieldPrefix)
	case errors.Is(err, io.EOF):
		message = "request body must not be empty"
	}

	return types.NewAppErrorWithDetails(errCodeValidationInvalidJSON, message, err, details)
}
