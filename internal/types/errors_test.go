package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorFormat(t *testing.T) {
	appErr := NewAppError(ErrCodeValidationInvalidLat, "Latitude must be between -90 and 90", nil)
	assert.Equal(t, "validation_invalid_latitude: Latitude must be between -90 and 90", appErr.Error())
}

func TestAppError_Chain(t *testing.T) {
	sentinel := errors.New("connection refused")
	appErr := NewAppError(ErrCodeUpstreamWeather, "weather service unavailable", sentinel)
	wrapped := fmt.Errorf("loading spots: %w", appErr)

	var target *AppError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, ErrCodeUpstreamWeather, target.Code)
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, HasCode(wrapped, ErrCodeUpstreamWeather))
	assert.False(t, HasCode(wrapped, ErrCodeUpstreamRateLimited))
	assert.False(t, HasCode(sentinel, ErrCodeUpstreamWeather))
}

func TestErrorCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationInvalidLat, http.StatusBadRequest},
		{ErrCodeValidationMalformedCandidate, http.StatusBadRequest},
		{ErrCodePermissionLocationDenied, http.StatusForbidden},
		{ErrCodeNotFoundWaterBody, http.StatusNotFound},
		{ErrCodeUpstreamWeather, http.StatusBadGateway},
		{ErrCodeUpstreamUnavailable, http.StatusBadGateway},
		{ErrCodeUpstreamRateLimited, http.StatusServiceUnavailable},
		{ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ErrCodeInternalDB, http.StatusInternalServerError},
		{ErrorCode("something_else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestErrorCode_Retryable(t *testing.T) {
	assert.True(t, ErrCodeUpstreamWeather.Retryable())
	assert.True(t, ErrCodeUpstreamRateLimited.Retryable())
	assert.False(t, ErrCodeValidationInvalidLon.Retryable())
	assert.False(t, ErrCodeInternalDB.Retryable())
}

func TestAppError_WithDetailsCopies(t *testing.T) {
	base := NewAppErrorWithDetails(ErrCodeValidationMalformedCandidate, "bad", nil, map[string]any{"id": "a"})
	extended := base.WithDetails(map[string]any{"row": 3})

	assert.Equal(t, map[string]any{"id": "a"}, base.Details)
	assert.Equal(t, map[string]any{"id": "a", "row": 3}, extended.Details)
	assert.Equal(t, base.Code, extended.Code)
}
