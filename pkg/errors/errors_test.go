package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeForStatus(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{200, ""},
		{204, ""},
		{401, ErrorTypeAuth},
		{403, ErrorTypeAuth},
		{404, ErrorTypeNotFound},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{400, ErrorTypeUnknown},
		{302, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, TypeForStatus(tt.code))
		})
	}
}

func TestFromStatus(t *testing.T) {
	assert.Nil(t, FromStatus(200, "https://oauth.reddit.com/r/rawdenim/search"))

	err := FromStatus(429, "https://oauth.reddit.com/r/rawdenim/search")
	if assert.NotNil(t, err) {
		assert.Equal(t, ErrorTypeRateLimit, err.Type)
		assert.Equal(t, 429, err.Code)
		assert.Contains(t, err.Error(), "rate limit exceeded")
		assert.Contains(t, err.Error(), "rate_limit")
	}
}

func TestErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("search failed: %w", New(ErrorTypeAuth, 401, "bad token"))

	var apiErr *Error
	if assert.True(t, stderrors.As(wrapped, &apiErr)) {
		assert.Equal(t, ErrorTypeAuth, apiErr.Type)
		assert.Equal(t, "bad token", apiErr.Message)
	}
}
