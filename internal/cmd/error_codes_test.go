package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadounico/mu-cli/internal/config"
	"github.com/mercadounico/mu-cli/internal/resolve"
	"github.com/mercadounico/mu-cli/mu"
)

func TestErrorCodeFromStatus(t *testing.T) {
	tests := map[int]ErrorCode{
		400: ErrBadRequest,
		401: ErrUnauthorized,
		403: ErrForbidden,
		404: ErrNotFound,
		409: ErrConflict,
		422: ErrValidation,
		429: ErrRateLimited,
		500: ErrServerError,
		503: ErrServerError,
		418: ErrUnknown,
	}
	for status, want := range tests {
		assert.Equal(t, want, ErrorCodeFromStatus(status), "status %d", status)
	}
}

func TestErrorCode_Retryable(t *testing.T) {
	for _, code := range []ErrorCode{ErrRateLimited, ErrServerError, ErrTimeout, ErrNetwork} {
		assert.True(t, code.IsRetryable(), code)
	}
	for _, code := range []ErrorCode{ErrBadRequest, ErrUnauthorized, ErrValidation, ErrMalformedResponse, ErrUnknown} {
		assert.False(t, code.IsRetryable(), code)
	}
}

func TestErrorCode_Suggestion(t *testing.T) {
	assert.Contains(t, ErrUnauthorized.Suggestion(), "mu auth login")
	assert.Contains(t, ErrAmbiguous.Suggestion(), "numeric id")
	assert.Empty(t, ErrUnknown.Suggestion())
}

func TestStructuredErrorFromError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		wantRetry bool
		context   map[string]any
	}{
		{
			name: "api error with request id and field errors",
			err: &mu.APIError{
				StatusCode: 422,
				Message:    "Datos invalidos",
				Data:       map[string]any{"errors": map[string]any{"precio": []any{"es requerido"}}},
				RequestID:  "req-1",
			},
			wantCode: ErrValidation,
			context: map[string]any{
				"status_code": 422,
				"request_id":  "req-1",
				"errors":      []string{"precio: es requerido"},
			},
		},
		{
			name:      "wrapped server error",
			err:       fmt.Errorf("listing: %w", &mu.APIError{StatusCode: 502, Message: "bad gateway"}),
			wantCode:  ErrServerError,
			wantRetry: true,
			context:   map[string]any{"status_code": 502},
		},
		{
			name:     "validation",
			err:      &mu.ValidationError{Field: "id", Message: mu.MissingPropertyIDMessage},
			wantCode: ErrValidation,
			context:  map[string]any{"field": "id"},
		},
		{
			name:     "serialization",
			err:      &mu.SerializationError{Code: "unsupported_type", Err: errors.New("chan")},
			wantCode: ErrSerialization,
			context:  map[string]any{"reason": "unsupported_type"},
		},
		{
			name:      "transport",
			err:       &mu.TransportError{Method: "GET", URL: "https://x/y", Err: errors.New("connection reset")},
			wantCode:  ErrNetwork,
			wantRetry: true,
			context:   map[string]any{"method": "GET", "url": "https://x/y"},
		},
		{
			name:      "transport timeout",
			err:       &mu.TransportError{Method: "GET", URL: "https://x/y", Err: context.DeadlineExceeded},
			wantCode:  ErrTimeout,
			wantRetry: true,
			context:   map[string]any{"method": "GET", "url": "https://x/y"},
		},
		{
			name:     "malformed response",
			err:      &mu.MalformedResponseError{StatusCode: 200, Err: errors.New("invalid character")},
			wantCode: ErrMalformedResponse,
			context:  map[string]any{"status_code": 200},
		},
		{
			name:     "not configured",
			err:      config.ErrNotConfigured,
			wantCode: ErrNotConfigured,
		},
		{
			name:     "ambiguous name",
			err:      fmt.Errorf("city %q: %w", "tafi", &resolve.AmbiguousError{Query: "tafi"}),
			wantCode: ErrAmbiguous,
		},
		{
			name:     "unknown name",
			err:      &resolve.NotFoundError{Query: "zzz"},
			wantCode: ErrNotFound,
		},
		{
			name:      "deadline",
			err:       fmt.Errorf("wrapped: %w", context.DeadlineExceeded),
			wantCode:  ErrTimeout,
			wantRetry: true,
		},
		{
			name:     "plain error",
			err:      errors.New("something"),
			wantCode: ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StructuredErrorFromError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantRetry, got.Retryable)
			assert.Equal(t, tt.wantCode.Suggestion(), got.Suggestion)
			if tt.context != nil {
				assert.Equal(t, tt.context, got.Context)
			}
		})
	}
}

func TestStructuredErrorFromError_PassThrough(t *testing.T) {
	assert.Nil(t, StructuredErrorFromError(nil))

	se := NewStructuredError(ErrConflict, "ya existe")
	assert.Same(t, se, StructuredErrorFromError(fmt.Errorf("x: %w", se)))
	assert.Equal(t, "[conflict] ya existe", se.Error())
}
