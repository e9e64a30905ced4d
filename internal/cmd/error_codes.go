package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/mercadounico/mu-cli/internal/config"
	"github.com/mercadounico/mu-cli/internal/resolve"
	"github.com/mercadounico/mu-cli/mu"
)

// ErrorCode represents machine-readable error codes for scripted error handling.
type ErrorCode string

const (
	ErrBadRequest        ErrorCode = "bad_request"
	ErrUnauthorized      ErrorCode = "unauthorized"
	ErrForbidden         ErrorCode = "forbidden"
	ErrNotFound          ErrorCode = "not_found"
	ErrConflict          ErrorCode = "conflict"
	ErrValidation        ErrorCode = "validation_failed"
	ErrRateLimited       ErrorCode = "rate_limited"
	ErrServerError       ErrorCode = "server_error"
	ErrTimeout           ErrorCode = "timeout"
	ErrNetwork           ErrorCode = "network_error"
	ErrSerialization     ErrorCode = "serialization_failed"
	ErrMalformedResponse ErrorCode = "malformed_response"
	ErrNotConfigured     ErrorCode = "not_configured"
	ErrAmbiguous         ErrorCode = "ambiguous"
	ErrUnknown           ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError, ErrTimeout, ErrNetwork:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrUnauthorized:
		return "Check your credentials with 'mu auth status' or run 'mu auth login'"
	case ErrNotConfigured:
		return "Run 'mu auth login' or set MU_USERNAME and MU_PASSWORD"
	case ErrForbidden:
		return "Check that your agency can operate on this resource"
	case ErrNotFound:
		return "Verify the resource ID exists"
	case ErrRateLimited:
		return "Wait a moment and retry"
	case ErrValidation:
		return "Check the input values"
	case ErrBadRequest:
		return "Check the request format and parameters"
	case ErrConflict:
		return "The resource state may have changed; refresh and retry"
	case ErrServerError:
		return "The server encountered an error; try again later"
	case ErrTimeout, ErrNetwork:
		return "Check network connectivity and retry (use --sandbox for the test environment)"
	case ErrSerialization:
		return "The request payload cannot be encoded as JSON"
	case ErrMalformedResponse:
		return "The API answered with a non-JSON body; retry with --debug"
	case ErrAmbiguous:
		return "Use the numeric id instead of the name"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch statusCode {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 422:
		return ErrValidation
	case 429:
		return ErrRateLimited
	default:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// StructuredErrorFromError converts any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var (
		apiErr        *mu.APIError
		validationErr *mu.ValidationError
		serialErr     *mu.SerializationError
		transportErr  *mu.TransportError
		malformedErr  *mu.MalformedResponseError
		ambiguousErr  *resolve.AmbiguousError
		notFoundErr   *resolve.NotFoundError
	)

	switch {
	case errors.As(err, &apiErr):
		structured := NewStructuredError(ErrorCodeFromStatus(apiErr.StatusCode), apiErr.Message)
		structured.Context = map[string]any{"status_code": apiErr.StatusCode}
		if apiErr.RequestID != "" {
			structured.Context["request_id"] = apiErr.RequestID
		}
		if fieldErrs := apiErr.FieldErrors(); len(fieldErrs) > 0 {
			structured.Context["errors"] = fieldErrs
		}
		return structured
	case errors.As(err, &validationErr):
		structured := NewStructuredError(ErrValidation, validationErr.Message)
		structured.Context = map[string]any{"field": validationErr.Field}
		return structured
	case errors.As(err, &serialErr):
		structured := NewStructuredError(ErrSerialization, err.Error())
		structured.Context = map[string]any{"reason": serialErr.Code}
		return structured
	case errors.As(err, &transportErr):
		code := ErrNetwork
		if isTimeout(err) {
			code = ErrTimeout
		}
		structured := NewStructuredError(code, err.Error())
		structured.Context = map[string]any{"method": transportErr.Method, "url": transportErr.URL}
		return structured
	case errors.As(err, &malformedErr):
		structured := NewStructuredError(ErrMalformedResponse, err.Error())
		structured.Context = map[string]any{"status_code": malformedErr.StatusCode}
		return structured
	case errors.Is(err, config.ErrNotConfigured):
		return NewStructuredError(ErrNotConfigured, err.Error())
	case errors.As(err, &ambiguousErr):
		return NewStructuredError(ErrAmbiguous, err.Error())
	case errors.As(err, &notFoundErr):
		return NewStructuredError(ErrNotFound, err.Error())
	case isTimeout(err):
		return NewStructuredError(ErrTimeout, err.Error())
	default:
		return NewStructuredError(ErrUnknown, err.Error())
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
