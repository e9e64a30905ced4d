package mu

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind names the case of the SDK error sum type.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindSerialization
	KindTransport
	KindAPI
	KindConfiguration
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindSerialization:
		return "serialization"
	case KindTransport:
		return "transport"
	case KindAPI:
		return "api"
	case KindConfiguration:
		return "configuration"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// DefaultAPIErrorMessage is used when an error body carries no message.
const DefaultAPIErrorMessage = "MercadoUnico API error"

// MissingPropertyIDMessage is the validation message for operations that
// need a property id.
const MissingPropertyIDMessage = "Debe indicar el id de la propiedad que desea operar."

// ValidationError reports a missing or empty required parameter. It is
// returned before any request is built.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SerializationError reports a payload that could not be encoded as JSON.
// No request is sent.
type SerializationError struct {
	Code    string
	Payload Params
	Err     error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("json encode failed (%s): %v", e.Code, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// TransportError reports a round-trip that did not produce an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError represents a response with status code 400 or above.
type APIError struct {
	StatusCode int
	Message    string
	Data       map[string]any
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// FieldErrors flattens the "errors" member of a validation response into
// sorted "field: message" lines. Both {"f": "msg"} and {"f": ["a", "b"]}
// shapes are accepted.
func (e *APIError) FieldErrors() []string {
	errMap, ok := e.Data["errors"].(map[string]any)
	if !ok || len(errMap) == 0 {
		return nil
	}

	var lines []string
	for field, value := range errMap {
		switch v := value.(type) {
		case string:
			lines = append(lines, fmt.Sprintf("%s: %s", field, v))
		case []any:
			for _, msg := range v {
				if s, ok := msg.(string); ok {
					lines = append(lines, fmt.Sprintf("%s: %s", field, s))
				}
			}
		}
	}
	sort.Strings(lines)
	return lines
}

// ConfigurationError is returned by New when the client cannot be used at all.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// MalformedResponseError reports a success status whose body is not JSON.
type MalformedResponseError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unexpected API response format (status %d, JSON decode failed): %v", e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// KindOf reports which SDK error case err carries, looking through wrapping.
func KindOf(err error) ErrorKind {
	var (
		validationErr    *ValidationError
		serializationErr *SerializationError
		transportErr     *TransportError
		apiErr           *APIError
		configErr        *ConfigurationError
		malformedErr     *MalformedResponseError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &serializationErr):
		return KindSerialization
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &configErr):
		return KindConfiguration
	case errors.As(err, &malformedErr):
		return KindMalformedResponse
	default:
		return KindUnknown
	}
}

// IsValidationError checks if the error is a local validation failure.
func IsValidationError(err error) bool { return KindOf(err) == KindValidation }

// IsTransportError checks if the error happened below HTTP.
func IsTransportError(err error) bool { return KindOf(err) == KindTransport }

// IsAPIError checks if the server answered with an error status.
func IsAPIError(err error) bool { return KindOf(err) == KindAPI }

// IsNotFound checks if the error is an API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsUnauthorized checks if the error is an API 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// serializationCode classifies encoding/json failures into a stable code.
func serializationCode(err error) string {
	var (
		unsupportedValue *json.UnsupportedValueError
		unsupportedType  *json.UnsupportedTypeError
		marshalerErr     *json.MarshalerError
	)
	switch {
	case errors.As(err, &unsupportedValue):
		if strings.Contains(unsupportedValue.Str, "NaN") || strings.Contains(unsupportedValue.Str, "Inf") {
			return "inf_or_nan"
		}
		if strings.Contains(unsupportedValue.Str, "cycle") {
			return "recursion"
		}
		return "unsupported_value"
	case errors.As(err, &unsupportedType):
		return "unsupported_type"
	case errors.As(err, &marshalerErr):
		return "marshaler"
	default:
		return "unknown"
	}
}

func missingPropertyID() error {
	return &ValidationError{Field: "id", Message: MissingPropertyIDMessage}
}

func missingID(resource string) error {
	return &ValidationError{Field: "id", Message: fmt.Sprintf("Debe indicar el id de %s.", resource)}
}
