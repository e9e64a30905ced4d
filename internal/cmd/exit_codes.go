package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mercadounico/mu-cli/mu"
)

const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitForbidden   = 5
	exitRateLimited = 6
	exitServer      = 7
	exitNetwork     = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if code := exitCodeFromStructured(err); code != 0 {
		return code
	}
	if isUsageError(err) {
		return exitUsage
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	return exitGeneric
}

func exitCodeFromStructured(err error) int {
	switch StructuredErrorFromError(err).Code {
	case ErrUnauthorized, ErrNotConfigured:
		return exitAuth
	case ErrForbidden:
		return exitForbidden
	case ErrNotFound:
		return exitNotFound
	case ErrRateLimited:
		return exitRateLimited
	case ErrServerError, ErrMalformedResponse:
		return exitServer
	case ErrTimeout, ErrNetwork:
		return exitNetwork
	case ErrBadRequest, ErrValidation, ErrConflict, ErrSerialization, ErrAmbiguous:
		return exitUsage
	default:
		return 0
	}
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if mu.IsTransportError(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "certificate") ||
		strings.Contains(msg, "i/o timeout")
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"accepts ",
		"invalid argument",
		"invalid field",
		"invalid raw field",
		"invalid base url",
		"invalid email",
		"exceeds maximum",
		"invalid json",
		"must be",
		"is required",
		"are required",
		"nothing to update",
		"cannot be used together",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
