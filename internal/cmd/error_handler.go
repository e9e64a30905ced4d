package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mercadounico/mu-cli/internal/config"
	"github.com/mercadounico/mu-cli/mu"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var (
		apiErr        *mu.APIError
		validationErr *mu.ValidationError
		serialErr     *mu.SerializationError
		malformedErr  *mu.MalformedResponseError
		transportErr  *mu.TransportError
	)

	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n", apiErr.StatusCode, apiErr.Message)
		for _, line := range apiErr.FieldErrors() {
			fmt.Fprintf(&msg, "  %s\n", line)
		}
		msg.WriteString("\n")
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode))
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	case errors.As(err, &validationErr):
		fmt.Fprintf(&msg, "Invalid input (%s): %s\n", validationErr.Field, validationErr.Message)

	case errors.As(err, &serialErr):
		fmt.Fprintf(&msg, "Cannot encode request body: %s\n\n", serialErr.Err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the values passed with --field and --data\n")

	case errors.As(err, &malformedErr):
		fmt.Fprintf(&msg, "Unexpected response from the API (HTTP %d).\n\n", malformedErr.StatusCode)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Use --debug to see the full request\n")
		msg.WriteString("  - Check the API host with: mu auth status\n")

	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No MercadoUnico account configured.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: mu auth login\n")
		msg.WriteString("  - Or export MU_USERNAME and MU_PASSWORD\n")

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the API host: mu auth status\n")
		msg.WriteString("  - Check your network connection\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the --base-url spelling\n")
		msg.WriteString("  - Verify your DNS settings\n")

	case strings.Contains(err.Error(), "certificate"):
		msg.WriteString("TLS certificate error.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the server's SSL certificate\n")
		msg.WriteString("  - Ensure you're using https:// correctly\n")

	case errors.As(err, &transportErr):
		fmt.Fprintf(&msg, "Request failed: %s\n\n", transportErr.Err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check your network connection\n")
		msg.WriteString("  - Raise --timeout for slow connections\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case 400:
		suggestions.WriteString("  - Check your request parameters\n")
		suggestions.WriteString("  - Use --dry-run to see the request body\n")

	case 401:
		suggestions.WriteString("  - Your username or password may be wrong\n")
		suggestions.WriteString("  - Check you are on the right host (--sandbox)\n")
		suggestions.WriteString("  - Run: mu auth login\n")

	case 403:
		suggestions.WriteString("  - Your agency can't operate on this resource\n")

	case 404:
		suggestions.WriteString("  - The resource doesn't exist\n")
		suggestions.WriteString("  - Check the ID is correct\n")

	case 422:
		suggestions.WriteString("  - Validation failed; fix the fields listed above\n")

	case 429:
		suggestions.WriteString("  - Too many requests\n")
		suggestions.WriteString("  - Wait and retry in a few seconds\n")

	case 500, 502, 503, 504:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}
