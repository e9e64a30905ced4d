package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mercadounico/mu-cli/internal/validation"
	"github.com/mercadounico/mu-cli/mu"
)

// bodyFlags collects a request payload from -d/-i/-f/-F.
type bodyFlags struct {
	fields    []string
	rawFields []string
	inputFile string
	jsonBody  string
}

func (b *bodyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&b.fields, "field", "f", nil, "Body field as key=value (string)")
	cmd.Flags().StringArrayVarP(&b.rawFields, "raw-field", "F", nil, "Body field as key=value (JSON parsed)")
	cmd.Flags().StringVarP(&b.inputFile, "input", "i", "", "Read body from a JSON file (use - for stdin)")
	cmd.Flags().StringVarP(&b.jsonBody, "body", "d", "", "Body as inline JSON object")
	flagAlias(cmd.Flags(), "body", "data")
}

func (b *bodyFlags) set() bool {
	return len(b.fields) > 0 || len(b.rawFields) > 0 || b.inputFile != "" || b.jsonBody != ""
}

// params builds the payload. Inline JSON and the input file are read first;
// fields override keys from either.
func (b *bodyFlags) params(cmd *cobra.Command) (mu.Params, error) {
	if b.jsonBody != "" && b.inputFile != "" {
		return nil, fmt.Errorf("--body and --input cannot be used together")
	}

	var input []byte
	if b.inputFile != "" {
		data, err := readInput(cmd, b.inputFile)
		if err != nil {
			return nil, err
		}
		input = data
	}
	if err := validation.ValidatePayloadSize(input); err != nil {
		return nil, err
	}
	if err := validation.ValidatePayloadSize([]byte(b.jsonBody)); err != nil {
		return nil, err
	}
	return buildRequestBody(b.fields, b.rawFields, input, b.jsonBody)
}

// buildRequestBody constructs the request body from fields and/or input file/inline JSON
func buildRequestBody(fields, rawFields []string, input []byte, jsonBody string) (mu.Params, error) {
	body := mu.Params{}

	if jsonBody != "" {
		if err := decodeObject([]byte(jsonBody), &body); err != nil {
			return nil, fmt.Errorf("invalid JSON in --body: %w", err)
		}
	}

	if len(bytes.TrimSpace(input)) > 0 {
		if err := decodeObject(input, &body); err != nil {
			return nil, fmt.Errorf("invalid JSON input: %w", err)
		}
	}

	for _, field := range fields {
		key, value, err := parseField(field)
		if err != nil {
			return nil, err
		}
		body[key] = value
	}

	for _, field := range rawFields {
		key, value, err := parseRawField(field)
		if err != nil {
			return nil, err
		}
		body[key] = value
	}

	return body, nil
}

func decodeObject(data []byte, into *mu.Params) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("expected a JSON object")
	}
	for k, v := range obj {
		(*into)[k] = v
	}
	return nil
}

// parseField parses a key=value field where value is a string
func parseField(field string) (string, string, error) {
	key, value, ok := strings.Cut(field, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("invalid field format %q: must be key=value", field)
	}
	return key, value, nil
}

// parseRawField parses a key=value field where value is JSON
func parseRawField(field string) (string, any, error) {
	key, raw, ok := strings.Cut(field, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", nil, fmt.Errorf("invalid raw field format %q: must be key=value", field)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return "", nil, fmt.Errorf("invalid JSON in raw field %q: %w", key, err)
	}
	return key, value, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
