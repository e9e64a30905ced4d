// Package dryrun previews mutating requests without sending them.
package dryrun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mercadounico/mu-cli/mu"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview describes a request that would have been sent.
type Preview struct {
	Operation string              `json:"operation"`
	Resource  string              `json:"resource"`
	Method    string              `json:"method"`
	URL       string              `json:"url"`
	Headers   map[string][]string `json:"headers"`
	Body      any                 `json:"body,omitempty"`
	Warnings  []string            `json:"warnings,omitempty"`
	DryRun    bool                `json:"dry_run"`
}

// FromRequest builds a preview of req with credentials redacted. JSON bodies
// are decoded so they print structured; multipart bodies are summarized.
func FromRequest(operation, resource string, req *mu.Request) *Preview {
	p := &Preview{
		Operation: operation,
		Resource:  resource,
		Method:    req.Method,
		URL:       req.URL,
		Headers:   mu.RedactHeaders(req.Header),
		DryRun:    true,
	}

	if len(req.Body) == 0 {
		return p
	}
	contentType := req.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") {
		p.Body = fmt.Sprintf("<multipart body, %d bytes>", len(req.Body))
		return p
	}

	dec := json.NewDecoder(bytes.NewReader(req.Body))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		p.Body = string(req.Body)
		return p
	}
	p.Body = body
	return p
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s %s\n", p.Operation, p.Resource)
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintf(w, "%s %s\n", p.Method, p.URL)

	names := make([]string, 0, len(p.Headers))
	for name := range p.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range p.Headers[name] {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", name, v)
		}
	}

	if p.Body != nil {
		_, _ = fmt.Fprintln(w)
		if s, ok := p.Body.(string); ok {
			_, _ = fmt.Fprintln(w, s)
		} else {
			data, _ := json.MarshalIndent(p.Body, "", "  ")
			_, _ = fmt.Fprintln(w, string(data))
		}
	}
	_, _ = fmt.Fprintln(w)

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}
