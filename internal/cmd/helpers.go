package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mercadounico/mu-cli/internal/dryrun"
	"github.com/mercadounico/mu-cli/internal/iocontext"
	"github.com/mercadounico/mu-cli/internal/outfmt"
	"github.com/mercadounico/mu-cli/mu"
)

// printJSON outputs data as JSON with optional query/template filtering
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut).Output(v)
}

// printJSONErr writes a JSON value to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.ErrOut, v)
}

// printResponse renders a decoded API body: JSON modes go through printJSON,
// text mode prints objects as key/value pairs and arrays as a table.
func printResponse(cmd *cobra.Command, resp *mu.Response, columns ...string) error {
	if resp == nil {
		return nil
	}
	if isJSON(cmd) {
		return printJSON(cmd, resp.Value())
	}
	if flags.Quiet {
		return nil
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	if items, ok := resp.Items(); ok && len(items) == 0 {
		_, _ = fmt.Fprintln(ioStreams.ErrOut, "No results")
		return nil
	}
	if items, ok := resp.Items(); ok {
		columns = presentColumns(items, columns)
	}
	return outfmt.WriteText(ioStreams.Out, resp.Value(), columns...)
}

// presentColumns keeps the preferred columns that occur in at least one row.
// An empty result lets the table derive its columns from the rows.
func presentColumns(items []any, preferred []string) []string {
	var out []string
	for _, col := range preferred {
		for _, item := range items {
			if row, ok := item.(map[string]any); ok {
				if _, has := row[col]; has {
					out = append(out, col)
					break
				}
			}
		}
	}
	return out
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

func printAction(cmd *cobra.Command, action, resource string, id any, name string) {
	if flags.Quiet || isJSON(cmd) {
		return
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	message := fmt.Sprintf("%s %s", action, resource)
	if id != nil {
		if value, ok := id.(string); !ok || value != "" {
			message = fmt.Sprintf("%s %v", message, id)
		}
	}
	if name != "" {
		message = fmt.Sprintf("%s: %s", message, name)
	}
	_, _ = fmt.Fprintln(ioStreams.Out, message)
}

// errDryRun stops a request at the transport once it has been recorded.
var errDryRun = errors.New("dry run: request not sent")

// recordingExecutor captures the outgoing request instead of sending it.
type recordingExecutor struct {
	req *mu.Request
}

func (r *recordingExecutor) Do(httpReq *http.Request) (*http.Response, error) {
	var body []byte
	if httpReq.Body != nil {
		var err error
		if body, err = io.ReadAll(httpReq.Body); err != nil {
			return nil, err
		}
		_ = httpReq.Body.Close()
	}
	r.req = &mu.Request{
		Method: httpReq.Method,
		Path:   httpReq.URL.RequestURI(),
		URL:    httpReq.URL.String(),
		Header: httpReq.Header.Clone(),
		Body:   body,
	}
	return nil, errDryRun
}

// apiCall is a single SDK operation run by a command.
type apiCall func(ctx context.Context, client *mu.Client) (*mu.Response, error)

// callAPI runs fn against client. With --dry-run the request is built and
// previewed but never sent; previewed reports whether that happened.
// Validation errors surface before anything is recorded.
func callAPI(cmd *cobra.Command, client *mu.Client, operation, resource string, fn apiCall) (resp *mu.Response, previewed bool, err error) {
	ctx := cmd.Context()
	if !dryrun.IsEnabled(ctx) {
		resp, err = fn(ctx, client)
		return resp, false, err
	}

	rec := &recordingExecutor{}
	saved := client.HTTP
	client.HTTP = rec
	defer func() { client.HTTP = saved }()

	if _, err := fn(ctx, client); err != nil && !errors.Is(err, errDryRun) {
		return nil, false, err
	}
	if rec.req == nil {
		return nil, false, fmt.Errorf("dry run: no request was built for %s %s", operation, resource)
	}
	return nil, true, writePreview(cmd, dryrun.FromRequest(operation, resource, rec.req))
}

func writePreview(cmd *cobra.Command, preview *dryrun.Preview) error {
	if isJSON(cmd) {
		return printJSON(cmd, preview)
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	preview.Write(ioStreams.Out)
	return nil
}

// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed.  This lets aliases satisfy Cobra's
// MarkFlagRequired check transparently.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// aliasBridgeSliceValue also forwards pflag.SliceValue when the underlying
// Value supports it.
type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

// flagAlias registers a hidden alias for an existing flag.
// Both flags share the same underlying Value, so setting either one sets both.
// The alias is annotated so flagOrAliasChanged() can detect it.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	// The alias is never independently required; the canonical flag
	// enforces that.
	newAnn := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		newAnn[k] = v
	}
	a.Annotations = newAnn
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	if cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name {
				if fs.Changed(f.Name) {
					found = true
				}
			}
		})
		return found
	}

	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

func splitCommaList(value string) []string {
	parts := strings.Split(value, ",")
	var out []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// readInput reads a file argument, with "-" meaning stdin.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(iocontext.GetIO(cmd.Context()).In)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return data, nil
	}
	return readFile(path)
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// Cause returns the error the command actually failed with.
func (e *handledError) Cause() error {
	return e.err
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if errors.Is(err, errAlreadyHandled) {
			return err
		}
		if err != nil {
			if isJSON(cmd) {
				if structured := StructuredErrorFromError(err); structured != nil {
					_ = printJSONErr(cmd, map[string]any{"error": structured})
				}
			} else {
				_, _ = fmt.Fprint(iocontext.GetIO(cmd.Context()).ErrOut, HandleError(err))
			}
			// Return a handled error so tests can still inspect the original message.
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}
