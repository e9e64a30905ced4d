package outfmt

import (
	"context"
	"encoding/json"
	"io"

	"github.com/mercadounico/mu-cli/internal/filter"
)

type queryKey struct{}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// ApplyQuery applies a jq query to structured data and returns the filtered
// value. Raw JSON bytes are filtered without re-encoding.
func ApplyQuery(v any, query string) (any, error) {
	if query == "" {
		return v, nil
	}

	var data []byte
	switch val := v.(type) {
	case json.RawMessage:
		data = val
	case []byte:
		data = val
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}
	return filter.ApplyFromJSON(data, query)
}

// WriteJSONFiltered writes JSON with optional jq filtering.
// Uses pretty-printed output by default; pass compact=true for single-line output.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSONMaybeCompact(w, result, compact)
}
