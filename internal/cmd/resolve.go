package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/mercadounico/mu-cli/internal/cache"
	"github.com/mercadounico/mu-cli/internal/resolve"
	"github.com/mercadounico/mu-cli/mu"
)

// isNumericID reports whether s looks like an API id rather than a name.
func isNumericID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// rowsOf returns the list rows of a response: a top-level array, or the
// array under "data" when the API wraps it.
func rowsOf(resp *mu.Response) []any {
	if items, ok := resp.Items(); ok {
		return items
	}
	if data, ok := resp.Get("data"); ok {
		if items, ok := data.([]any); ok {
			return items
		}
	}
	return nil
}

type listFunc func(ctx context.Context) (*mu.Response, error)

// resolveByName turns a name into an id by fuzzy matching it against the
// rows returned by list. Numeric input is returned unchanged. Rows are
// cached per host and user; a name missing from a cached listing triggers
// one fresh listing.
func resolveByName(ctx context.Context, client *mu.Client, input, kind string, list listFunc) (string, error) {
	if isNumericID(input) {
		return strings.TrimSpace(input), nil
	}

	store := catalogStore(client, kind)
	var rows []any
	cached := store != nil && store.Get(&rows)
	if !cached {
		fresh, err := listCatalog(ctx, store, kind, list)
		if err != nil {
			return "", err
		}
		rows = fresh
	}

	id, err := resolve.FuzzyMatch(input, resolve.NamedFrom(rows))
	var notFound *resolve.NotFoundError
	if cached && (errors.As(err, &notFound) || errors.Is(err, resolve.ErrEmptyItems)) {
		fresh, listErr := listCatalog(ctx, store, kind, list)
		if listErr != nil {
			return "", listErr
		}
		id, err = resolve.FuzzyMatch(input, resolve.NamedFrom(fresh))
	}
	if err != nil {
		return "", fmt.Errorf("%s %q: %w", kind, input, err)
	}
	return id, nil
}

func listCatalog(ctx context.Context, store *cache.Store, kind string, list listFunc) ([]any, error) {
	resp, err := list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	rows := rowsOf(resp)
	if store != nil && len(rows) > 0 {
		store.Put(rows)
	}
	return rows, nil
}

// catalogStore returns the cache for kind listings, or nil when the cache
// directory cannot be determined.
func catalogStore(client *mu.Client, kind string) *cache.Store {
	dir, err := cache.DefaultDir()
	if err != nil {
		return nil
	}
	return cache.NewStore(dir, kind, client.BaseURL(), client.Username())
}
