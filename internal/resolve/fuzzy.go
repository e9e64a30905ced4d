// Package resolve matches human-typed names against catalog entries such as
// cities and property types.
package resolve

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Named represents any resource with an ID and display name.
type Named struct {
	ID   string
	Name string
}

// Match is a fuzzy match result with score.
type Match struct {
	ID    string
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no items to match against")
)

// NotFoundError reports a query that matched nothing.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no match found for %q", e.Query)
}

// AmbiguousError indicates multiple candidates matched equally well.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %s: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

// foldName lowercases s and strips diacritics so "tucuman" finds "Tucumán".
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// foldedNames is a fuzzy.Source over pre-folded names.
type foldedNames []string

func (s foldedNames) String(i int) string { return s[i] }
func (s foldedNames) Len() int            { return len(s) }

// FuzzyMatch finds the best matching item by name and returns its ID.
// An exact ID or a name equal after case and accent folding wins outright;
// otherwise the best fuzzy score wins and a tie is an *AmbiguousError.
func FuzzyMatch(query string, items []Named) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if len(items) == 0 {
		return "", ErrEmptyItems
	}

	folded := foldName(query)
	names := make(foldedNames, len(items))
	for i, item := range items {
		if item.ID == query {
			return item.ID, nil
		}
		names[i] = foldName(item.Name)
	}
	for i, name := range names {
		if name == folded {
			return items[i].ID, nil
		}
	}

	results := fuzzy.FindFrom(folded, names)
	switch {
	case len(results) == 0:
		return "", &NotFoundError{Query: query}
	case len(results) > 1 && results[0].Score == results[1].Score:
		return "", &AmbiguousError{Query: query, Matches: topMatches(items, results, 5)}
	default:
		return items[results[0].Index].ID, nil
	}
}

func topMatches(items []Named, results fuzzy.Matches, limit int) []Match {
	if len(results) > limit {
		results = results[:limit]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{ID: items[r.Index].ID, Name: items[r.Index].Name, Score: r.Score}
	}
	return matches
}

// NamedFrom extracts id/name pairs from decoded API rows. The first non-empty
// key of nameKeys is used as the display name. Rows without an id are
// skipped.
func NamedFrom(rows []any, nameKeys ...string) []Named {
	if len(nameKeys) == 0 {
		nameKeys = []string{"nombre", "name", "descripcion"}
	}
	var out []Named
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			continue
		}
		id := scalar(m["id"])
		if id == "" {
			continue
		}
		var name string
		for _, key := range nameKeys {
			if name = scalar(m[key]); name != "" {
				break
			}
		}
		out = append(out, Named{ID: id, Name: name})
	}
	return out
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case float64, int, int64, bool:
		return fmt.Sprint(val)
	default:
		return ""
	}
}
