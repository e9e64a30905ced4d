package outfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// maxCellWidth bounds table cells so long descriptions do not wrap rows.
const maxCellWidth = 60

// Cell renders a decoded JSON value for a table cell or key/value line.
// Objects and arrays are rendered as compact JSON.
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool, float64, int, int64:
		return fmt.Sprint(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-1]) + "…"
}

// WriteText renders a decoded JSON value for humans: objects as aligned
// key/value lines, arrays of objects as a table and scalars as-is. columns
// selects and orders table columns; when empty they are derived from the rows.
func WriteText(w io.Writer, v any, columns ...string) error {
	switch val := v.(type) {
	case map[string]any:
		return writeKeyValues(w, val)
	case []any:
		return writeRows(w, val, columns)
	default:
		_, err := fmt.Fprintln(w, Cell(val))
		return err
	}
}

func writeKeyValues(w io.Writer, m map[string]any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", k, Cell(m[k]))
	}
	return tw.Flush()
}

func writeRows(w io.Writer, items []any, columns []string) error {
	if len(columns) == 0 {
		columns = deriveColumns(items)
	}
	if len(columns) == 0 {
		for _, item := range items {
			if _, err := fmt.Fprintln(w, Cell(item)); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(c)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, item := range items {
		row, _ := item.(map[string]any)
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = truncate(Cell(row[c]))
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// deriveColumns returns the scalar keys present in the rows, "id" first and
// the rest sorted.
func deriveColumns(items []any) []string {
	seen := map[string]bool{}
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		for k, v := range row {
			switch v.(type) {
			case map[string]any, []any:
				continue
			}
			seen[k] = true
		}
	}

	var cols []string
	for k := range seen {
		if k != "id" {
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)
	if seen["id"] {
		cols = append([]string{"id"}, cols...)
	}
	return cols
}
