package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mercadounico/mu-cli/internal/iocontext"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 5

// BulkResult represents the outcome of a single bulk operation
type BulkResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   error  `json:"-"`
	Data    any    `json:"data,omitempty"`
}

// runBulkOperation executes operations concurrently with bounded parallelism.
// Results come back in input order.
func runBulkOperation[T any](
	ctx context.Context,
	ids []string,
	concurrency int64,
	progress bool,
	errOut io.Writer,
	operation func(ctx context.Context, id string) (T, error),
) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if errOut == nil {
		errOut = io.Discard
	}

	sem := semaphore.NewWeighted(concurrency)
	var mu sync.Mutex
	results := make([]BulkResult, 0, len(ids))
	order := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, seen := order[id]; !seen {
			order[id] = i
		}
	}
	total := len(ids)
	var done int64

	g, ctx := errgroup.WithContext(ctx)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil // context cancelled, don't add to results
			}
			defer sem.Release(1)

			if ctx.Err() != nil {
				return nil
			}

			data, err := operation(ctx, id)

			mu.Lock()
			if err != nil {
				results = append(results, BulkResult{ID: id, Error: err})
			} else {
				results = append(results, BulkResult{ID: id, Success: true, Data: data})
			}
			mu.Unlock()

			if progress && total > 0 {
				current := atomic.AddInt64(&done, 1)
				mu.Lock()
				_, _ = fmt.Fprintf(errOut, "\rProcessed %d/%d", current, total)
				mu.Unlock()
			}

			return nil // don't fail the group on individual errors
		})
	}

	_ = g.Wait()

	if progress && total > 0 {
		_, _ = fmt.Fprintf(errOut, "\rProcessed %d/%d\n", atomic.LoadInt64(&done), total)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return order[results[i].ID] < order[results[j].ID]
	})
	return results
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

// printBulkResults reports per-id outcomes. Any failure makes the command
// fail with the first error so the exit code reflects it.
func printBulkResults(cmd *cobra.Command, action string, results []BulkResult) error {
	success, failure := countResults(results)

	if isJSON(cmd) {
		rows := make([]map[string]any, 0, len(results))
		for _, r := range results {
			row := map[string]any{"id": r.ID, "success": r.Success}
			if r.Data != nil {
				row["data"] = r.Data
			}
			if r.Error != nil {
				row["error"] = StructuredErrorFromError(r.Error)
			}
			rows = append(rows, row)
		}
		if err := printJSON(cmd, map[string]any{
			"results":   rows,
			"succeeded": success,
			"failed":    failure,
		}); err != nil {
			return err
		}
	} else if !flags.Quiet {
		out := iocontext.GetIO(cmd.Context()).Out
		for _, r := range results {
			if r.Success {
				_, _ = fmt.Fprintf(out, "%s %s\n", action, r.ID)
			} else {
				_, _ = fmt.Fprintf(out, "Failed %s: %v\n", r.ID, r.Error)
			}
		}
		_, _ = fmt.Fprintf(out, "%d succeeded, %d failed\n", success, failure)
	}

	for _, r := range results {
		if !r.Success {
			return &handledError{err: fmt.Errorf("%d of %d operations failed: %w", failure, len(results), r.Error), exitCode: ExitCode(r.Error)}
		}
	}
	return nil
}
