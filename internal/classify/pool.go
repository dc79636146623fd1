package classify

import (
	"context"
	"fmt"

	"sudoku-extractor/internal/grid"

	"golang.org/x/sync/errgroup"
)

// ClassifyAll classifies every cell concurrently, bounded by Params.Workers.
// The 81 classifications are mutually independent; results carry their own
// (row, col) identity so completion order never matters. Only context
// cancellation (the whole-image timeout) aborts the batch; per-cell
// failures are already degraded to Ambiguous inside ClassifyCell.
func ClassifyAll(ctx context.Context, cells []grid.Cell, rec Recognizer, p Params) ([]CellResult, error) {
	results := make([]CellResult, len(cells))

	g, ctx := errgroup.WithContext(ctx)
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i := range cells {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ClassifyCell(ctx, cells[i], rec, p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cell classification aborted: %w", err)
	}
	return results, nil
}
