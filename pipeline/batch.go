package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GenerateAll runs reqs on up to workers goroutines (GOMAXPROCS when
// workers <= 0). Results are index-aligned with reqs. The first failure
// cancels outstanding requests and is returned annotated with its index.
func (g *Generator) GenerateAll(ctx context.Context, reqs []Request, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]*Result, len(reqs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, req := range reqs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := g.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	g.logger().Debug("batch complete", zap.Int("images", len(reqs)), zap.Int("workers", workers))
	return out, nil
}
