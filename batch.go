package segment

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SegmentAll segments multiple documents in parallel.
// Results are returned in the same order as the input texts.
// maxParallel limits the number of concurrent workers; segmentation is
// CPU-bound, so the number of cores is a sensible ceiling.
// The only error is context cancellation: segmentation itself cannot fail.
func (s *Segmenter) SegmentAll(ctx context.Context, texts []string, maxParallel int) ([][]Chunk, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if maxParallel < 1 {
		maxParallel = 1
	}

	results := make([][]Chunk, len(texts))
	// Semaphore channel for concurrency control.
	sem := make(chan struct{}, maxParallel)

	g, ctx := errgroup.WithContext(ctx)

	for i, text := range texts {
		g.Go(func() error {
			// A context cancelled before this worker starts must win even
			// when a semaphore slot is free.
			if err := ctx.Err(); err != nil {
				return err
			}

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			results[i] = s.Segment(text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
