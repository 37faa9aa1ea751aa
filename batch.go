package htmlinline

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent documents. Each document already fans out
	// one goroutine per element.
	MaxPoolSize = 16
)

// BatchResult holds the outcome of one document in a batch.
type BatchResult struct {
	Input    Input
	Result   *Result
	Err      error
	Duration time.Duration
}

// InlineBatch runs inputs with at most workers documents in flight and
// returns one BatchResult per input, in input order. A failing document does
// not stop the others; inputs not started before ctx is cancelled report
// ctx.Err().
func (in *Inliner) InlineBatch(ctx context.Context, inputs []Input, workers int) []BatchResult {
	if len(inputs) == 0 {
		return nil
	}

	concurrency := ResolvePoolSize(workers)
	if concurrency > len(inputs) {
		concurrency = len(inputs)
	}

	results := make([]BatchResult, len(inputs))
	var wg sync.WaitGroup
	jobs := make(chan int, len(inputs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = BatchResult{Input: inputs[idx], Err: ctx.Err()}
					continue
				}
				start := time.Now()
				res, err := in.Inline(ctx, inputs[idx])
				results[idx] = BatchResult{
					Input:    inputs[idx],
					Result:   res,
					Err:      err,
					Duration: time.Since(start),
				}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// ResolvePoolSize determines the number of batch workers.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0)
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
