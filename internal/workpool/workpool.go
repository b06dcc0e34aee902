// Package workpool provides a small bounded worker pool. Its one caller
// is the driver's per-item AddPreShuffleData dispatch across a cycle;
// the actions run their bulk (de)serialization and proof-verification
// loops sequentially and do not use it.
package workpool

import (
	"context"
	"sync"
)

// Run executes jobs with at most n running concurrently, blocking
// until every job has finished or ctx is cancelled. A buffered
// channel serves as the semaphore; acquisition blocks, since a
// cycle's pre-shuffle dispatch has no fallback path for a full pool.
//
// The returned slice has one entry per job, in job order; an entry is
// nil if its job succeeded. A cancelled context short-circuits jobs
// that have not yet started, each recording ctx.Err().
func Run(ctx context.Context, n int, jobs []func() error) []error {
	if n <= 0 {
		n = 1
	}
	results := make([]error, len(jobs))
	sem := make(chan struct{}, n)
	var wg sync.WaitGroup

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = err
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, job func() error) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = job()
		}(i, job)
	}

	wg.Wait()
	return results
}
