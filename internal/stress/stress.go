// Package stress provides a shared concurrency test harness: fan out N
// goroutines each performing K operations, and surface the first error any
// of them return.
package stress

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run launches n goroutines, each calling op(workerID) exactly once, and
// returns the first non-nil error any of them produced (errgroup cancels
// the shared context on first error, though op is not required to observe
// it — most of this module's primitives have no cancellable blocking path).
func Run(n int, op func(worker int) error) error {
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return op(i) })
	}
	return g.Wait()
}

// RunOps launches n goroutines, each calling op(workerID, iteration) k
// times in sequence, stopping early on the first error.
func RunOps(n, k int, op func(worker, iter int) error) error {
	return Run(n, func(worker int) error {
		for i := 0; i < k; i++ {
			if err := op(worker, i); err != nil {
				return err
			}
		}
		return nil
	})
}
