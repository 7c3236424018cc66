// Package rowpool runs row-band work in parallel.
//
// Convolution and morphology compute each output pixel from a bounded input
// neighbourhood, so disjoint bands of output rows can be filled concurrently.
package rowpool

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MinRowsPerBand keeps bands large enough that scheduling stays cheap.
const MinRowsPerBand = 16

// ParallelFor splits [0, n) into contiguous chunks and calls fn(start, end)
// for each, returning once all calls are done. Small n runs inline.
func ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(runtime.GOMAXPROCS(0), (n+MinRowsPerBand-1)/MinRowsPerBand)
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		start, end := start, min(start+chunkSize, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
