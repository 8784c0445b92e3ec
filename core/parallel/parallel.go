// Package parallel provides chunked worker helpers for the estimator layer.
// Work is split into contiguous index ranges and results are written by
// index, so callers stay deterministic regardless of scheduling.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items across one worker per available CPU core and runs
// fn on each contiguous (start, end) range.
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWithWorkers(items, runtime.NumCPU(), fn)
}

// ParallelizeWithWorkers splits items across at most workers goroutines.
// workers below 2 means sequential execution.
func ParallelizeWithWorkers(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	if workers < 2 || items == 1 {
		fn(0, items)
		return
	}
	if workers > items {
		workers = items
	}

	// Ceiling division so every item lands in exactly one chunk.
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold runs fn in parallel only when items exceeds the
// threshold; below it the goroutine overhead outweighs the work.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}

	Parallelize(items, fn)
}
