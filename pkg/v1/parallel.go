package ccl

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/beetlebugorg/ccl/internal/coast"
)

// accumulateParallel runs the accumulation pass with a worker pool.
//
// Each worker owns whole cells, so every per-cell spool has exactly
// one writer. Any error aborts the run: remaining cells are skipped
// and the first error is returned once the pool drains.
func accumulateParallel(inputDir, spoolDir string, workers int, progress func(done, total int), log *slog.Logger) (int, error) {
	if workers <= 0 {
		workers = 1
	}

	type result struct {
		found bool
		err   error
	}

	jobs := make(chan coast.CellID, workers)
	results := make(chan result, workers)

	var aborted atomic.Bool

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				if aborted.Load() {
					results <- result{}
					continue
				}
				_, found, err := coast.AccumulateCell(inputDir, c, spoolDir, log)
				results <- result{found: found, err: err}
			}
		}()
	}

	go func() {
		coast.Cells(func(c coast.CellID) error {
			jobs <- c
			return nil
		})
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	files := 0
	done := 0
	var firstErr error
	for r := range results {
		done++
		if progress != nil {
			progress(done, coast.CellCount)
		}
		if r.err != nil && firstErr == nil {
			firstErr = r.err
			aborted.Store(true)
		}
		if r.found {
			files++
		}
	}

	return files, firstErr
}
