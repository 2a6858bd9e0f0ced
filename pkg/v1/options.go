package ccl

import (
	"runtime"
)

// BuildOptions controls a conversion run.
type BuildOptions struct {
	// Parallel enables concurrent accumulation. Cells are independent
	// during accumulation, so each worker owns whole cells and every
	// spool keeps a single writer. The packing pass is always
	// sequential; output offsets depend on cell order.
	Parallel bool

	// Workers specifies the number of accumulation goroutines.
	// If 0, defaults to runtime.NumCPU(). Only used when Parallel is true.
	Workers int

	// SpoolDir is where per-cell intermediate files live during the
	// run. If empty, a temporary directory is created and removed.
	// Stale spool files from a previous aborted run are deleted before
	// accumulation begins.
	SpoolDir string

	// Progress is an optional callback for tracking progress through
	// the grid. Called per cell in each pass with (done, total).
	Progress func(done, total int)
}

// DefaultBuildOptions returns build options with sensible defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Parallel: true,
		Workers:  runtime.NumCPU(),
	}
}

// OpenOptions configures reading of a CCL file.
type OpenOptions struct {
	// CacheSize sets the maximum memory for decoded cells, in bytes.
	// 0 means unlimited. Default: 256MB.
	CacheSize int64
}

// DefaultOpenOptions returns open options with defaults.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		CacheSize: 256 * 1024 * 1024,
	}
}
