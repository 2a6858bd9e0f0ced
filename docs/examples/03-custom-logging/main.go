package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	ccl "github.com/beetlebugorg/ccl/pkg/v1"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s SWBD_DIR OUTPUT.ccl", os.Args[0])
	}

	// The package is silent by default; route its logs to stderr with
	// per-file detail enabled.
	ccl.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	opts := ccl.DefaultBuildOptions()
	opts.Parallel = false // one file at a time keeps the log readable

	stats, err := ccl.Build(os.Args[1], os.Args[2], opts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("packed %d vertices from %d files\n", stats.Vertices, stats.InputFiles)

	// Typed errors carry the context callers need for recovery.
	f, err := ccl.Open(os.Args[2])
	if err != nil {
		var badFmt *ccl.ErrBadFormat
		if errors.As(err, &badFmt) {
			log.Fatalf("%s is not a coastline file: %s", badFmt.Path, badFmt.Reason)
		}
		log.Fatal(err)
	}
	defer f.Close()

	if _, err := f.Cell(-500, 0); err != nil {
		var cellErr *ccl.ErrCellRange
		if errors.As(err, &cellErr) {
			fmt.Printf("as expected, no cell at %d/%d\n", cellErr.Lon, cellErr.Lat)
		}
	}
}
