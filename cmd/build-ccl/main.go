// Command build-ccl converts a directory of SRTM Water Body Data
// (SWBD) one-degree shapefiles into a single compressed coastline
// (.ccl) file.
//
// Usage:
//
//	build-ccl [flags] INPUT_DIR OUTPUT_FILE
//
// If the output file name does not have a .ccl extension it is added.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ccl "github.com/beetlebugorg/ccl/pkg/v1"
)

func main() {
	serial := flag.Bool("serial", false, "accumulate cells sequentially instead of in parallel")
	workers := flag.Int("workers", 0, "number of accumulation workers (0 = number of CPUs)")
	verbose := flag.Bool("v", false, "log per-file progress")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}

	inputDir := flag.Arg(0)
	outputPath := flag.Arg(1)
	if !strings.HasSuffix(outputPath, ".ccl") {
		outputPath += ".ccl"
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	ccl.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts := ccl.DefaultBuildOptions()
	opts.Parallel = !*serial
	if *workers > 0 {
		opts.Workers = *workers
	}

	lastPercent := -1
	opts.Progress = func(done, total int) {
		percent := done * 100 / total
		if percent != lastPercent {
			fmt.Fprintf(os.Stderr, "%03d%%\r", percent)
			lastPercent = percent
		}
	}

	stats, err := ccl.Build(inputDir, outputPath, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nbuild-ccl: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nTotal points packed = %d\n", stats.Vertices)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] INPUT_DIR OUTPUT_FILE\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "If the output file name does not have a .ccl extension it will be added.\n")
	flag.PrintDefaults()
}
