package ccl

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/beetlebugorg/ccl/internal/coast"
)

// BuildStats summarizes a completed conversion.
type BuildStats struct {
	InputFiles int   // one-degree shapefiles found and read
	Cells      int   // cells packed into the output
	Segments   int64 // total segments packed
	Vertices   int64 // total vertices packed
}

// Build converts a directory of SWBD one-degree shapefiles into a CCL
// file at outputPath.
//
// The conversion runs in two passes. The accumulation pass scans every
// grid cell for an input shapefile (trying the SWBD dataset suffixes
// in priority order), splits its water polygons into boundary-free
// coastline segments and spools them per cell. The packing pass then
// walks the grid in directory order, bit-packs each cell's spooled
// segments into the output and backpatches the cell's directory entry.
//
// Any failure aborts the whole conversion; there is no partial-output
// mode. Cells with no input contribute a zero directory entry.
//
// Example:
//
//	stats, err := ccl.Build("/data/SWBDdata", "coast.ccl", ccl.DefaultBuildOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("packed %d vertices from %d files\n", stats.Vertices, stats.InputFiles)
func Build(inputDir, outputPath string, opts BuildOptions) (BuildStats, error) {
	log := logger()
	var stats BuildStats

	spoolDir := opts.SpoolDir
	if spoolDir == "" {
		tmp, err := os.MkdirTemp("", "ccl-spool-")
		if err != nil {
			return stats, fmt.Errorf("create spool directory: %w", err)
		}
		defer os.RemoveAll(tmp)
		spoolDir = tmp
	} else if err := os.MkdirAll(spoolDir, 0o755); err != nil {
		return stats, fmt.Errorf("create spool directory: %w", err)
	}

	// A crashed run must not leak its spools into this one.
	if err := coast.RemoveStaleSpools(spoolDir); err != nil {
		return stats, err
	}

	log.Info("accumulating", "input", inputDir, "spool", spoolDir)

	var err error
	if opts.Parallel {
		stats.InputFiles, err = accumulateParallel(inputDir, spoolDir, opts.Workers, opts.Progress, log)
	} else {
		stats.InputFiles, err = accumulateSerial(inputDir, spoolDir, opts.Progress, log)
	}
	if err != nil {
		return stats, err
	}

	log.Info("packing", "output", outputPath, "files", stats.InputFiles)

	w, err := coast.NewWriter(outputPath)
	if err != nil {
		return stats, err
	}

	done := 0
	err = coast.Cells(func(c coast.CellID) error {
		done++
		if opts.Progress != nil {
			opts.Progress(done, coast.CellCount)
		}

		sr, err := coast.OpenSpoolReader(spoolDir, c)
		if err != nil {
			return err
		}
		if sr == nil {
			return nil // untouched cell, directory entry stays zero
		}
		if err := w.WriteCell(c, sr); err != nil {
			sr.Close()
			return err
		}
		if err := sr.Close(); err != nil {
			return err
		}
		return sr.Remove()
	})
	if err != nil {
		w.Close()
		return stats, err
	}

	stats.Cells = w.Cells()
	stats.Segments = w.Segments()
	stats.Vertices = w.Vertices()

	if err := w.Close(); err != nil {
		return stats, err
	}

	log.Info("packed", "cells", stats.Cells, "segments", stats.Segments, "vertices", stats.Vertices)
	return stats, nil
}

// accumulateSerial runs the accumulation pass one cell at a time.
func accumulateSerial(inputDir, spoolDir string, progress func(done, total int), log *slog.Logger) (int, error) {
	files := 0
	done := 0
	err := coast.Cells(func(c coast.CellID) error {
		done++
		if progress != nil {
			progress(done, coast.CellCount)
		}
		_, found, err := coast.AccumulateCell(inputDir, c, spoolDir, log)
		if err != nil {
			return err
		}
		if found {
			files++
		}
		return nil
	})
	return files, err
}
