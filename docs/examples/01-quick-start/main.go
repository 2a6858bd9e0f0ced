package main

import (
	"fmt"
	"log"
	"os"

	ccl "github.com/beetlebugorg/ccl/pkg/v1"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s SWBD_DIR OUTPUT.ccl", os.Args[0])
	}

	// Convert a directory of SWBD one-degree shapefiles.
	stats, err := ccl.Build(os.Args[1], os.Args[2], ccl.DefaultBuildOptions())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Input files: %d\n", stats.InputFiles)
	fmt.Printf("Cells packed: %d\n", stats.Cells)
	fmt.Printf("Segments: %d\n", stats.Segments)
	fmt.Printf("Vertices: %d\n", stats.Vertices)

	// Read it back.
	f, err := ccl.Open(os.Args[2])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	fmt.Printf("Version: %s\n", f.Version())

	// San Francisco Bay area cell.
	cell, err := f.Cell(-123, 37)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Cell -123/37: %d segments, %d vertices\n",
		len(cell.Segments), cell.VertexCount())
}
