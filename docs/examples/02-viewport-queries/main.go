package main

import (
	"fmt"
	"log"
	"os"

	ccl "github.com/beetlebugorg/ccl/pkg/v1"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s COASTLINE.ccl", os.Args[0])
	}

	f, err := ccl.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	// Everything visible in a viewport over the Golden Gate.
	viewport := ccl.Bounds{
		MinLon: -122.6, MaxLon: -122.3,
		MinLat: 37.7, MaxLat: 37.9,
	}

	segments, err := f.SegmentsInBounds(viewport)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Segments in viewport: %d\n", len(segments))
	for i, seg := range segments {
		b := seg.Bounds()
		fmt.Printf("  %3d: %d vertices, [%.4f,%.4f] to [%.4f,%.4f]\n",
			i, len(seg.Lon), b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
	}
}
