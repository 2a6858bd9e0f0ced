// Package ccl builds and reads compressed coastline (CCL) files.
//
// A CCL file stores global water-body boundaries as delta-coded,
// bit-packed segments organized in a fixed grid of 64,800 one-degree
// cells. The encoding is roughly 10:1 against raw double-precision
// vertices while staying random-access by cell, with about one meter
// of resolution at the equator. The byte layout is fixed by the bit
// packer, so files read identically on every architecture.
//
// # Building
//
// Build converts a directory of SRTM Water Body Data (SWBD) one-degree
// shapefiles into a single CCL file:
//
//	stats, err := ccl.Build("/data/SWBDdata", "coast.ccl", ccl.DefaultBuildOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("packed %d vertices\n", stats.Vertices)
//
// # Reading
//
// Open gives random access to the packed cells:
//
//	f, err := ccl.Open("coast.ccl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	cell, err := f.Cell(-123, 37) // one-degree cell at 37N 123W
//	for _, seg := range cell.Segments {
//	    draw(seg.Lon, seg.Lat)
//	}
//
// SegmentsInBounds answers viewport queries through an R-tree built
// over decoded segment bounds; decoded cells are kept in an LRU cache.
package ccl
