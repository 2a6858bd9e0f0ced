// Package coast implements the core of the compressed coastline (CCL)
// converter: per-cell accumulation of polygon vertices into boundary-free
// segments, the per-segment variable-width bit codec, and the two-level
// output file (fixed directory + packed cell records).
package coast

import (
	"fmt"
	"math"
)

const (
	// GridWidth and GridHeight define the fixed one-degree global grid.
	GridWidth  = 360
	GridHeight = 180

	// CellCount is the number of directory entries in a CCL file.
	CellCount = GridWidth * GridHeight

	// MicroScale converts shifted degrees to integer micro-units.
	// One micro-unit is 1e-5 degree, about one meter at the equator.
	MicroScale = 100000
)

// Boundary epsilons in arc-seconds. A vertex this close to a cell edge
// is a polygon-closure artifact, not coastline. The longitude value is
// kept distinct from the latitude value; longitudes get fuzzy away from
// the equator and the original tolerance is preserved literally.
const (
	lonBoundaryEpsilon = 1.00000000000000015
	latBoundaryEpsilon = 1.0
)

// CellID identifies a one-degree grid cell in shifted coordinates:
// Lon in [0,359] and Lat in [0,179], with (0,0) at (-180°,-90°).
type CellID struct {
	Lon int
	Lat int
}

// Valid reports whether c lies on the grid.
func (c CellID) Valid() bool {
	return c.Lon >= 0 && c.Lon < GridWidth && c.Lat >= 0 && c.Lat < GridHeight
}

// DirectoryIndex returns c's slot in the fixed directory, row-major
// with latitude outer: west to east, then south to north, from -90/-180.
func (c CellID) DirectoryIndex() int {
	return c.Lat*GridWidth + c.Lon
}

// SpoolName returns the per-cell spool file name for c.
func (c CellID) SpoolName() string {
	return fmt.Sprintf("cell_%03d_%03d", c.Lon, c.Lat)
}

// BaseName returns the hemisphere-coded SWBD tile name for c, without
// the dataset suffix or extension. Example: cell (58, 127) covers
// -122..-121 by 37..38 and is named "w122n37".
func (c CellID) BaseName() string {
	lon := c.Lon - 180
	lat := c.Lat - 90
	lonHem := byte('e')
	if lon < 0 {
		lonHem = 'w'
		lon = -lon
	}
	latHem := byte('n')
	if lat < 0 {
		latHem = 's'
		lat = -lat
	}
	return fmt.Sprintf("%c%03d%c%02d", lonHem, lon, latHem, lat)
}

// onBoundary reports whether the shifted position (lon, lat degrees)
// lies within the artifact epsilon of any of c's four edges.
func (c CellID) onBoundary(lon, lat float64) bool {
	slon := lon * 3600.0
	slat := lat * 3600.0
	west := float64(c.Lon) * 3600.0
	east := float64(c.Lon+1) * 3600.0
	south := float64(c.Lat) * 3600.0
	north := float64(c.Lat+1) * 3600.0
	return math.Abs(slon-west) < lonBoundaryEpsilon ||
		math.Abs(slon-east) < lonBoundaryEpsilon ||
		math.Abs(slat-south) < latBoundaryEpsilon ||
		math.Abs(slat-north) < latBoundaryEpsilon
}

// micro converts shifted degrees to micro-units, rounding half away
// from zero.
func micro(deg float64) int32 {
	return int32(math.Round(deg * MicroScale))
}

// Cells iterates the grid in directory order, calling fn for each cell.
// Iteration stops early if fn returns a non-nil error.
func Cells(fn func(CellID) error) error {
	for lat := 0; lat < GridHeight; lat++ {
		for lon := 0; lon < GridWidth; lon++ {
			if err := fn(CellID{Lon: lon, Lat: lat}); err != nil {
				return err
			}
		}
	}
	return nil
}
