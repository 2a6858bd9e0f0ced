package coast

import (
	"fmt"
	"log/slog"
)

// Accumulator splits the shapes of one cell into contiguous segment
// runs and appends them to the cell's spool.
//
// A new segment starts at the first vertex of a ring, at the first
// vertex of each subsequent ring, and after any vertex discarded as a
// cell-boundary artifact. SWBD shapes are closed water polygons, so a
// vertex sitting on a cell edge belongs to the closure line, not to
// coastline; it is dropped and the chain is broken there. Runs of
// fewer than two vertices are dropped silently.
type Accumulator struct {
	cell   CellID
	spool  *Spool
	segLon []int32
	segLat []int32
	bad    bool // previous vertex was a boundary artifact

	segments int64
	vertices int64
}

// NewAccumulator returns an Accumulator spooling segments of cell into
// spool.
func NewAccumulator(cell CellID, spool *Spool) *Accumulator {
	return &Accumulator{cell: cell, spool: spool}
}

// AddShape walks one shape in ring order, splitting it into segments.
// Shapes of fewer than two vertices are ignored. Any trailing
// in-progress segment is flushed at the end of the shape.
func (a *Accumulator) AddShape(sh Shape) error {
	if len(sh.Lon) < 2 {
		return nil
	}

	ring := 1
	for j := range sh.Lon {
		start := false
		if j == 0 && len(sh.RingStarts) > 0 {
			start = true
		}
		if a.bad {
			start = true
			a.bad = false
		}
		if ring < len(sh.RingStarts) && sh.RingStarts[ring] == j {
			start = true
			ring++
		}

		// Shift into positive space so micro-units stay unsigned.
		lon := sh.Lon[j] + 180.0
		lat := sh.Lat[j] + 90.0

		if a.cell.onBoundary(lon, lat) {
			a.bad = true
			continue
		}

		if lon == 360.0 {
			lon = 359.99999
		}

		if start {
			if err := a.flush(); err != nil {
				return err
			}
		}

		a.segLon = append(a.segLon, micro(lon))
		a.segLat = append(a.segLat, micro(lat))
	}

	return a.flush()
}

// flush spools the in-progress segment if it has at least two vertices
// and resets it either way.
func (a *Accumulator) flush() error {
	if len(a.segLon) > 1 {
		if err := a.spool.Append(a.segLon, a.segLat); err != nil {
			return err
		}
		a.segments++
		a.vertices += int64(len(a.segLon))
	}
	a.segLon = a.segLon[:0]
	a.segLat = a.segLat[:0]
	return nil
}

// Vertices returns the number of vertices spooled so far.
func (a *Accumulator) Vertices() int64 { return a.vertices }

// Segments returns the number of segments spooled so far.
func (a *Accumulator) Segments() int64 { return a.segments }

// AccumulateCell finds the input shapefile for cell c under inputDir
// and spools its segments into spoolDir. It returns the number of
// vertices spooled and whether an input file existed for the cell.
func AccumulateCell(inputDir string, c CellID, spoolDir string, log *slog.Logger) (int64, bool, error) {
	path := FindSWBD(inputDir, c)
	if path == "" {
		return 0, false, nil
	}

	src, err := OpenSWBD(path)
	if err != nil {
		return 0, false, err
	}
	defer src.Close()

	spool, err := OpenSpool(spoolDir, c)
	if err != nil {
		return 0, false, err
	}

	log.Debug("reading", "file", path)

	acc := NewAccumulator(c, spool)
	for {
		sh, ok := src.Next()
		if !ok {
			break
		}
		if err := acc.AddShape(sh); err != nil {
			spool.Close()
			return 0, false, err
		}
	}
	if err := src.Err(); err != nil {
		spool.Close()
		return 0, false, fmt.Errorf("read shapefile %s: %w", path, err)
	}
	if err := spool.Close(); err != nil {
		return 0, false, err
	}

	return acc.Vertices(), true, nil
}
