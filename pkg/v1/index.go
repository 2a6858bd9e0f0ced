package ccl

import (
	"github.com/dhconnelly/rtreego"

	"github.com/beetlebugorg/ccl/internal/coast"
)

// segmentIndex provides O(log n) viewport queries over decoded
// segments using an R-tree.
type segmentIndex struct {
	rtree *rtreego.Rtree
}

// indexedSegment wraps a segment for R-tree storage.
type indexedSegment struct {
	segment Segment
	bounds  Bounds
}

// Bounds implements the rtreego.Spatial interface.
func (s *indexedSegment) Bounds() rtreego.Rect {
	point := rtreego.Point{s.bounds.MinLon, s.bounds.MinLat}

	// The R-tree requires non-zero dimensions; a due-north coastline
	// run has a zero-width box, so pad to ~11 meters at the equator.
	const epsilon = 0.0001
	lonLength := s.bounds.MaxLon - s.bounds.MinLon
	latLength := s.bounds.MaxLat - s.bounds.MinLat
	if lonLength < epsilon {
		lonLength = epsilon
	}
	if latLength < epsilon {
		latLength = epsilon
	}

	rect, _ := rtreego.NewRect(point, []float64{lonLength, latLength})
	return rect
}

// SegmentsInBounds returns all coastline segments whose bounding box
// intersects the given bounds.
//
// The first call decodes every non-empty cell that intersects the
// grid and builds an R-tree over segment bounds; subsequent queries
// reuse it. For one-off lookups of a known cell, Cell is cheaper.
//
// Example:
//
//	viewport := ccl.Bounds{
//	    MinLon: -123.0, MaxLon: -122.0,
//	    MinLat: 37.0, MaxLat: 38.0,
//	}
//	segments, err := f.SegmentsInBounds(viewport)
func (f *File) SegmentsInBounds(bounds Bounds) ([]Segment, error) {
	f.indexMu.Lock()
	if f.index == nil {
		index, err := f.buildIndex()
		if err != nil {
			f.indexMu.Unlock()
			return nil, err
		}
		f.index = index
	}
	index := f.index
	f.indexMu.Unlock()

	point := rtreego.Point{bounds.MinLon, bounds.MinLat}
	lengths := []float64{
		bounds.MaxLon - bounds.MinLon,
		bounds.MaxLat - bounds.MinLat,
	}
	const epsilon = 0.0001
	if lengths[0] < epsilon {
		lengths[0] = epsilon
	}
	if lengths[1] < epsilon {
		lengths[1] = epsilon
	}
	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil, err
	}

	spatials := index.rtree.SearchIntersect(queryRect)
	segments := make([]Segment, 0, len(spatials))
	for _, sp := range spatials {
		is := sp.(*indexedSegment)
		if bounds.Intersects(is.bounds) {
			segments = append(segments, is.segment)
		}
	}
	return segments, nil
}

// buildIndex decodes every non-empty cell and indexes its segments.
func (f *File) buildIndex() (*segmentIndex, error) {
	rtree := rtreego.NewTree(2, 25, 50)

	for i, entry := range f.dir {
		if entry.SegmentCount == 0 {
			continue
		}
		id := coast.CellID{Lon: i % coast.GridWidth, Lat: i / coast.GridWidth}
		cell, err := f.cache.get(i, func() (*Cell, error) {
			return f.decodeCell(id)
		})
		if err != nil {
			return nil, err
		}
		for _, seg := range cell.Segments {
			rtree.Insert(&indexedSegment{segment: seg, bounds: seg.Bounds()})
		}
	}

	return &segmentIndex{rtree: rtree}, nil
}
