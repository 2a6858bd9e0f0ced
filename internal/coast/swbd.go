package coast

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// datasetSuffixes lists the SWBD dataset-type codes in priority order.
// Each one-degree tile may exist under several codes; the first
// existing candidate wins.
var datasetSuffixes = []byte{'a', 'e', 'f', 'i', 'n', 's'}

// FindSWBD returns the path of the SWBD shapefile for cell c under
// dir, trying the dataset suffixes in priority order. It returns ""
// when no candidate exists; such a cell contributes nothing.
func FindSWBD(dir string, c CellID) string {
	base := c.BaseName()
	for _, ds := range datasetSuffixes {
		path := filepath.Join(dir, fmt.Sprintf("%s%c.shp", base, ds))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// swbdSource reads polygon shapes from a SWBD shapefile.
type swbdSource struct {
	dec *shp.Decoder
}

// OpenSWBD opens a SWBD shapefile as a ShapeSource.
func OpenSWBD(path string) (ShapeSource, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", path, err)
	}
	return &swbdSource{dec: dec}, nil
}

func (s *swbdSource) Next() (Shape, bool) {
	for {
		g, _, more := s.dec.DecodeRowFields()
		if !more {
			return Shape{}, false
		}
		sh := shapeFromGeom(g)
		if len(sh.Lon) == 0 {
			// Row with no polygonal geometry; nothing to segment.
			continue
		}
		return sh, true
	}
}

func (s *swbdSource) Err() error {
	return s.dec.Error()
}

func (s *swbdSource) Close() error {
	s.dec.Close()
	return nil
}

// shapeFromGeom flattens polygon rings into the Shape vertex stream.
// Non-polygonal rows yield an empty Shape.
func shapeFromGeom(g geom.Geom) Shape {
	var sh Shape
	switch t := g.(type) {
	case geom.Polygon:
		appendRings(&sh, t)
	case geom.MultiPolygon:
		for _, p := range t {
			appendRings(&sh, p)
		}
	}
	return sh
}

func appendRings(sh *Shape, p geom.Polygon) {
	for _, ring := range p {
		if len(ring) == 0 {
			continue
		}
		sh.RingStarts = append(sh.RingStarts, len(sh.Lon))
		for _, pt := range ring {
			sh.Lon = append(sh.Lon, pt.X)
			sh.Lat = append(sh.Lat, pt.Y)
		}
	}
}
