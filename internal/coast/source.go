package coast

// Shape is one polygon from the input source: a flat vertex stream in
// ring order plus the index of each ring's first vertex. Coordinates
// are signed decimal degrees.
type Shape struct {
	Lon        []float64
	Lat        []float64
	RingStarts []int
}

// ShapeSource yields the polygon shapes belonging to one grid cell.
//
// Next returns the next shape and true, or a zero Shape and false when
// the source is exhausted. After Next reports false, Err returns the
// first read error, if any.
type ShapeSource interface {
	Next() (Shape, bool)
	Err() error
	Close() error
}
