package coast

import (
	"fmt"
)

// ErrBiasRange indicates a segment's delta bias exceeds the 18-bit
// biased field. A bias this large means a single segment spans more
// than one degree, which the accumulator makes geometrically
// impossible; treat it as a hard invariant violation, not bad input.
type ErrBiasRange struct {
	Cell CellID
	Axis string // "lon" or "lat"
	Bias int32
}

func (e *ErrBiasRange) Error() string {
	return fmt.Sprintf("cell %03d/%03d: %s bias %d out of range (max ±%d)",
		e.Cell.Lon, e.Cell.Lat, e.Axis, e.Bias, MaxBias)
}

// ErrSpoolCorrupt indicates a per-cell spool ended before a declared
// segment was fully read. Spools are written and consumed by the same
// run, so this signals internal file corruption.
type ErrSpoolCorrupt struct {
	Path   string
	Reason string
}

func (e *ErrSpoolCorrupt) Error() string {
	return fmt.Sprintf("spool %s corrupt: %s", e.Path, e.Reason)
}

// ErrCorruptSegment indicates a packed segment record that cannot be
// decoded: a width field outside its legal range or a vertex count
// below the two-vertex minimum.
type ErrCorruptSegment struct {
	Reason string
}

func (e *ErrCorruptSegment) Error() string {
	return fmt.Sprintf("corrupt segment record: %s", e.Reason)
}

// ErrOffsetRange indicates the output file outgrew the 32-bit
// directory offset field.
type ErrOffsetRange struct {
	Offset int64
}

func (e *ErrOffsetRange) Error() string {
	return fmt.Sprintf("cell record offset %d exceeds 32-bit directory field", e.Offset)
}
