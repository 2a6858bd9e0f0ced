package ccl

import (
	"fmt"
)

// ErrBadFormat indicates a file that is not a readable CCL file.
type ErrBadFormat struct {
	Path   string
	Reason string
}

func (e *ErrBadFormat) Error() string {
	return fmt.Sprintf("%s: not a CCL file: %s", e.Path, e.Reason)
}

// ErrCellRange indicates a cell request outside the global grid.
type ErrCellRange struct {
	Lon, Lat int
}

func (e *ErrCellRange) Error() string {
	return fmt.Sprintf("cell %d/%d outside grid (lon must be -180..179, lat -90..89)",
		e.Lon, e.Lat)
}
