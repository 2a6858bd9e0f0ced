package ccl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/beetlebugorg/ccl/internal/bitpack"
	"github.com/beetlebugorg/ccl/internal/coast"
)

// Segment is one contiguous coastline run decoded from a cell record.
//
// Lon and Lat hold the vertex coordinates in signed decimal degrees
// and always have the same length, at least two.
type Segment struct {
	Lon []float64
	Lat []float64
}

// Bounds returns the segment's bounding box.
func (s Segment) Bounds() Bounds {
	return segmentBounds(s)
}

// Cell holds the decoded segments of one one-degree grid cell.
//
// Lon and Lat are the signed degrees of the cell's southwest corner.
// An empty cell has no segments.
type Cell struct {
	Lon      int
	Lat      int
	Segments []Segment
}

// VertexCount returns the total number of vertices across all segments.
func (c *Cell) VertexCount() int {
	n := 0
	for _, s := range c.Segments {
		n += len(s.Lon)
	}
	return n
}

// File is an open CCL file. Cells are decoded on demand and kept in
// an LRU cache; the file handle is shared, so a File is safe for
// concurrent readers.
type File struct {
	f       *os.File
	path    string
	version string
	dir     []coast.DirEntry
	cache   *cellCache

	indexMu sync.Mutex
	index   *segmentIndex
}

// Open opens a CCL file with default options.
func Open(path string) (*File, error) {
	return OpenWithOptions(path, DefaultOpenOptions())
}

// OpenWithOptions opens a CCL file, reading the version block and the
// full directory up front. The packed cell records stay on disk until
// requested.
func OpenWithOptions(path string, opts OpenOptions) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() < coast.DataStart {
		f.Close()
		return nil, &ErrBadFormat{
			Path:   path,
			Reason: fmt.Sprintf("file shorter than the %d-byte fixed header", coast.DataStart),
		}
	}

	version := make([]byte, coast.VersionBlockSize)
	if _, err := io.ReadFull(f, version); err != nil {
		f.Close()
		return nil, fmt.Errorf("read version block: %w", err)
	}

	rawDir := make([]byte, coast.DirectorySize)
	if _, err := io.ReadFull(f, rawDir); err != nil {
		f.Close()
		return nil, fmt.Errorf("read directory: %w", err)
	}
	dir := make([]coast.DirEntry, coast.CellCount)
	for i := range dir {
		dir[i] = coast.UnpackDirEntry(rawDir[i*coast.DirectoryEntrySize:])
	}

	return &File{
		f:       f,
		path:    path,
		version: trimVersion(version),
		dir:     dir,
		cache:   newCellCache(opts.CacheSize),
	}, nil
}

// trimVersion cuts the version block at its newline or first NUL.
func trimVersion(block []byte) string {
	if i := bytes.IndexAny(block, "\n\x00"); i >= 0 {
		block = block[:i]
	}
	return string(block)
}

// Version returns the file's version string.
func (f *File) Version() string {
	return f.version
}

// Cell decodes and returns the grid cell whose southwest corner is at
// (lon, lat) signed degrees. Empty cells decode to a Cell with no
// segments.
//
// Example:
//
//	cell, err := f.Cell(-123, 37) // 37N..38N, 123W..122W
func (f *File) Cell(lon, lat int) (*Cell, error) {
	id := coast.CellID{Lon: lon + 180, Lat: lat + 90}
	if !id.Valid() {
		return nil, &ErrCellRange{Lon: lon, Lat: lat}
	}
	return f.cache.get(id.DirectoryIndex(), func() (*Cell, error) {
		return f.decodeCell(id)
	})
}

// decodeCell reads one cell's packed record from disk.
func (f *File) decodeCell(id coast.CellID) (*Cell, error) {
	cell := &Cell{Lon: id.Lon - 180, Lat: id.Lat - 90}

	entry := f.dir[id.DirectoryIndex()]
	if entry.SegmentCount == 0 {
		return cell, nil
	}

	// Segments are consecutive and self-describing, so a sequential
	// bit reader over the cell record needs no byte lengths.
	sr := io.NewSectionReader(f.f, int64(entry.Offset), int64(1)<<40)
	r := bitpack.NewReader(bufio.NewReader(sr))

	cell.Segments = make([]Segment, 0, entry.SegmentCount)
	for i := uint32(0); i < entry.SegmentCount; i++ {
		seg, err := coast.DecodeSegment(r)
		if err != nil {
			return nil, fmt.Errorf("cell %d/%d segment %d: %w", cell.Lon, cell.Lat, i, err)
		}
		cell.Segments = append(cell.Segments, segmentToDegrees(seg))
	}

	if n := cell.VertexCount(); uint32(n) != entry.VertexCount {
		return nil, &ErrBadFormat{
			Path: f.path,
			Reason: fmt.Sprintf("cell %d/%d decoded %d vertices, directory says %d",
				cell.Lon, cell.Lat, n, entry.VertexCount),
		}
	}

	return cell, nil
}

// segmentToDegrees converts a micro-unit segment back to signed
// decimal degrees.
func segmentToDegrees(s coast.Segment) Segment {
	out := Segment{
		Lon: make([]float64, len(s.Lon)),
		Lat: make([]float64, len(s.Lat)),
	}
	for i := range s.Lon {
		out.Lon[i] = float64(s.Lon[i])/coast.MicroScale - 180.0
		out.Lat[i] = float64(s.Lat[i])/coast.MicroScale - 90.0
	}
	return out
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}
