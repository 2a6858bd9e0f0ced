package coast

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/beetlebugorg/ccl/internal/bitpack"
)

// FileVersion is written, newline-terminated and NUL-padded, into the
// 128-byte version block at the head of every CCL file.
const FileVersion = "ccl - compressed coastline library V1.00"

// Fixed layout of a CCL file: version block, then one directory entry
// per grid cell, then the concatenated packed cell records.
const (
	VersionBlockSize   = 128
	DirectoryEntrySize = 12 // 3 × 32-bit unsigned fields
	DirectorySize      = CellCount * DirectoryEntrySize
	DataStart          = VersionBlockSize + DirectorySize
)

// DirEntry is one backpatched directory slot: where a cell's packed
// segments start and how much they hold. A zero entry marks an empty
// cell.
type DirEntry struct {
	Offset       uint32
	SegmentCount uint32
	VertexCount  uint32
}

// PackDirEntry writes e into a 12-byte buffer in the directory's
// fixed, architecture-independent encoding.
func PackDirEntry(buf []byte, e DirEntry) {
	bitpack.Pack(buf, 0, 32, e.Offset)
	bitpack.Pack(buf, 32, 32, e.SegmentCount)
	bitpack.Pack(buf, 64, 32, e.VertexCount)
}

// UnpackDirEntry reads a directory entry from a 12-byte buffer.
func UnpackDirEntry(buf []byte) DirEntry {
	return DirEntry{
		Offset:       bitpack.Unpack(buf, 0, 32),
		SegmentCount: bitpack.Unpack(buf, 32, 32),
		VertexCount:  bitpack.Unpack(buf, 64, 32),
	}
}

// Writer produces a CCL output file. NewWriter pre-sizes the version
// block and a zeroed directory; WriteCell appends one cell's packed
// segments and backpatches that cell's directory entry in place.
type Writer struct {
	f      *os.File
	path   string
	offset int64 // append position for the next cell record

	cells    int
	segments int64
	vertices int64
}

// NewWriter creates the output file at path and writes the version
// block and placeholder directory.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	version := make([]byte, VersionBlockSize)
	copy(version, FileVersion+"\n")
	if _, err := f.Write(version); err != nil {
		f.Close()
		return nil, fmt.Errorf("write version block: %w", err)
	}

	if _, err := f.Write(make([]byte, DirectorySize)); err != nil {
		f.Close()
		return nil, fmt.Errorf("write directory placeholder: %w", err)
	}

	return &Writer{f: f, path: path, offset: DataStart}, nil
}

// WriteCell packs every spooled segment of cell c in order, appends
// the packed buffers, and backpatches c's directory entry with the
// record offset and counts. Segments of fewer than two vertices are
// skipped; they are never spooled by the accumulator, but the codec
// pass tolerates them independently.
func (w *Writer) WriteCell(c CellID, segs *SpoolReader) error {
	if w.offset > math.MaxUint32 {
		return &ErrOffsetRange{Offset: w.offset}
	}

	entry := DirEntry{Offset: uint32(w.offset)}

	for {
		lon, lat, err := segs.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(lon) < 2 {
			continue
		}

		buf, err := EncodeSegment(c, Segment{Lon: lon, Lat: lat})
		if err != nil {
			return err
		}
		if _, err := w.f.WriteAt(buf, w.offset); err != nil {
			return fmt.Errorf("write cell record: %w", err)
		}
		w.offset += int64(len(buf))
		entry.SegmentCount++
		entry.VertexCount += uint32(len(lon))
	}

	var buf [DirectoryEntrySize]byte
	PackDirEntry(buf[:], entry)
	slot := int64(VersionBlockSize + c.DirectoryIndex()*DirectoryEntrySize)
	if _, err := w.f.WriteAt(buf[:], slot); err != nil {
		return fmt.Errorf("backpatch directory entry: %w", err)
	}

	w.cells++
	w.segments += int64(entry.SegmentCount)
	w.vertices += int64(entry.VertexCount)
	return nil
}

// Close closes the output file.
func (w *Writer) Close() error {
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", w.path, err)
	}
	return nil
}

// Cells returns the number of cells packed (cells whose spool existed,
// including any that packed zero segments).
func (w *Writer) Cells() int { return w.cells }

// Segments returns the total number of segments packed.
func (w *Writer) Segments() int64 { return w.segments }

// Vertices returns the total number of vertices packed.
func (w *Writer) Vertices() int64 { return w.vertices }
