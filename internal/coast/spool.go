package coast

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// A spool is the per-cell intermediate store between the accumulation
// pass and the codec pass. Each record is a segment: a uint32 vertex
// count followed by that many (int32 lon, int32 lat) micro-unit pairs,
// little-endian. Spools are written once, read once, then deleted.

// Spool appends segments to one cell's spool file.
type Spool struct {
	path string
	f    *os.File
	w    *bufio.Writer
}

// OpenSpool opens (creating or appending) the spool for cell c in dir.
func OpenSpool(dir string, c CellID) (*Spool, error) {
	path := filepath.Join(dir, c.SpoolName())
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open spool %s: %w", path, err)
	}
	return &Spool{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one segment to the spool.
func (s *Spool) Append(lon, lat []int32) error {
	if err := binary.Write(s.w, binary.LittleEndian, uint32(len(lon))); err != nil {
		return fmt.Errorf("write spool %s: %w", s.path, err)
	}
	for i := range lon {
		if err := binary.Write(s.w, binary.LittleEndian, [2]int32{lon[i], lat[i]}); err != nil {
			return fmt.Errorf("write spool %s: %w", s.path, err)
		}
	}
	return nil
}

// Close flushes and closes the spool file.
func (s *Spool) Close() error {
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return fmt.Errorf("flush spool %s: %w", s.path, err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close spool %s: %w", s.path, err)
	}
	return nil
}

// SpoolReader reads segments back from one cell's spool file.
type SpoolReader struct {
	path string
	f    *os.File
	r    *bufio.Reader
}

// OpenSpoolReader opens the spool for cell c in dir. It returns
// (nil, nil) when the cell has no spool: the cell was never touched
// by the accumulation pass and its directory entry stays zero.
func OpenSpoolReader(dir string, c CellID) (*SpoolReader, error) {
	path := filepath.Join(dir, c.SpoolName())
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open spool %s: %w", path, err)
	}
	return &SpoolReader{path: path, f: f, r: bufio.NewReader(f)}, nil
}

// Next returns the next spooled segment, or io.EOF at a clean end of
// the spool. A spool that ends inside a declared segment yields
// ErrSpoolCorrupt; that should never happen.
func (r *SpoolReader) Next() (lon, lat []int32, err error) {
	var count uint32
	if err := binary.Read(r.r, binary.LittleEndian, &count); err != nil {
		if err == io.EOF {
			return nil, nil, io.EOF
		}
		return nil, nil, &ErrSpoolCorrupt{Path: r.path, Reason: err.Error()}
	}
	lon = make([]int32, count)
	lat = make([]int32, count)
	for i := range lon {
		var pair [2]int32
		if err := binary.Read(r.r, binary.LittleEndian, &pair); err != nil {
			return nil, nil, &ErrSpoolCorrupt{
				Path:   r.path,
				Reason: fmt.Sprintf("segment of %d vertices truncated at vertex %d", count, i),
			}
		}
		lon[i] = pair[0]
		lat[i] = pair[1]
	}
	return lon, lat, nil
}

// Close closes the spool file.
func (r *SpoolReader) Close() error {
	return r.f.Close()
}

// Remove deletes the spool file after it has been consumed.
func (r *SpoolReader) Remove() error {
	return os.Remove(r.path)
}

// RemoveStaleSpools deletes leftover spool files from a previous
// aborted run so they cannot leak into a fresh accumulation pass.
func RemoveStaleSpools(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "cell_[0-9][0-9][0-9]_[0-9][0-9][0-9]"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale spool %s: %w", m, err)
		}
	}
	return nil
}
