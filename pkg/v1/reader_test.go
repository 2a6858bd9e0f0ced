package ccl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/beetlebugorg/ccl/internal/coast"
)

// writeTestFile builds a small CCL file with two populated cells:
// (-122, 37) with two segments and (-180, -90) with one.
func writeTestFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ccl")

	w, err := coast.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	cells := map[coast.CellID][][2][]int32{
		{Lon: 58, Lat: 127}: {
			{{5850000, 5860000, 5870000}, {12750000, 12755000, 12760000}},
			{{5820000, 5825000}, {12790000, 12795000}},
		},
		{Lon: 0, Lat: 0}: {
			{{100, 200}, {300, 400}},
		},
	}
	for c, segs := range cells {
		spool, err := coast.OpenSpool(dir, c)
		if err != nil {
			t.Fatalf("OpenSpool failed: %v", err)
		}
		for _, s := range segs {
			if err := spool.Append(s[0], s[1]); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
		}
		if err := spool.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		sr, err := coast.OpenSpoolReader(dir, c)
		if err != nil {
			t.Fatalf("OpenSpoolReader failed: %v", err)
		}
		if err := w.WriteCell(c, sr); err != nil {
			t.Fatalf("WriteCell failed: %v", err)
		}
		sr.Close()
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

// deg converts shifted micro-units to signed degrees the same way the
// decoder does, so expected values compare exactly.
func deg(m int32, shift float64) float64 {
	return float64(m)/coast.MicroScale - shift
}

func TestOpenVersion(t *testing.T) {
	f, err := Open(writeTestFile(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	if got := f.Version(); got != coast.FileVersion {
		t.Errorf("Expected version %q, got %q", coast.FileVersion, got)
	}
}

func TestCell(t *testing.T) {
	f, err := Open(writeTestFile(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	cell, err := f.Cell(-122, 37)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if cell.Lon != -122 || cell.Lat != 37 {
		t.Errorf("Expected cell corner (-122, 37), got (%d, %d)", cell.Lon, cell.Lat)
	}
	if len(cell.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(cell.Segments))
	}
	if cell.VertexCount() != 5 {
		t.Errorf("Expected 5 vertices, got %d", cell.VertexCount())
	}

	want := Segment{
		Lon: []float64{deg(5850000, 180), deg(5860000, 180), deg(5870000, 180)},
		Lat: []float64{deg(12750000, 90), deg(12755000, 90), deg(12760000, 90)},
	}
	if diff := cmp.Diff(want, cell.Segments[0]); diff != "" {
		t.Errorf("first segment mismatch (-want +got):\n%s", diff)
	}
}

func TestCellEmpty(t *testing.T) {
	f, err := Open(writeTestFile(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	cell, err := f.Cell(0, 0)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if len(cell.Segments) != 0 {
		t.Errorf("Expected no segments in an open-ocean cell, got %d", len(cell.Segments))
	}
}

func TestCellCorner(t *testing.T) {
	// The grid origin at -180/-90 maps to directory index 0.
	f, err := Open(writeTestFile(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	cell, err := f.Cell(-180, -90)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if len(cell.Segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(cell.Segments))
	}
	if got := cell.Segments[0].Lon[0]; got != deg(100, 180) {
		t.Errorf("Expected lon %v, got %v", deg(100, 180), got)
	}
}

func TestCellRange(t *testing.T) {
	f, err := Open(writeTestFile(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	for _, c := range [][2]int{{-181, 0}, {180, 0}, {0, -91}, {0, 90}} {
		_, err := f.Cell(c[0], c[1])
		var rangeErr *ErrCellRange
		if !errors.As(err, &rangeErr) {
			t.Errorf("Cell(%d, %d): expected ErrCellRange, got %v", c[0], c[1], err)
		}
	}
}

func TestOpenShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.ccl")
	if err := os.WriteFile(path, []byte("not a ccl file"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := Open(path)
	var badFmt *ErrBadFormat
	if !errors.As(err, &badFmt) {
		t.Errorf("Expected ErrBadFormat, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.ccl")); err == nil {
		t.Errorf("Expected error for missing file")
	}
}

func TestCellVertexCountMismatch(t *testing.T) {
	path := writeTestFile(t)

	// Corrupt the directory: claim one vertex more than the record holds.
	id := coast.CellID{Lon: 58, Lat: 127}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	slot := coast.VersionBlockSize + id.DirectoryIndex()*coast.DirectoryEntrySize
	entry := coast.UnpackDirEntry(raw[slot:])
	entry.VertexCount++
	var buf [coast.DirectoryEntrySize]byte
	coast.PackDirEntry(buf[:], entry)
	g, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if _, err := g.WriteAt(buf[:], int64(slot)); err != nil {
		t.Fatalf("WriteAt failed: %v", err)
	}
	g.Close()

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	_, err = f.Cell(-122, 37)
	var badFmt *ErrBadFormat
	if !errors.As(err, &badFmt) {
		t.Errorf("Expected ErrBadFormat, got %v", err)
	}
}

func TestCellCached(t *testing.T) {
	// The second request for a cell must come from the cache, not disk.
	f, err := Open(writeTestFile(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	first, err := f.Cell(-122, 37)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}

	// A closed file handle makes any further disk read fail loudly.
	f.f.Close()

	second, err := f.Cell(-122, 37)
	if err != nil {
		t.Fatalf("Cached Cell failed: %v", err)
	}
	if first != second {
		t.Errorf("Expected the cached *Cell instance")
	}
}
