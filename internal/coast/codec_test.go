package coast

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/beetlebugorg/ccl/internal/bitpack"
)

var testCell = CellID{Lon: 0, Lat: 0}

func roundTrip(t *testing.T, s Segment) Segment {
	t.Helper()
	buf, err := EncodeSegment(testCell, s)
	if err != nil {
		t.Fatalf("EncodeSegment failed: %v", err)
	}
	got, err := DecodeSegment(bitpack.NewReader(bytes.NewReader(buf)))
	if err != nil {
		t.Fatalf("DecodeSegment failed: %v", err)
	}
	return got
}

func TestSegmentRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		seg  Segment
	}{
		{"two vertices", Segment{
			Lon: []int32{100, 200},
			Lat: []int32{50, 75},
		}},
		{"reference scenario", Segment{
			Lon: []int32{0, 1, 50000},
			Lat: []int32{0, 1, 50000},
		}},
		{"negative deltas", Segment{
			Lon: []int32{50000, 49000, 51000, 48000},
			Lat: []int32{90000, 90100, 89000, 92000},
		}},
		{"identical deltas", Segment{
			Lon: []int32{1000, 2000, 3000, 4000},
			Lat: []int32{500, 1000, 1500, 2000},
		}},
		{"constant coordinate", Segment{
			Lon: []int32{7777, 7777, 7777},
			Lat: []int32{100, 200, 300},
		}},
		{"max coordinates", Segment{
			Lon: []int32{35999999, 35999998},
			Lat: []int32{17999999, 17999998},
		}},
		{"max legal bias", Segment{
			Lon: []int32{200000, 200000 - MaxBias},
			Lat: []int32{100, 100 + MaxBias},
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := roundTrip(t, c.seg)
			if diff := cmp.Diff(c.seg, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSegmentRoundTripLong(t *testing.T) {
	// A long wandering segment exercises multi-bit count fields.
	n := 1000
	s := Segment{Lon: make([]int32, n), Lat: make([]int32, n)}
	s.Lon[0] = 18000000
	s.Lat[0] = 9000000
	for i := 1; i < n; i++ {
		step := int32((i%7)*3 - 9) // -9..9, mixed signs
		s.Lon[i] = s.Lon[i-1] + step
		s.Lat[i] = s.Lat[i-1] - step/2
	}

	got := roundTrip(t, s)
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeMinimalWidths(t *testing.T) {
	// The three leading 5-bit fields must hold the exact minimum
	// widths for the segment's vertex count and delta ranges.
	s := Segment{
		Lon: []int32{1000, 1100, 900}, // deltas +100, -200, range 300
		Lat: []int32{500, 500, 500},   // deltas 0, 0, zero range forced to 1
	}
	buf, err := EncodeSegment(testCell, s)
	if err != nil {
		t.Fatalf("EncodeSegment failed: %v", err)
	}

	countBits := bitpack.Unpack(buf, 0, 5)
	lonOffsetBits := bitpack.Unpack(buf, 5, 5)
	latOffsetBits := bitpack.Unpack(buf, 10, 5)

	if countBits != 2 { // n = 3
		t.Errorf("Expected countBits=2, got %d", countBits)
	}
	if lonOffsetBits != 9 { // range 300
		t.Errorf("Expected lonOffsetBits=9, got %d", lonOffsetBits)
	}
	if latOffsetBits != 1 { // zero range forced to 1
		t.Errorf("Expected latOffsetBits=1, got %d", latOffsetBits)
	}
}

func TestEncodeBufferSize(t *testing.T) {
	// ceil(totalBits/8) exactly, no slack bytes.
	s := Segment{
		Lon: []int32{0, 1, 50000},
		Lat: []int32{0, 1, 50000},
	}
	buf, err := EncodeSegment(testCell, s)
	if err != nil {
		t.Fatalf("EncodeSegment failed: %v", err)
	}
	// Delta ranges are 49998 on both axes, so offsets take 16 bits.
	totalBits := 15 + 2 + 18 + 18 + 26 + 25 + 2*(16+16)
	want := (totalBits + 7) / 8
	if len(buf) != want {
		t.Errorf("Expected %d-byte buffer, got %d", want, len(buf))
	}
}

func TestBiasNonNegative(t *testing.T) {
	// By construction every stored offset is delta + bias in
	// [0, range]; decode of arbitrary mixed-sign segments must not
	// rely on sign extension.
	s := Segment{
		Lon: []int32{500000, 400000, 530000, 530001},
		Lat: []int32{200000, 330000, 200000, 200000},
	}
	got := roundTrip(t, s)
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBiasOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		seg  Segment
		axis string
	}{
		{"lon bias too large", Segment{
			Lon: []int32{200000, 200000 - (MaxBias + 1)},
			Lat: []int32{0, 1},
		}, "lon"},
		{"lon bias too small", Segment{
			Lon: []int32{0, MaxBias + 1},
			Lat: []int32{0, 1},
		}, "lon"},
		{"lat bias too large", Segment{
			Lon: []int32{0, 1},
			Lat: []int32{200000, 200000 - (MaxBias + 1)},
		}, "lat"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := EncodeSegment(testCell, c.seg)
			var biasErr *ErrBiasRange
			if !errors.As(err, &biasErr) {
				t.Fatalf("Expected ErrBiasRange, got %v", err)
			}
			if biasErr.Axis != c.axis {
				t.Errorf("Expected axis %q, got %q", c.axis, biasErr.Axis)
			}
		})
	}
}

func TestBiasBoundary(t *testing.T) {
	// A delta of exactly -MaxBias is the largest legal bias and must
	// encode; one more must not. Silent wraparound would corrupt data.
	legal := Segment{
		Lon: []int32{MaxBias, 0},
		Lat: []int32{0, 1},
	}
	if _, err := EncodeSegment(testCell, legal); err != nil {
		t.Errorf("bias of %d should encode, got %v", MaxBias, err)
	}

	illegal := Segment{
		Lon: []int32{MaxBias + 1, 0},
		Lat: []int32{0, 1},
	}
	if _, err := EncodeSegment(testCell, illegal); err == nil {
		t.Errorf("bias of %d should be fatal", MaxBias+1)
	}
}

func TestDecodeConsecutiveSegments(t *testing.T) {
	// Cell records are concatenated byte-aligned buffers; a single
	// reader must decode them back-to-back using only Align between.
	segs := []Segment{
		{Lon: []int32{10, 20, 30}, Lat: []int32{5, 5, 5}},
		{Lon: []int32{100000, 99999}, Lat: []int32{200000, 200100}},
	}

	var stream bytes.Buffer
	for _, s := range segs {
		buf, err := EncodeSegment(testCell, s)
		if err != nil {
			t.Fatalf("EncodeSegment failed: %v", err)
		}
		stream.Write(buf)
	}

	r := bitpack.NewReader(bytes.NewReader(stream.Bytes()))
	for i, want := range segs {
		got, err := DecodeSegment(r)
		if err != nil {
			t.Fatalf("segment %d: DecodeSegment failed: %v", i, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("segment %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestDecodeCorruptSegment(t *testing.T) {
	// A zero width field can never be produced by the encoder.
	buf := make([]byte, 4)
	_, err := DecodeSegment(bitpack.NewReader(bytes.NewReader(buf)))
	var corrupt *ErrCorruptSegment
	if !errors.As(err, &corrupt) {
		t.Errorf("Expected ErrCorruptSegment, got %v", err)
	}
}

func BenchmarkEncodeSegment(b *testing.B) {
	n := 512
	s := Segment{Lon: make([]int32, n), Lat: make([]int32, n)}
	for i := 1; i < n; i++ {
		s.Lon[i] = s.Lon[i-1] + int32(i%13) - 6
		s.Lat[i] = s.Lat[i-1] + int32(i%7) - 3
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := EncodeSegment(testCell, s); err != nil {
			b.Fatal(err)
		}
	}
}
