package coast

import (
	"github.com/beetlebugorg/ccl/internal/bitpack"
)

// Wire layout of one packed segment, MSB-first:
//
//	 5 bits              countBits
//	 5 bits              lonOffsetBits
//	 5 bits              latOffsetBits
//	 countBits           vertex count n
//	18 bits              lon bias + 2^17
//	18 bits              lat bias + 2^17
//	26 bits              start lon, micro-units
//	25 bits              start lat, micro-units
//	(n-1) × (lonOffsetBits + latOffsetBits)
//	                     per-vertex (delta + bias) pairs, lon then lat
//
// The three width fields make each segment self-describing; the widths
// are the exact minimum for the values present in that segment. Each
// packed buffer is byte-aligned with zeroed trailing bits.
const (
	widthFieldBits = 5
	biasFieldBits  = 18
	startLonBits   = 26
	startLatBits   = 25

	// MaxBias is the largest legal delta bias magnitude. A bigger bias
	// would mean a segment spanning more than one degree.
	MaxBias = 1<<17 - 1

	// biasOrigin is added to each bias before storage so the 18-bit
	// field is always non-negative.
	biasOrigin = 1 << 17
)

// Segment is a contiguous coastline run in micro-units, the atomic
// unit of CCL storage. Lon and Lat always have the same length, at
// least two.
type Segment struct {
	Lon []int32
	Lat []int32
}

// EncodeSegment bit-packs s into its wire form.
//
// Vertex coordinates after the first are delta-coded against their
// predecessor, biased non-negative by the negated minimum delta, and
// stored at the minimum width for the segment's delta range. Returns
// ErrBiasRange when a bias exceeds the 18-bit biased field; cell is
// only used to report that error.
func EncodeSegment(cell CellID, s Segment) ([]byte, error) {
	n := len(s.Lon)

	minDX, maxDX := int32(99999999), int32(-99999999)
	minDY, maxDY := int32(99999999), int32(-99999999)
	for k := 1; k < n; k++ {
		dx := s.Lon[k] - s.Lon[k-1]
		dy := s.Lat[k] - s.Lat[k-1]
		if dx < minDX {
			minDX = dx
		}
		if dx > maxDX {
			maxDX = dx
		}
		if dy < minDY {
			minDY = dy
		}
		if dy > maxDY {
			maxDY = dy
		}
	}

	biasX := -minDX
	biasY := -minDY
	if biasX > MaxBias || biasX < -MaxBias {
		return nil, &ErrBiasRange{Cell: cell, Axis: "lon", Bias: biasX}
	}
	if biasY > MaxBias || biasY < -MaxBias {
		return nil, &ErrBiasRange{Cell: cell, Axis: "lat", Bias: biasY}
	}

	rangeX := maxDX - minDX
	rangeY := maxDY - minDY

	// A zero range still gets one bit; zero-width fields cannot carry
	// the delta arithmetic.
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	countBits := bitpack.Width(uint32(n))
	lonOffsetBits := bitpack.Width(uint32(rangeX))
	latOffsetBits := bitpack.Width(uint32(rangeY))

	totalBits := 3*widthFieldBits + countBits + 2*biasFieldBits +
		startLonBits + startLatBits + (n-1)*(lonOffsetBits+latOffsetBits)
	buf := make([]byte, (totalBits+7)/8)

	pos := 0
	bitpack.Pack(buf, pos, widthFieldBits, uint32(countBits))
	pos += widthFieldBits
	bitpack.Pack(buf, pos, widthFieldBits, uint32(lonOffsetBits))
	pos += widthFieldBits
	bitpack.Pack(buf, pos, widthFieldBits, uint32(latOffsetBits))
	pos += widthFieldBits
	bitpack.Pack(buf, pos, countBits, uint32(n))
	pos += countBits
	bitpack.Pack(buf, pos, biasFieldBits, uint32(biasX+biasOrigin))
	pos += biasFieldBits
	bitpack.Pack(buf, pos, biasFieldBits, uint32(biasY+biasOrigin))
	pos += biasFieldBits
	bitpack.Pack(buf, pos, startLonBits, uint32(s.Lon[0]))
	pos += startLonBits
	bitpack.Pack(buf, pos, startLatBits, uint32(s.Lat[0]))
	pos += startLatBits

	for k := 1; k < n; k++ {
		xoff := (s.Lon[k] - s.Lon[k-1]) + biasX
		yoff := (s.Lat[k] - s.Lat[k-1]) + biasY
		bitpack.Pack(buf, pos, lonOffsetBits, uint32(xoff))
		pos += lonOffsetBits
		bitpack.Pack(buf, pos, latOffsetBits, uint32(yoff))
		pos += latOffsetBits
	}

	return buf, nil
}

// DecodeSegment reads one packed segment from r, applying the inverse
// of the EncodeSegment transform, and leaves r aligned on the next
// byte boundary ready for the following segment.
func DecodeSegment(r *bitpack.Reader) (Segment, error) {
	countBits, err := readWidth(r, "count")
	if err != nil {
		return Segment{}, err
	}
	lonOffsetBits, err := readWidth(r, "lon offset")
	if err != nil {
		return Segment{}, err
	}
	latOffsetBits, err := readWidth(r, "lat offset")
	if err != nil {
		return Segment{}, err
	}

	n, err := r.ReadBits(countBits)
	if err != nil {
		return Segment{}, err
	}
	if n < 2 {
		return Segment{}, &ErrCorruptSegment{Reason: "vertex count below two"}
	}

	bx, err := r.ReadBits(biasFieldBits)
	if err != nil {
		return Segment{}, err
	}
	by, err := r.ReadBits(biasFieldBits)
	if err != nil {
		return Segment{}, err
	}
	biasX := int32(bx) - biasOrigin
	biasY := int32(by) - biasOrigin

	startLon, err := r.ReadBits(startLonBits)
	if err != nil {
		return Segment{}, err
	}
	startLat, err := r.ReadBits(startLatBits)
	if err != nil {
		return Segment{}, err
	}

	s := Segment{
		Lon: make([]int32, n),
		Lat: make([]int32, n),
	}
	s.Lon[0] = int32(startLon)
	s.Lat[0] = int32(startLat)

	for k := 1; k < int(n); k++ {
		xoff, err := r.ReadBits(lonOffsetBits)
		if err != nil {
			return Segment{}, err
		}
		yoff, err := r.ReadBits(latOffsetBits)
		if err != nil {
			return Segment{}, err
		}
		s.Lon[k] = s.Lon[k-1] + (int32(xoff) - biasX)
		s.Lat[k] = s.Lat[k-1] + (int32(yoff) - biasY)
	}

	r.Align()
	return s, nil
}

// readWidth reads one 5-bit width field and checks its legal range.
func readWidth(r *bitpack.Reader, name string) (int, error) {
	w, err := r.ReadBits(widthFieldBits)
	if err != nil {
		return 0, err
	}
	if w == 0 {
		return 0, &ErrCorruptSegment{Reason: "zero " + name + " width"}
	}
	return int(w), nil
}
