// Package bitpack implements MSB-first bit packing on byte buffers.
//
// Values are stored most-significant-bit first: bit 0 of the stream is
// bit 7 of the first byte. The layout is therefore identical on every
// architecture, which is what makes the CCL file format byte-order
// independent.
package bitpack

import (
	"io"
	"math/bits"
)

// Width returns the minimum number of bits needed to represent max as
// an unsigned value. Width(0) == 1: a zero-width field cannot be
// stored, so a field whose only value is zero still gets one bit.
func Width(max uint32) int {
	if max == 0 {
		return 1
	}
	return bits.Len32(max)
}

// Pack stores the low width bits of value into buf starting at bit
// position pos. Bits beyond the buffer cause a panic; callers size
// buffers from the same width arithmetic used to fill them.
func Pack(buf []byte, pos, width int, value uint32) {
	for i := width - 1; i >= 0; i-- {
		if value>>uint(i)&1 == 1 {
			buf[pos>>3] |= 1 << uint(7-pos&7)
		} else {
			buf[pos>>3] &^= 1 << uint(7-pos&7)
		}
		pos++
	}
}

// Unpack extracts a width-bit unsigned value from buf starting at bit
// position pos. Inverse of Pack.
func Unpack(buf []byte, pos, width int) uint32 {
	var v uint32
	for i := 0; i < width; i++ {
		v <<= 1
		v |= uint32(buf[pos>>3]>>uint(7-pos&7)) & 1
		pos++
	}
	return v
}

// Reader decodes MSB-first bit fields from a byte stream.
//
// It consumes bytes lazily, which lets a caller decode consecutive
// variable-size records without knowing their byte lengths up front.
// Align discards the remainder of the current byte; records that are
// written byte-aligned are read back by aligning between them.
type Reader struct {
	src  io.ByteReader
	cur  byte
	left int // unread bits remaining in cur
}

// NewReader returns a Reader decoding from src.
func NewReader(src io.ByteReader) *Reader {
	return &Reader{src: src}
}

// ReadBits returns the next width-bit unsigned value from the stream.
// A short stream yields io.ErrUnexpectedEOF, even at a byte boundary:
// a caller asking for bits has already decoded a field count that
// promised them.
func (r *Reader) ReadBits(width int) (uint32, error) {
	var v uint32
	for i := 0; i < width; i++ {
		if r.left == 0 {
			b, err := r.src.ReadByte()
			if err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				return 0, err
			}
			r.cur = b
			r.left = 8
		}
		v <<= 1
		v |= uint32(r.cur>>uint(r.left-1)) & 1
		r.left--
	}
	return v, nil
}

// Align discards any partially consumed byte so that the next ReadBits
// starts on a byte boundary.
func (r *Reader) Align() {
	r.left = 0
}
