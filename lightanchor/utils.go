package lightanchor

import "math/bits"

// widthMask returns mask covering the lowest width bits
func widthMask(width uint) uint32 {
	if width >= 32 {
		return ^uint32(0)
	}
	return (uint32(1) << width) - 1
}

// CyclicRotateLeft rotates bits left by one position within the given width.
// The highest bit wraps around into the lowest position.
func CyclicRotateLeft(code uint32, width uint) uint32 {
	if width == 0 {
		return 0
	}
	code &= widthMask(width)
	return ((code << 1) | ((code >> (width - 1)) & 0x1)) & widthMask(width)
}

// DoubleBits expands every logical bit of 8-bit code into two adjacent physical bits
func DoubleBits(code uint8) uint16 {
	res := uint16(0)
	for i := 0; i < 8; i++ {
		bit := uint16(code & 0x1)
		res |= (bit<<1 | bit) << (2 * i)
		code >>= 1
	}
	return res
}

// UndoubleBits collapses doubled 16-bit code back to 8 logical bits (even positions are used)
func UndoubleBits(code uint16) uint8 {
	res := uint8(0)
	for i := 0; i < 8; i++ {
		res |= uint8((code>>(2*i))&0x1) << i
	}
	return res
}

// HammingDistance returns number of differing bits
func HammingDistance(a, b uint32) int {
	return bits.OnesCount32(a ^ b)
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
