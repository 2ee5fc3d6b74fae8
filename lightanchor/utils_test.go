package lightanchor

import (
	"testing"
)

func TestCyclicRotateLeft(t *testing.T) {
	code := uint32(0b10110100)
	rotated := CyclicRotateLeft(code, 8)
	if rotated != 0b01101001 {
		t.Errorf("Wrong rotation: %08b, expected: %08b", rotated, 0b01101001)
	}
	if CyclicRotateLeft(0, 0) != 0 {
		t.Error("Rotation within zero width should give zero")
	}
}

func TestCyclicRotateLeftRoundTrip(t *testing.T) {
	for _, width := range []uint{8, 16} {
		for code := uint32(0); code < 256; code++ {
			rotated := code
			for i := uint(0); i < width; i++ {
				rotated = CyclicRotateLeft(rotated, width)
			}
			if rotated != code {
				t.Errorf("Width %d: rotating %d times should give %b, got %b", width, width, code, rotated)
			}
		}
	}
}

func TestDoubleBits(t *testing.T) {
	doubled := DoubleBits(0b10110100)
	expected := uint16(0b1100111100110000)
	if doubled != expected {
		t.Errorf("Wrong doubled code: %016b, expected: %016b", doubled, expected)
	}
	for code := 0; code < 256; code++ {
		if undoubled := UndoubleBits(DoubleBits(uint8(code))); undoubled != uint8(code) {
			t.Errorf("Undoubled code %08b should be %08b", undoubled, code)
		}
	}
}

func TestHammingDistance(t *testing.T) {
	if d := HammingDistance(0b10110100, 0b10110100); d != 0 {
		t.Errorf("Expected 0, got %d", d)
	}
	if d := HammingDistance(0b10110100, 0b01001011); d != 8 {
		t.Errorf("Expected 8, got %d", d)
	}
	if d := HammingDistance(0b1, 0b11); d != 1 {
		t.Errorf("Expected 1, got %d", d)
	}
}
