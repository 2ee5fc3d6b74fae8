package lightanchor

import (
	"testing"

	"github.com/pkg/errors"
)

func newTestCandidate(t *testing.T) *Candidate {
	t.Helper()
	candidate, err := NewCandidate(squareQuad(50, 50, 4), 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	return candidate
}

func TestDecoderAddCode(t *testing.T) {
	decoder := NewDecoder(NewExactMatcher(8))
	if err := decoder.AddCode(0b10110100); err != nil {
		t.Fatal(err)
	}
	err := decoder.AddCode(0b10110100)
	if errors.Cause(err) != ErrCodeCollision {
		t.Errorf("Expected ErrCodeCollision, got %v", err)
	}
	err = decoder.AddCode(0x1ff)
	if errors.Cause(err) != ErrCodeWidth {
		t.Errorf("Expected ErrCodeWidth, got %v", err)
	}
	if err := decoder.AddCode(0b11100010); err != nil {
		t.Fatal(err)
	}
	codes := decoder.Codes()
	if len(codes) != 2 {
		t.Fatalf("Expected 2 codes, got %d", len(codes))
	}
	if codes[1].Value != 0b11100010 || codes[1].Expanded != 0b11100010 {
		t.Errorf("Unexpected registered code %+v", codes[1])
	}
}

func TestDecoderLockAndContinuity(t *testing.T) {
	code := uint32(0b10110100)
	decoder := NewDecoder(NewExactMatcher(8))
	if err := decoder.AddCode(0b00011110); err != nil {
		t.Fatal(err)
	}
	if err := decoder.AddCode(code); err != nil {
		t.Fatal(err)
	}
	candidate := newTestCandidate(t)

	candidate.code = 0b01011010
	if decoder.Decode(candidate) {
		t.Error("Candidate should stay UNLOCKED for unknown code")
	}
	if candidate.GetConfidence() != 0 {
		t.Errorf("Expected confidence 0, got %d", candidate.GetConfidence())
	}

	candidate.code = code
	if !decoder.Decode(candidate) {
		t.Fatal("Candidate should be LOCKED on exact match")
	}
	if matched, ok := candidate.GetMatchedCode(); !ok || matched != code {
		t.Errorf("Expected matched code %08b, got %08b (locked=%v)", code, matched, ok)
	}
	if candidate.GetNextCode() != CyclicRotateLeft(code, 8) {
		t.Errorf("Expected next code %08b, got %08b", CyclicRotateLeft(code, 8), candidate.GetNextCode())
	}

	expected := code
	prevConfidence := candidate.GetConfidence()
	for k := 0; k < 20; k++ {
		expected = CyclicRotateLeft(expected, 8)
		candidate.code = expected
		if !decoder.Decode(candidate) {
			t.Fatalf("Step %d: candidate should stay LOCKED", k)
		}
		if candidate.GetConfidence() <= prevConfidence {
			t.Errorf("Step %d: confidence should strictly increase: %d -> %d", k, prevConfidence, candidate.GetConfidence())
		}
		prevConfidence = candidate.GetConfidence()
	}

	// One incorrect bit
	candidate.code = CyclicRotateLeft(expected, 8) ^ 0x1
	if decoder.Decode(candidate) {
		t.Error("Candidate should lose lock on incorrect bit")
	}
	if candidate.GetConfidence() != 0 || candidate.Locked() {
		t.Errorf("Expected confidence reset to 0, got %d", candidate.GetConfidence())
	}
}

func TestDecoderNoRescanOnLoss(t *testing.T) {
	code := uint32(0b10110100)
	decoder := NewDecoder(NewExactMatcher(8))
	if err := decoder.AddCode(code); err != nil {
		t.Fatal(err)
	}
	candidate := newTestCandidate(t)
	candidate.code = code
	decoder.Decode(candidate)
	// Register holds registered code again, but it is not the predicted one
	candidate.code = code
	if decoder.Decode(candidate) {
		t.Error("Mismatch with prediction should revert to UNLOCKED without re-scan")
	}
	// Next extraction event re-scans table
	if !decoder.Decode(candidate) {
		t.Error("UNLOCKED candidate should lock again on exact match")
	}
}

func TestEvenOddMatcher(t *testing.T) {
	matcher := NewEvenOddMatcher()
	code := uint32(0b10110100)
	expanded := matcher.Expand(code)
	if expanded != uint32(DoubleBits(uint8(code))) {
		t.Errorf("Expected doubled code, got %016b", expanded)
	}
	if !matcher.Equal(expanded, expanded) {
		t.Error("Code should be equal to itself")
	}
	// One-phase misalignment keeps odd positions aligned
	if !matcher.Equal(CyclicRotateLeft(expanded, 16), expanded) {
		t.Error("Phase-shifted doubled code should match")
	}
	if matcher.Equal(matcher.Expand(0b00001111), expanded) {
		t.Error("Different codes should not match")
	}
}

func TestDecoderDoubled(t *testing.T) {
	code := uint32(0b10110100)
	decoder := NewDecoder(NewEvenOddMatcher())
	if err := decoder.AddCode(code); err != nil {
		t.Fatal(err)
	}
	err := decoder.AddCode(0x100)
	if errors.Cause(err) != ErrCodeWidth {
		t.Errorf("Expected ErrCodeWidth, got %v", err)
	}
	candidate := newTestCandidate(t)
	expanded := uint32(DoubleBits(uint8(code)))
	candidate.code = CyclicRotateLeft(expanded, 16)
	if !decoder.Decode(candidate) {
		t.Fatal("Candidate should be LOCKED on phase-shifted doubled code")
	}
	if matched, _ := candidate.GetMatchedCode(); matched != code {
		t.Errorf("Expected logical code %08b, got %08b", code, matched)
	}
	candidate.code = CyclicRotateLeft(candidate.code, 16)
	if !decoder.Decode(candidate) || candidate.GetConfidence() != 2 {
		t.Errorf("Candidate should stay LOCKED with confidence 2, got %d", candidate.GetConfidence())
	}
}
