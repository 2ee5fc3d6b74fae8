package lightanchor

import (
	"github.com/pkg/errors"
)

// RegisteredCode is code known to decoder: logical value and its representation in code register
type RegisteredCode struct {
	Value    uint32
	Expanded uint32
}

// Decoder matches candidate's bitstream against code table and keeps track of cyclic continuity.
// Candidate is UNLOCKED while its confidence is zero and LOCKED otherwise.
type Decoder struct {
	matcher Matcher
	codes   []RegisteredCode
}

// NewDecoder creates decoder with given matcher strategy
func NewDecoder(matcher Matcher) *Decoder {
	return &Decoder{
		matcher: matcher,
		codes:   make([]RegisteredCode, 0),
	}
}

// Matcher returns matcher strategy used by decoder
func (decoder *Decoder) Matcher() Matcher {
	return decoder.matcher
}

// AddCode registers new code. Codes wider than matcher's logical width and codes
// which matcher can't distinguish from already registered ones are rejected.
func (decoder *Decoder) AddCode(code uint32) error {
	if code&^widthMask(decoder.matcher.LogicalWidth()) != 0 {
		return errors.Wrapf(ErrCodeWidth, "code %#x, width %d", code, decoder.matcher.LogicalWidth())
	}
	expanded := decoder.matcher.Expand(code)
	for _, registered := range decoder.codes {
		if decoder.matcher.Equal(expanded, registered.Expanded) {
			return errors.Wrapf(ErrCodeCollision, "code %#x vs registered %#x", code, registered.Value)
		}
	}
	decoder.codes = append(decoder.codes, RegisteredCode{
		Value:    code,
		Expanded: expanded,
	})
	return nil
}

// Codes returns copy of code table
func (decoder *Decoder) Codes() []RegisteredCode {
	codes := make([]RegisteredCode, len(decoder.codes))
	copy(codes, decoder.codes)
	return codes
}

// Decode runs one step of state machine for candidate which just received new bit.
// Returns true if candidate is LOCKED after the call.
func (decoder *Decoder) Decode(candidate *Candidate) bool {
	width := decoder.matcher.Width()
	if candidate.confidence > 0 {
		// Continuity check: after one more transmitted bit register must hold previous code rotated by one
		if decoder.matcher.Equal(candidate.code, candidate.nextCode) {
			candidate.nextCode = CyclicRotateLeft(candidate.nextCode, width)
			candidate.confidence++
			return true
		}
		candidate.nextCode = 0
		candidate.confidence = 0
		return false
	}
	for _, registered := range decoder.codes {
		if decoder.matcher.Equal(candidate.code, registered.Expanded) {
			candidate.matched = registered
			candidate.nextCode = CyclicRotateLeft(registered.Expanded, width)
			candidate.confidence = 1
			return true
		}
	}
	return false
}
