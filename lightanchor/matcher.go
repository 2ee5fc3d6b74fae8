package lightanchor

// Matcher is the strategy for comparing code register against known or predicted codes.
type Matcher interface {
	// LogicalWidth is the number of bits in registered code value
	LogicalWidth() uint
	// Width is the number of physical bits in the code register
	Width() uint
	// Expand converts registered code into representation stored in the code register
	Expand(code uint32) uint32
	// Equal reports whether code register content matches expected physical code
	Equal(register, expected uint32) bool
}

// ExactMatcher requires bit-exact equality of W-bit codes
type ExactMatcher struct {
	width uint
}

// NewExactMatcher creates exact matcher for codes of given width (in bits)
func NewExactMatcher(width uint) ExactMatcher {
	return ExactMatcher{width: width}
}

// LogicalWidth returns code width
func (m ExactMatcher) LogicalWidth() uint {
	return m.width
}

// Width returns code width
func (m ExactMatcher) Width() uint {
	return m.width
}

// Expand returns code as is
func (m ExactMatcher) Expand(code uint32) uint32 {
	return code & widthMask(m.width)
}

// Equal reports exact equality
func (m ExactMatcher) Equal(register, expected uint32) bool {
	mask := widthMask(m.width)
	return register&mask == expected&mask
}

// EvenOddMatcher works with doubled encoding: every logical bit of 8-bit code occupies two physical positions.
// Two 16-bit codes are considered equal if either their even-indexed or odd-indexed bits agree.
// This tolerates one-phase misalignment between blinking clock and camera sampling clock.
type EvenOddMatcher struct{}

const (
	evenMask = 0xaaaa
	oddMask  = 0x5555
)

// NewEvenOddMatcher creates matcher for doubled 8-bit codes
func NewEvenOddMatcher() EvenOddMatcher {
	return EvenOddMatcher{}
}

// LogicalWidth returns 8
func (m EvenOddMatcher) LogicalWidth() uint {
	return 8
}

// Width returns 16
func (m EvenOddMatcher) Width() uint {
	return 16
}

// Expand doubles code bits
func (m EvenOddMatcher) Expand(code uint32) uint32 {
	return uint32(DoubleBits(uint8(code)))
}

// Equal compares even and odd bit subsets
func (m EvenOddMatcher) Equal(register, expected uint32) bool {
	return (register&evenMask == expected&evenMask) || (register&oddMask == expected&oddMask)
}
