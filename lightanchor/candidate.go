package lightanchor

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Candidate is a marker instance tracked across frames, not necessarily identified yet.
// Candidates are owned by Tracker exclusively.
type Candidate struct {
	id              uuid.UUID
	quad            Quad
	predictedCenter Point
	// Running bitstream, the most recent bit is in the low-order position
	code uint32
	// Expected content of code register after next bit
	nextCode uint32
	// Code which candidate was locked on
	matched RegisteredCode
	// Zero means UNLOCKED
	confidence int
	// Frames candidate may survive without real quad
	ttl            int
	brightnesses   *BrightnessBuffer
	lastBrightness float64
	track          []Point
	maxTrackLen    int
	tracker        *kalman_filter.Kalman2D
}

// NewCandidateWithTime creates candidate for the given quad with empty code register and brightness buffer
func NewCandidateWithTime(quad Quad, bufferCapacity int, ttl int, dt float64) (*Candidate, error) {
	buf, err := NewBrightnessBuffer(bufferCapacity)
	if err != nil {
		return nil, errors.Wrap(err, "Can't allocate brightness buffer")
	}

	/* Kalman filter props */
	ux := 1.0
	uy := 1.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	kf := kalman_filter.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(quad.Center.X, quad.Center.Y))
	candidate := Candidate{
		id:              uuid.New(),
		quad:            quad,
		predictedCenter: quad.Center,
		ttl:             ttl,
		brightnesses:    buf,
		track:           make([]Point, 0, 150),
		maxTrackLen:     150,
		tracker:         kf,
	}
	candidate.track = append(candidate.track, quad.Center)
	return &candidate, nil
}

// NewCandidate creates candidate with time step 1.0
func NewCandidate(quad Quad, bufferCapacity int, ttl int) (*Candidate, error) {
	return NewCandidateWithTime(quad, bufferCapacity, ttl, 1.0)
}

// GetID returns candidate's identifier
func (c *Candidate) GetID() uuid.UUID {
	return c.id
}

// GetQuad returns current footprint
func (c *Candidate) GetQuad() Quad {
	return c.quad
}

// GetCenter returns current center
func (c *Candidate) GetCenter() Point {
	return c.quad.Center
}

// GetPredictedCenter returns center predicted by motion filter for the next frame
func (c *Candidate) GetPredictedCenter() Point {
	return c.predictedCenter
}

// GetCode returns current content of code register
func (c *Candidate) GetCode() uint32 {
	return c.code
}

// GetNextCode returns predicted next content of code register
func (c *Candidate) GetNextCode() uint32 {
	return c.nextCode
}

// GetMatchedCode returns logical value of the code candidate is locked on. The second value is false when UNLOCKED
func (c *Candidate) GetMatchedCode() (uint32, bool) {
	return c.matched.Value, c.confidence > 0
}

// GetConfidence returns lock counter
func (c *Candidate) GetConfidence() int {
	return c.confidence
}

// Locked reports whether decoder is locked on some code
func (c *Candidate) Locked() bool {
	return c.confidence > 0
}

// GetTTL returns number of frames candidate may still survive without matching quad
func (c *Candidate) GetTTL() int {
	return c.ttl
}

// GetBrightnesses returns brightness samples from the oldest to the most recent
func (c *Candidate) GetBrightnesses() []float64 {
	return c.brightnesses.Values()
}

// GetLastBrightness returns the most recent brightness sample
func (c *Candidate) GetLastBrightness() float64 {
	return c.lastBrightness
}

// GetTrack returns candidate's track. Be careful: this is not copy of track, but reference to it
func (c *Candidate) GetTrack() []Point {
	return c.track
}

// PredictNextPosition executes Kalman filter's first step and stores predicted center for the next frame
func (c *Candidate) PredictNextPosition() {
	c.tracker.Predict()
	stateX, stateY := c.tracker.GetState()
	c.predictedCenter.X = stateX
	c.predictedCenter.Y = stateY
}

// Update replaces geometry with the matched quad. Code register, prediction, lock counter and brightness buffer are kept
func (c *Candidate) Update(quad Quad, ttl int) error {
	c.quad = quad
	c.ttl = ttl
	c.track = append(c.track, quad.Center)
	if len(c.track) > c.maxTrackLen {
		c.track = c.track[1:]
	}
	// Smoothed center is used for prediction only
	err := c.tracker.Update(quad.Center.X, quad.Center.Y)
	if err != nil {
		return errors.Wrap(err, "Can't update candidate motion filter")
	}
	return nil
}

// sample pushes brightness into buffer and extracts new bit if buffer is full and contrast is sufficient.
// Returns extracted bit and whether extraction happened.
func (c *Candidate) sample(brightness float64, rangeThres float64, width uint) (uint32, bool) {
	c.lastBrightness = brightness
	c.brightnesses.Add(brightness)
	max, min, mean := c.brightnesses.Stats()
	if !c.brightnesses.Full() || (max-min) <= rangeThres {
		return 0, false
	}
	bit := uint32(0)
	if brightness > mean {
		bit = 1
	}
	c.code = ((c.code << 1) | bit) & widthMask(width)
	return bit, true
}

// Clone returns deep copy of candidate. Motion filter is not copied
func (c *Candidate) Clone() Candidate {
	track := make([]Point, len(c.track))
	copy(track, c.track)
	cp := *c
	cp.brightnesses = c.brightnesses.Clone()
	cp.track = track
	cp.tracker = nil
	return cp
}
