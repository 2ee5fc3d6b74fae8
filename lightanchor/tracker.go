package lightanchor

import (
	"github.com/pkg/errors"
)

// Tracker turns stream of per-frame quads into identified marker detections.
// It is not safe for concurrent use: frames must be processed sequentially.
type Tracker struct {
	opts       Options
	decoder    *Decoder
	candidates []*Candidate
	frame      uint64
}

// NewTrackerDefault creates tracker with default options and given 8-bit codes
func NewTrackerDefault(codes ...uint32) (*Tracker, error) {
	return NewTracker(DefaultOptions(), codes...)
}

// NewTracker creates new instance of Tracker
func NewTracker(opts Options, codes ...uint32) (*Tracker, error) {
	if opts.Tracer == nil {
		opts.Tracer = NopTracer{}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	tracker := &Tracker{
		opts:       opts,
		decoder:    NewDecoder(opts.Matcher),
		candidates: make([]*Candidate, 0),
	}
	for _, code := range codes {
		if err := tracker.AddCode(code); err != nil {
			return nil, err
		}
	}
	return tracker, nil
}

// AddCode registers code to be recognized
func (tracker *Tracker) AddCode(code uint32) error {
	return errors.Wrap(tracker.decoder.AddCode(code), "Can't register code")
}

// Codes returns copy of registered code table
func (tracker *Tracker) Codes() []RegisteredCode {
	return tracker.decoder.Codes()
}

// Options returns tracker's tunables
func (tracker *Tracker) Options() Options {
	return tracker.opts
}

// Frame returns number of frames processed so far
func (tracker *Tracker) Frame() uint64 {
	return tracker.frame
}

// Len returns number of tracked candidates
func (tracker *Tracker) Len() int {
	return len(tracker.candidates)
}

// Candidates returns deep copies of tracked candidates
func (tracker *Tracker) Candidates() []Candidate {
	candidates := make([]Candidate, len(tracker.candidates))
	for i, candidate := range tracker.candidates {
		candidates[i] = candidate.Clone()
	}
	return candidates
}

// Reset drops every candidate. Code table is kept
func (tracker *Tracker) Reset() {
	tracker.candidates = make([]*Candidate, 0)
	tracker.frame = 0
}

// frameEntry is a single member of the next frame's candidate set
type frameEntry struct {
	// nil for quads promoted to fresh candidates
	candidate  *Candidate
	quad       Quad
	ghost      bool
	fresh      bool
	brightness float64
}

// ProcessFrame runs association, brightness sampling and decoding for the current frame.
// Quads are never mutated. When sampling or candidate allocation fails the frame is not applied
// and tracker state is unchanged, so the caller may skip or retry the frame.
// Motion filter failure is reported after the frame is applied.
func (tracker *Tracker) ProcessFrame(quads []Quad, sampler Sampler) ([]Detection, error) {
	if sampler == nil {
		return nil, errors.Wrap(ErrBadOptions, "brightness sampler is not set")
	}
	frame := tracker.frame + 1
	assoc := tracker.associate(quads)

	entries := make([]frameEntry, 0, len(quads)+len(tracker.candidates))
	for j, quad := range quads {
		entry := frameEntry{quad: quad}
		if owner := assoc.owners[j]; owner >= 0 {
			entry.candidate = tracker.candidates[owner]
		}
		entries = append(entries, entry)
	}
	dropped := make([]*Candidate, 0)
	for i, candidate := range tracker.candidates {
		if assoc.matched[i] {
			continue
		}
		// Laxer shape-only continuation for temporarily undetected candidates
		if assoc.shapeAlike[i] && candidate.ttl > 0 {
			entries = append(entries, frameEntry{candidate: candidate, quad: candidate.quad, ghost: true})
			continue
		}
		dropped = append(dropped, candidate)
	}

	for i := range entries {
		brightness, err := sampler.Brightness(entries[i].quad)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't sample brightness on frame %d", frame)
		}
		entries[i].brightness = brightness
	}
	for i := range entries {
		if entries[i].candidate != nil {
			continue
		}
		candidate, err := NewCandidateWithTime(entries[i].quad, tracker.opts.BufferCapacity, tracker.opts.TTLFrames, tracker.opts.Dt)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't create candidate on frame %d", frame)
		}
		entries[i].candidate = candidate
		entries[i].fresh = true
	}

	// Commit
	tracker.frame = frame
	for _, candidate := range dropped {
		tracker.trace(TraceDrop, frame, candidate)
	}
	survivors := make([]*Candidate, 0, len(entries))
	detections := make([]Detection, 0)
	var commitErr error
	for _, entry := range entries {
		candidate := entry.candidate
		switch {
		case entry.fresh:
			tracker.trace(TraceNew, frame, candidate)
		case entry.ghost:
			candidate.ttl--
			tracker.trace(TraceGhost, frame, candidate)
		default:
			if err := candidate.Update(entry.quad, tracker.opts.TTLFrames); err != nil && commitErr == nil {
				commitErr = errors.Wrapf(err, "Can't update candidate %s on frame %d", candidate.id, frame)
			}
		}
		candidate.PredictNextPosition()
		survivors = append(survivors, candidate)

		if tracker.advance(candidate, entry.brightness, frame) {
			detections = append(detections, newDetection(candidate, frame))
		}
	}
	tracker.candidates = survivors
	if commitErr != nil {
		return detections, commitErr
	}
	return detections, nil
}

// advance samples brightness, maybe extracts bit and feeds decoder. Returns true when candidate is identified
func (tracker *Tracker) advance(candidate *Candidate, brightness float64, frame uint64) bool {
	width := tracker.decoder.matcher.Width()
	if _, ok := candidate.sample(brightness, tracker.opts.RangeThreshold, width); !ok {
		return false
	}
	// Fresh real signal resets survivability
	candidate.ttl = tracker.opts.TTLFrames
	tracker.trace(TraceBit, frame, candidate)

	wasLocked := candidate.Locked()
	locked := tracker.decoder.Decode(candidate)
	switch {
	case locked && wasLocked:
		tracker.trace(TraceContinue, frame, candidate)
	case locked:
		tracker.trace(TraceLock, frame, candidate)
	case wasLocked:
		tracker.trace(TraceLost, frame, candidate)
	}
	return locked
}

func (tracker *Tracker) trace(kind TraceEventKind, frame uint64, candidate *Candidate) {
	if _, ok := tracker.opts.Tracer.(NopTracer); ok {
		return
	}
	event := TraceEvent{
		Kind:        kind,
		Frame:       frame,
		CandidateID: candidate.id,
		Code:        candidate.code,
		NextCode:    candidate.nextCode,
		Width:       tracker.decoder.matcher.Width(),
		Confidence:  candidate.confidence,
		TTL:         candidate.ttl,
	}
	if kind == TraceLost {
		event.Brightnesses = candidate.brightnesses.Values()
	}
	tracker.opts.Tracer.Trace(event)
}
