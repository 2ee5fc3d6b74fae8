package lightanchor

import (
	"github.com/pkg/errors"
)

// AssociationAlgorithm is for algorithm type for associating quads to tracked candidates
type AssociationAlgorithm uint16

const (
	// AssociationGreedy lets each candidate pick its nearest quad; a quad claimed by several candidates goes to the nearest one
	AssociationGreedy AssociationAlgorithm = iota
	// AssociationHungarian uses the Hungarian algorithm (Kuhn-Munkres) over the same accepted pairs
	AssociationHungarian
)

// Options is the set of tracker tunables
type Options struct {
	// Capacity of per-candidate brightness buffer. Default 8
	BufferCapacity int
	// Contrast floor (max-min over buffer) required for bit extraction. Default 15
	RangeThreshold float64
	// Frames candidate may survive without real quad. Default 8
	TTLFrames int
	// Max center distance (in pixels) for association. Default 10
	CenterDistThreshold float64
	// Max shape distance for association. Default 50
	ShapeDistThreshold float64
	// Max shape distance for ghost survival. Default 15
	ShapeTTLThreshold float64
	// Accepted band of area ratio new/old. Default [0.9, 1.1]
	MinAreaRatio float64
	MaxAreaRatio float64
	// Code register strategy. Default is 8-bit exact matching
	Matcher Matcher
	// Default is AssociationGreedy
	Association AssociationAlgorithm
	// Use min(distance to center, distance to predicted center) for association. Default false
	UsePrediction bool
	// Time step for motion filter. Default 1.0
	Dt float64
	// Default is NopTracer
	Tracer Tracer
}

// DefaultOptions returns default tunables
func DefaultOptions() Options {
	return Options{
		BufferCapacity:      8,
		RangeThreshold:      15,
		TTLFrames:           8,
		CenterDistThreshold: 10.0,
		ShapeDistThreshold:  50.0,
		ShapeTTLThreshold:   15.0,
		MinAreaRatio:        0.9,
		MaxAreaRatio:        1.1,
		Matcher:             NewExactMatcher(8),
		Association:         AssociationGreedy,
		UsePrediction:       false,
		Dt:                  1.0,
		Tracer:              NopTracer{},
	}
}

// Validate checks options for consistency
func (opts Options) Validate() error {
	if opts.BufferCapacity <= 0 {
		return errors.Wrapf(ErrBufferCapacity, "capacity %d", opts.BufferCapacity)
	}
	if opts.TTLFrames <= 0 {
		return errors.Wrapf(ErrBadOptions, "TTL frames must be positive, got %d", opts.TTLFrames)
	}
	if opts.RangeThreshold < 0 {
		return errors.Wrapf(ErrBadOptions, "range threshold must be non-negative, got %f", opts.RangeThreshold)
	}
	if opts.CenterDistThreshold <= 0 || opts.ShapeDistThreshold <= 0 || opts.ShapeTTLThreshold <= 0 {
		return errors.Wrapf(ErrBadOptions, "distance thresholds must be positive, got center=%f shape=%f shape_ttl=%f",
			opts.CenterDistThreshold, opts.ShapeDistThreshold, opts.ShapeTTLThreshold)
	}
	if opts.MinAreaRatio <= 0 || opts.MaxAreaRatio < opts.MinAreaRatio {
		return errors.Wrapf(ErrBadOptions, "bad area ratio band [%f, %f]", opts.MinAreaRatio, opts.MaxAreaRatio)
	}
	if opts.Matcher == nil {
		return errors.Wrap(ErrBadOptions, "matcher is not set")
	}
	if width := opts.Matcher.Width(); width == 0 || width > 32 {
		return errors.Wrapf(ErrBadOptions, "code register width must be in [1, 32], got %d", width)
	}
	if opts.Dt <= 0 {
		return errors.Wrapf(ErrBadOptions, "time step must be positive, got %f", opts.Dt)
	}
	switch opts.Association {
	case AssociationGreedy, AssociationHungarian:
	default:
		return errors.Wrapf(ErrBadOptions, "unknown association algorithm %d", opts.Association)
	}
	return nil
}
