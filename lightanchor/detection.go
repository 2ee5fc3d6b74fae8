package lightanchor

import "github.com/google/uuid"

// Detection is an immutable snapshot of identified candidate.
// It is safe to pass to asynchronous consumers: nothing references tracker's state.
type Detection struct {
	ID uuid.UUID
	// Logical value of matched code
	Code            uint32
	Corners         [4]Point
	Center          Point
	PredictedCenter Point
	Confidence      int
	// Index of the frame detection was produced on
	Frame uint64
	Track []Point
}

func newDetection(candidate *Candidate, frame uint64) Detection {
	track := make([]Point, len(candidate.track))
	copy(track, candidate.track)
	return Detection{
		ID:              candidate.id,
		Code:            candidate.matched.Value,
		Corners:         candidate.quad.Corners,
		Center:          candidate.quad.Center,
		PredictedCenter: candidate.predictedCenter,
		Confidence:      candidate.confidence,
		Frame:           frame,
		Track:           track,
	}
}
