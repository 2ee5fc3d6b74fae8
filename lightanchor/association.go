package lightanchor

import (
	"math"

	"github.com/arthurkushman/go-hungarian"
)

// pairMetrics is comparison of tracked candidate with provisional quad
type pairMetrics struct {
	centerDist float64
	shapeDist  float64
	// Area ratio falls into accepted band
	comparable bool
}

// claim is the best-so-far owner of provisional quad
type claim struct {
	owner int
	dist  float64
}

// association is the result of matching provisional quads with tracked candidates for a single frame
type association struct {
	// Index of candidate owning quad, -1 for unclaimed quads
	owners []int
	// Whether candidate observed shape distance under ghost threshold against some comparable quad
	shapeAlike []bool
	// Whether candidate owns some quad
	matched []bool
}

func (tracker *Tracker) measure(candidate *Candidate, quad Quad) pairMetrics {
	if candidate.quad.Area <= 0 {
		return pairMetrics{}
	}
	// Reject quads with a high change in area
	areaFact := quad.Area / candidate.quad.Area
	if areaFact < tracker.opts.MinAreaRatio || areaFact > tracker.opts.MaxAreaRatio {
		return pairMetrics{}
	}
	dist := euclideanDistance(candidate.quad.Center, quad.Center)
	if tracker.opts.UsePrediction {
		dist = math.Min(dist, euclideanDistance(candidate.predictedCenter, quad.Center))
	}
	return pairMetrics{
		centerDist: dist,
		shapeDist:  math.Abs(quad.shapeRadius() - candidate.quad.shapeRadius()),
		comparable: true,
	}
}

func (tracker *Tracker) accepted(m pairMetrics) bool {
	return m.comparable && m.centerDist < tracker.opts.CenterDistThreshold && m.shapeDist < tracker.opts.ShapeDistThreshold
}

// associate matches provisional quads against tracked candidates. Nothing is mutated
func (tracker *Tracker) associate(quads []Quad) association {
	result := association{
		owners:     make([]int, len(quads)),
		shapeAlike: make([]bool, len(tracker.candidates)),
		matched:    make([]bool, len(tracker.candidates)),
	}
	for j := range result.owners {
		result.owners[j] = -1
	}
	if len(tracker.candidates) == 0 || len(quads) == 0 {
		return result
	}

	metrics := make([][]pairMetrics, len(tracker.candidates))
	for i, candidate := range tracker.candidates {
		row := make([]pairMetrics, len(quads))
		for j := range quads {
			m := tracker.measure(candidate, quads[j])
			if m.comparable && m.shapeDist < tracker.opts.ShapeTTLThreshold {
				result.shapeAlike[i] = true
			}
			row[j] = m
		}
		metrics[i] = row
	}

	switch tracker.opts.Association {
	case AssociationHungarian:
		tracker.assignHungarian(metrics, result.owners)
	default:
		tracker.assignGreedy(metrics, result.owners)
	}

	for _, owner := range result.owners {
		if owner >= 0 {
			result.matched[owner] = true
		}
	}
	return result
}

// assignGreedy lets every candidate pick its closest accepted quad.
// Quad picked by several candidates is awarded to the one with strictly smallest center distance.
func (tracker *Tracker) assignGreedy(metrics [][]pairMetrics, owners []int) {
	claims := make([]claim, len(owners))
	for j := range claims {
		claims[j] = claim{owner: -1, dist: math.MaxFloat64}
	}
	for i, row := range metrics {
		best := -1
		minDist := math.MaxFloat64
		for j, m := range row {
			if tracker.accepted(m) && m.centerDist < minDist {
				minDist = m.centerDist
				best = j
			}
		}
		if best == -1 {
			continue
		}
		if minDist < claims[best].dist {
			claims[best] = claim{owner: i, dist: minDist}
		}
	}
	for j := range claims {
		owners[j] = claims[j].owner
	}
}

// assignHungarian finds assignment maximizing total closeness over accepted pairs
func (tracker *Tracker) assignHungarian(metrics [][]pairMetrics, owners []int) {
	numCandidates := len(metrics)
	numQuads := len(owners)
	paddedSize := maxInt(numCandidates, numQuads)
	// Padding is done with 0.0 values (not accepted)
	scores := make([][]float64, paddedSize)
	for i := range scores {
		scores[i] = make([]float64, paddedSize)
	}
	anyAccepted := false
	for i, row := range metrics {
		for j, m := range row {
			if tracker.accepted(m) {
				// Strictly positive for every accepted pair
				scores[i][j] = tracker.opts.CenterDistThreshold - m.centerDist
				anyAccepted = true
			}
		}
	}
	if !anyAccepted {
		return
	}
	assignments := hungarian.SolveMax(scores)
	for row, rowMap := range assignments {
		for col := range rowMap {
			if row < numCandidates && col < numQuads && scores[row][col] > 0 {
				owners[col] = row
			}
		}
	}
}
