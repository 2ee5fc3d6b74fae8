package lightanchor

import (
	"image"
	"math"
)

type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

// Quad is the footprint of a bright region reported by the geometry stage for a single frame.
// Corners are expected in winding order.
type Quad struct {
	Corners [4]Point
	Center  Point
	Area    float64
}

// NewQuad creates quad from its corners. Center is the intersection of diagonals
// (falls back to the mean of corners for degenerate diagonals), area is evaluated via shoelace formula.
func NewQuad(corners [4]Point) Quad {
	return Quad{
		Corners: corners,
		Center:  diagonalsIntersection(corners),
		Area:    shoelaceArea(corners),
	}
}

// NewQuadFrom creates quad with explicitly provided center and area (e.g. already computed by detector)
func NewQuadFrom(corners [4]Point, center Point, area float64) Quad {
	return Quad{
		Corners: corners,
		Center:  center,
		Area:    area,
	}
}

// Bounds returns integer bounding rectangle of the quad
func (q Quad) Bounds() image.Rectangle {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range q.Corners {
		minX = minFloat64(minX, p.X)
		minY = minFloat64(minY, p.Y)
		maxX = maxFloat64(maxX, p.X)
		maxY = maxFloat64(maxY, p.Y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

// Contains reports whether point lies inside the quad (even-odd rule)
func (q Quad) Contains(p Point) bool {
	inside := false
	j := len(q.Corners) - 1
	for i := range q.Corners {
		a, b := q.Corners[i], q.Corners[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// shapeRadius is the average distance from each corner to the center.
// Not scale invariant.
func (q Quad) shapeRadius() float64 {
	sum := 0.0
	for _, p := range q.Corners {
		sum += euclideanDistance(p, q.Center)
	}
	return sum / float64(len(q.Corners))
}

func diagonalsIntersection(c [4]Point) Point {
	// Diagonals are c0-c2 and c1-c3
	d1x, d1y := c[2].X-c[0].X, c[2].Y-c[0].Y
	d2x, d2y := c[3].X-c[1].X, c[3].Y-c[1].Y
	det := d1x*d2y - d1y*d2x
	if math.Abs(det) < 1e-9 {
		return Point{
			X: (c[0].X + c[1].X + c[2].X + c[3].X) / 4.0,
			Y: (c[0].Y + c[1].Y + c[2].Y + c[3].Y) / 4.0,
		}
	}
	t := ((c[1].X-c[0].X)*d2y - (c[1].Y-c[0].Y)*d2x) / det
	return Point{
		X: c[0].X + t*d1x,
		Y: c[0].Y + t*d1y,
	}
}

func shoelaceArea(c [4]Point) float64 {
	sum := 0.0
	for i := range c {
		j := (i + 1) % len(c)
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return math.Abs(sum) / 2.0
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}
