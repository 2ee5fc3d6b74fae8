package lightanchor

import (
	"image"

	"github.com/pkg/errors"
)

// Sampler evaluates scalar brightness of quad's footprint on the current frame
type Sampler interface {
	Brightness(quad Quad) (float64, error)
}

// SamplerFunc is an adapter to allow the use of ordinary functions as Sampler
type SamplerFunc func(quad Quad) (float64, error)

// Brightness calls f(quad)
func (f SamplerFunc) Brightness(quad Quad) (float64, error) {
	return f(quad)
}

// GraySampler evaluates mean intensity of pixels inside quad over grayscale image
type GraySampler struct {
	Image *image.Gray
}

// NewGraySampler creates sampler for single grayscale frame
func NewGraySampler(img *image.Gray) *GraySampler {
	return &GraySampler{Image: img}
}

// Brightness returns mean interior intensity. When quad is too small to contain any pixel center
// the pixel under quad's center is used
func (gs *GraySampler) Brightness(quad Quad) (float64, error) {
	if gs.Image == nil {
		return 0, errors.New("no image to sample from")
	}
	imgBounds := gs.Image.Bounds()
	bounds := quad.Bounds().Intersect(imgBounds)
	if bounds.Empty() {
		return 0, errors.Errorf("quad centered at (%f, %f) is out of image bounds %v", quad.Center.X, quad.Center.Y, imgBounds)
	}
	sum := 0.0
	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !quad.Contains(Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}) {
				continue
			}
			sum += float64(gs.Image.GrayAt(x, y).Y)
			count++
		}
	}
	if count == 0 {
		pt := image.Pt(int(quad.Center.X), int(quad.Center.Y))
		if !pt.In(imgBounds) {
			return 0, errors.Errorf("quad center (%f, %f) is out of image bounds %v", quad.Center.X, quad.Center.Y, imgBounds)
		}
		return float64(gs.Image.GrayAt(pt.X, pt.Y).Y), nil
	}
	return sum / float64(count), nil
}
