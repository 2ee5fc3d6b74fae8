package lightanchor

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func newTestImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			value := uint8(10)
			if x >= 5 && x < 15 && y >= 5 && y < 15 {
				value = 200
			}
			img.SetGray(x, y, color.Gray{Y: value})
		}
	}
	return img
}

func TestGraySampler(t *testing.T) {
	sampler := NewGraySampler(newTestImage())
	quad := NewQuad([4]Point{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 15}, {X: 5, Y: 15}})
	brightness, err := sampler.Brightness(quad)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(brightness-200) > eps {
		t.Errorf("Expected brightness 200, got %f", brightness)
	}

	// Half of the quad lies on the dark background
	quad = NewQuad([4]Point{{X: 0, Y: 5}, {X: 10, Y: 5}, {X: 10, Y: 15}, {X: 0, Y: 15}})
	brightness, err = sampler.Brightness(quad)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(brightness-105) > eps {
		t.Errorf("Expected brightness 105, got %f", brightness)
	}
}

func TestGraySamplerTinyQuad(t *testing.T) {
	sampler := NewGraySampler(newTestImage())
	quad := NewQuad([4]Point{{X: 7.1, Y: 7.1}, {X: 7.3, Y: 7.1}, {X: 7.3, Y: 7.3}, {X: 7.1, Y: 7.3}})
	brightness, err := sampler.Brightness(quad)
	if err != nil {
		t.Fatal(err)
	}
	if brightness != 200 {
		t.Errorf("Expected brightness of center pixel 200, got %f", brightness)
	}
}

func TestGraySamplerOutOfBounds(t *testing.T) {
	sampler := NewGraySampler(newTestImage())
	quad := NewQuad([4]Point{{X: 50, Y: 50}, {X: 60, Y: 50}, {X: 60, Y: 60}, {X: 50, Y: 60}})
	if _, err := sampler.Brightness(quad); err == nil {
		t.Error("Expected error for quad outside of image")
	}
	if _, err := NewGraySampler(nil).Brightness(quad); err == nil {
		t.Error("Expected error for missing image")
	}
}
