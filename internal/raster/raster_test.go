package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNRGBAReturnsAnchoredInput(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, img, ToNRGBA(img))
}

func TestToNRGBAConvertsAndReanchors(t *testing.T) {
	g := image.NewGray(image.Rect(5, 7, 7, 8))
	g.SetGray(5, 7, color.Gray{Y: 10})
	g.SetGray(6, 7, color.Gray{Y: 200})

	got := ToNRGBA(g)
	assert.Equal(t, image.Rect(0, 0, 2, 1), got.Rect)
	assert.Equal(t, color.NRGBA{R: 10, G: 10, B: 10, A: 255}, got.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, got.NRGBAAt(1, 0))

	sub := image.NewNRGBA(image.Rect(0, 0, 4, 4)).SubImage(image.Rect(1, 1, 3, 3))
	assert.Equal(t, image.Rect(0, 0, 2, 2), ToNRGBA(sub).Rect)
}
