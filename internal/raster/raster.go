// Package raster holds pixel-buffer helpers shared by the decoders and the compositor.
package raster

import (
	"image"
	"image/draw"
)

// ToNRGBA returns src as an NRGBA image anchored at the origin.
// The result may alias src and must be treated as read-only.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
