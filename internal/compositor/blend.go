package compositor

import (
	"image"
	"math"
)

// Thresholds on the normalized [0,1] mask scale.
const (
	edgeLow    = 0.1  // exclusive
	edgeHigh   = 0.9  // exclusive
	foreground = 0.95 // at or above: color kept as-is
	blendGamma = 1.5
)

// isEdge reports whether a mask value lies in the transition band.
func isEdge(a float32) bool {
	return a > edgeLow && a < edgeHigh
}

// blendWeight maps a mask value to the source weight of the blend.
func blendWeight(a float32) float64 {
	return math.Pow(float64(a), blendGamma)
}

func round8(v float64) uint8 {
	v = math.Floor(v + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// blendChannel mixes the background and source channel by weight w.
func blendChannel(bg, c uint8, w float64) uint8 {
	return round8(float64(bg)*(1-w) + float64(c)*w)
}

// blendRows flattens rows [y0,y1) of src over bg into dst, then mixes in the
// background by the mask's power curve. Edge pixels are recorded in edges.
func blendRows(dst, src *image.NRGBA, mask *Mask, bg RGB, edges []bool, y0, y1 int) {
	w := mask.Width
	for y := y0; y < y1; y++ {
		so := y * src.Stride
		do := y * dst.Stride
		for x := 0; x < w; x++ {
			si, di := so+x*4, do+x*4
			r, g, b := flatten(src.Pix[si:si+4], bg)

			a := mask.Prob[y*w+x]
			edges[y*w+x] = isEdge(a)

			if a < foreground {
				bw := blendWeight(a)
				r = blendChannel(bg.R, r, bw)
				g = blendChannel(bg.G, g, bw)
				b = blendChannel(bg.B, b, bw)
			}

			dst.Pix[di] = r
			dst.Pix[di+1] = g
			dst.Pix[di+2] = b
			dst.Pix[di+3] = 255
		}
	}
}

// flatten composites one non-premultiplied pixel over an opaque background.
func flatten(p []uint8, bg RGB) (r, g, b uint8) {
	a := p[3]
	if a == 255 {
		return p[0], p[1], p[2]
	}
	if a == 0 {
		return bg.R, bg.G, bg.B
	}
	fa := float64(a) / 255
	return round8(float64(p[0])*fa + float64(bg.R)*(1-fa)),
		round8(float64(p[1])*fa + float64(bg.G)*(1-fa)),
		round8(float64(p[2])*fa + float64(bg.B)*(1-fa))
}
