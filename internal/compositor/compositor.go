// Package compositor replaces the background of a portrait with a solid color,
// driven by a foreground probability mask from a segmentation model.
//
// The pipeline runs five stages over the full pixel grid:
//
//  1. mask pre-blur (and resampling onto the image size)
//  2. background color decode
//  3. per-pixel power-curve blend and edge classification
//  4. 3x3 box averaging of edge pixels, double-buffered
//  5. final light Gaussian blur
//
// Every call owns its buffers; a Compositor only carries immutable settings.
package compositor

import (
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danmaidesenling/imageProcessor/internal/raster"
)

// Compositor applies the background replacement pipeline.
type Compositor struct {
	opts Options
	log  *zap.Logger
}

// New creates a Compositor. A nil logger disables logging.
func New(opts Options, log *zap.Logger) *Compositor {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Compositor{opts: opts, log: log}
}

// Options returns the settings the Compositor was created with.
func (c *Compositor) Options() Options {
	return c.opts
}

// Composite returns a fully opaque copy of src with every pixel mixed toward
// the background color hex according to mask. src is never modified.
// On error no image is returned.
func (c *Compositor) Composite(src image.Image, mask *Mask, hex string) (*image.NRGBA, error) {
	start := time.Now()

	bg, err := ParseHexColor(hex)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, w, h)
	}

	alpha, err := prepareMask(mask, w, h, c.opts)
	if err != nil {
		return nil, err
	}
	maskDone := time.Now()

	source := raster.ToNRGBA(src)
	blended := image.NewNRGBA(image.Rect(0, 0, w, h))
	edges := make([]bool, w*h)
	c.forRows(h, func(y0, y1 int) {
		blendRows(blended, source, alpha, bg, edges, y0, y1)
	})

	smoothed := image.NewNRGBA(blended.Rect)
	copy(smoothed.Pix, blended.Pix)
	c.forRows(h, func(y0, y1 int) {
		smoothRows(smoothed, blended, edges, y0, y1)
	})
	pixelsDone := time.Now()

	out := smoothed
	if c.opts.FinalBlur > 0 {
		out = imaging.Blur(smoothed, c.opts.FinalBlur)
		for i := 3; i < len(out.Pix); i += 4 {
			out.Pix[i] = 255
		}
	}

	if ce := c.log.Check(zap.DebugLevel, "composite done"); ce != nil {
		ce.Write(
			zap.Int("width", w),
			zap.Int("height", h),
			zap.String("background", bg.Hex()),
			zap.Int("edge_pixels", countEdges(edges)),
			zap.Duration("mask", maskDone.Sub(start)),
			zap.Duration("pixels", pixelsDone.Sub(maskDone)),
			zap.Duration("total", time.Since(start)),
		)
	}

	return out, nil
}

// forRows splits [0,h) into contiguous bands and runs fn on each, using up to
// Workers goroutines. fn must only write to rows inside its band.
func (c *Compositor) forRows(h int, fn func(y0, y1 int)) {
	workers := c.opts.Workers
	if workers > h {
		workers = h
	}
	if workers <= 1 {
		fn(0, h)
		return
	}

	band := (h + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += band {
		y0, y1 := y0, min(y0+band, h)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}

func countEdges(edges []bool) int {
	n := 0
	for _, e := range edges {
		if e {
			n++
		}
	}
	return n
}
