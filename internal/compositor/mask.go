package compositor

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// aspectTolerance is the largest relative aspect-ratio difference accepted
// between a mask and the image it is resampled onto.
const aspectTolerance = 0.01

// Mask holds per-pixel foreground probabilities in [0,1], row-major.
type Mask struct {
	Width  int
	Height int
	Prob   []float32 // len = Width*Height
}

// NewMask allocates an all-background mask.
func NewMask(w, h int) *Mask {
	return &Mask{
		Width:  w,
		Height: h,
		Prob:   make([]float32, w*h),
	}
}

// At returns the probability at (x, y).
func (m *Mask) At(x, y int) float32 {
	return m.Prob[y*m.Width+x]
}

// Set stores the probability at (x, y).
func (m *Mask) Set(x, y int, p float32) {
	m.Prob[y*m.Width+x] = p
}

// MaskFromImage reads the red channel of a rendered mask as probability.
// Grayscale masks therefore map their luminance directly.
func MaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			m.Prob[y*m.Width+x] = float32(c.R) / 255
		}
	}
	return m
}

// MaskFromAlpha uses the alpha channel of a cutout image as probability.
func MaskFromAlpha(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			m.Prob[y*m.Width+x] = float32(a>>8) / 255
		}
	}
	return m
}

func (m *Mask) validate() error {
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: empty mask", ErrDimensionMismatch)
	}
	if len(m.Prob) != m.Width*m.Height {
		return fmt.Errorf("%w: mask has %d samples, want %dx%d",
			ErrDimensionMismatch, len(m.Prob), m.Width, m.Height)
	}
	return nil
}

// prepareMask clamps, resamples and pre-blurs the mask so it has exactly one
// sample per source pixel. The caller's mask is never modified.
func prepareMask(m *Mask, w, h int, opts Options) (*Mask, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	sameSize := m.Width == w && m.Height == h
	if !sameSize {
		if !opts.ResampleMask {
			return nil, fmt.Errorf("%w: mask %dx%d, image %dx%d",
				ErrDimensionMismatch, m.Width, m.Height, w, h)
		}
		want := float64(w) / float64(h)
		got := float64(m.Width) / float64(m.Height)
		if math.Abs(got-want)/want > aspectTolerance {
			return nil, fmt.Errorf("%w: mask aspect %.4f, image aspect %.4f",
				ErrDimensionMismatch, got, want)
		}
	}

	if sameSize && opts.MaskBlur <= 0 {
		out := NewMask(w, h)
		for i, p := range m.Prob {
			out.Prob[i] = clampUnit(p)
		}
		return out, nil
	}

	// Resampling and blurring run on an 8-bit surface, as a rendered mask would.
	gray := m.toGray()
	var src image.Image = gray
	if !sameSize {
		scaled := image.NewGray(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), draw.Src, nil)
		src = scaled
	}

	out := NewMask(w, h)
	if opts.MaskBlur > 0 {
		blurred := imaging.Blur(src, opts.MaskBlur)
		for i := range out.Prob {
			out.Prob[i] = float32(blurred.Pix[i*4]) / 255
		}
		return out, nil
	}

	scaled := src.(*image.Gray)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Prob[y*w+x] = float32(scaled.Pix[y*scaled.Stride+x]) / 255
		}
	}
	return out, nil
}

func (m *Mask) toGray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, p := range m.Prob {
		g.Pix[i] = uint8(math.Floor(float64(clampUnit(p))*255 + 0.5))
	}
	return g
}

// clampUnit maps p into [0,1]; NaN is treated as background.
func clampUnit(p float32) float32 {
	if p > 1 {
		return 1
	}
	if p >= 0 {
		return p
	}
	return 0
}
