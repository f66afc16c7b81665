// Package photosize knows the standard ID-photo print sizes and fits a
// composite to one of them.
package photosize

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// MMToPx converts millimetres to pixels at 300 dpi.
const MMToPx = 11.811

// Size is a target print size in pixels.
type Size struct {
	Key    string // preset key, empty for custom sizes
	Name   string
	Width  int
	Height int
	// WidthMM and HeightMM are set for custom sizes only.
	WidthMM  float64
	HeightMM float64
}

var presets = map[string]Size{
	"1":  {Key: "1", Name: "1 inch", Width: 295, Height: 413},
	"2":  {Key: "2", Name: "2 inch", Width: 413, Height: 579},
	"2l": {Key: "2l", Name: "large 2 inch", Width: 413, Height: 626},
}

// Presets returns the built-in sizes ordered by key.
func Presets() []Size {
	out := make([]Size, 0, len(presets))
	for _, s := range presets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// MMToPixels rounds a length in millimetres to whole pixels.
func MMToPixels(mm float64) int {
	return int(math.Round(mm * MMToPx))
}

// Parse accepts a preset key ("1", "2", "2l") or a custom size such as "35x45mm".
func Parse(s string) (Size, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if p, ok := presets[key]; ok {
		return p, nil
	}

	dims, ok := strings.CutSuffix(key, "mm")
	if !ok {
		return Size{}, fmt.Errorf("photosize: unknown size %q", s)
	}
	ws, hs, ok := strings.Cut(dims, "x")
	if !ok {
		return Size{}, fmt.Errorf("photosize: size %q must be WxHmm", s)
	}
	wmm, err := strconv.ParseFloat(ws, 64)
	if err != nil {
		return Size{}, fmt.Errorf("photosize: width in %q: %w", s, err)
	}
	hmm, err := strconv.ParseFloat(hs, 64)
	if err != nil {
		return Size{}, fmt.Errorf("photosize: height in %q: %w", s, err)
	}
	return Custom(wmm, hmm)
}

// Custom builds a size from millimetre dimensions.
func Custom(widthMM, heightMM float64) (Size, error) {
	if !(widthMM > 0) || !(heightMM > 0) || math.IsInf(widthMM, 0) || math.IsInf(heightMM, 0) {
		return Size{}, fmt.Errorf("photosize: invalid size %gx%gmm", widthMM, heightMM)
	}
	w, h := MMToPixels(widthMM), MMToPixels(heightMM)
	if w < 1 || h < 1 {
		return Size{}, fmt.Errorf("photosize: size %gx%gmm is below one pixel", widthMM, heightMM)
	}
	return Size{
		Name:     fmt.Sprintf("%gx%gmm", widthMM, heightMM),
		Width:    w,
		Height:   h,
		WidthMM:  widthMM,
		HeightMM: heightMM,
	}, nil
}

// FileName returns the download name for a photo of this size.
func (s Size) FileName(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	switch s.Key {
	case "":
		return fmt.Sprintf("crop_%gx%gmm.%s", s.WidthMM, s.HeightMM, ext)
	default:
		return fmt.Sprintf("crop_%sin.%s", s.Key, ext)
	}
}

// CropRect returns the largest centered rectangle of b with the size's aspect ratio.
func (s Size) CropRect(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	// Compare w/h against Width/Height without floating point. The crop keeps
	// at least one pixel on each axis for extreme aspect ratios.
	if w*s.Height > h*s.Width {
		cw := max(1, int(math.Round(float64(h)*float64(s.Width)/float64(s.Height))))
		x0 := b.Min.X + (w-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	}
	ch := max(1, int(math.Round(float64(w)*float64(s.Height)/float64(s.Width))))
	y0 := b.Min.Y + (h-ch)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
}

// Fit center-crops img to the size's aspect ratio and scales it to exactly
// Width x Height pixels.
func Fit(img image.Image, s Size) *image.NRGBA {
	crop := s.CropRect(img.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	if crop.Dx() == s.Width && crop.Dy() == s.Height {
		draw.Draw(dst, dst.Bounds(), img, crop.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
	return dst
}
