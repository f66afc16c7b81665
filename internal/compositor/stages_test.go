package compositor

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want RGB
	}{
		{"#FF8000", RGB{255, 128, 0}},
		{"ff8000", RGB{255, 128, 0}},
		{"#0000ff", RGB{0, 0, 255}},
		{" #438EDB ", RGB{0x43, 0x8E, 0xDB}},
	} {
		got, err := ParseHexColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{"", "notacolor", "#FFF", "#FF80000", "#GG0000", "#+F0000", "#0x1234"} {
		_, err := ParseHexColor(in)
		assert.ErrorIs(t, err, ErrInvalidColor, in)
	}
}

func TestRGBHex(t *testing.T) {
	assert.Equal(t, "#FF8000", RGB{255, 128, 0}.Hex())
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, RGB{1, 2, 3}.NRGBA())
}

func TestIsEdgeBoundsExclusive(t *testing.T) {
	assert.False(t, isEdge(0))
	assert.False(t, isEdge(0.1))
	assert.True(t, isEdge(0.10001))
	assert.True(t, isEdge(0.5))
	assert.True(t, isEdge(0.89999))
	assert.False(t, isEdge(0.9))
	assert.False(t, isEdge(1))
}

func TestBlendWeightEndpoints(t *testing.T) {
	assert.Equal(t, 0.0, blendWeight(0))
	assert.Equal(t, 1.0, blendWeight(1))
	assert.InDelta(t, 0.125, blendWeight(0.25), 1e-9)
	assert.Equal(t, uint8(40), blendChannel(40, 200, 0))
	assert.Equal(t, uint8(200), blendChannel(40, 200, 1))
}

func TestSmoothUniformNeighborhoodIsNoop(t *testing.T) {
	blended := uniformImage(3, 3, color.NRGBA{R: 17, G: 99, B: 250, A: 255})
	edges := make([]bool, 9)
	edges[4] = true

	out := image.NewNRGBA(blended.Rect)
	copy(out.Pix, blended.Pix)
	smoothRows(out, blended, edges, 0, 3)
	assert.Equal(t, blended.Pix, out.Pix)
}

func TestSmoothReadsOnlyBlendedBuffer(t *testing.T) {
	// Two horizontally adjacent edge pixels; an in-place pass would let the
	// second read the already averaged first.
	blended := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	cols := []uint8{0, 30, 200, 250}
	for y := 0; y < 3; y++ {
		for x, v := range cols {
			blended.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	edges := make([]bool, 12)
	edges[1*4+1] = true
	edges[1*4+2] = true

	out := image.NewNRGBA(blended.Rect)
	copy(out.Pix, blended.Pix)
	smoothRows(out, blended, edges, 0, 3)

	// (0+30+200)*3/9 = 76; (30+200+250)*3/9 = 160
	assert.Equal(t, uint8(76), out.NRGBAAt(1, 1).R)
	assert.Equal(t, uint8(160), out.NRGBAAt(2, 1).R)
	assert.Equal(t, uint8(255), out.NRGBAAt(2, 1).A)
}

func TestSmoothTruncatesMean(t *testing.T) {
	blended := uniformImage(3, 3, color.NRGBA{A: 255})
	blended.SetNRGBA(0, 0, color.NRGBA{R: 17, A: 255})
	edges := make([]bool, 9)
	edges[4] = true

	out := image.NewNRGBA(blended.Rect)
	copy(out.Pix, blended.Pix)
	smoothRows(out, blended, edges, 0, 3)
	assert.Equal(t, uint8(1), out.NRGBAAt(1, 1).R) // 17/9 = 1.88
}

func TestSmoothSkipsBorder(t *testing.T) {
	blended := randomImage(4, 4, 20)
	edges := make([]bool, 16)
	for i := range edges {
		edges[i] = true
	}

	out := image.NewNRGBA(blended.Rect)
	copy(out.Pix, blended.Pix)
	smoothRows(out, blended, edges, 0, 4)

	for x := 0; x < 4; x++ {
		assert.Equal(t, blended.NRGBAAt(x, 0), out.NRGBAAt(x, 0))
		assert.Equal(t, blended.NRGBAAt(x, 3), out.NRGBAAt(x, 3))
		assert.Equal(t, blended.NRGBAAt(0, x), out.NRGBAAt(0, x))
		assert.Equal(t, blended.NRGBAAt(3, x), out.NRGBAAt(3, x))
	}
}

func TestSmoothBandsMatchSinglePass(t *testing.T) {
	blended := randomImage(9, 11, 21)
	edges := make([]bool, 9*11)
	for i := range edges {
		edges[i] = i%3 != 0
	}

	whole := image.NewNRGBA(blended.Rect)
	copy(whole.Pix, blended.Pix)
	smoothRows(whole, blended, edges, 0, 11)

	banded := image.NewNRGBA(blended.Rect)
	copy(banded.Pix, blended.Pix)
	for _, band := range [][2]int{{8, 11}, {0, 3}, {3, 8}} {
		smoothRows(banded, blended, edges, band[0], band[1])
	}

	assert.Equal(t, whole.Pix, banded.Pix)
}

func TestMaskFromImageAndAlpha(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 1))
	g.Pix[0], g.Pix[1] = 0, 255
	m := MaskFromImage(g)
	assert.Equal(t, []float32{0, 1}, m.Prob)

	cut := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	cut.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 0})
	cut.SetNRGBA(1, 0, color.NRGBA{R: 0, A: 255})
	m = MaskFromAlpha(cut)
	assert.Equal(t, []float32{0, 1}, m.Prob)
}

func TestPrepareMaskBlurSmoothsStep(t *testing.T) {
	m := NewMask(30, 1)
	for x := 15; x < 30; x++ {
		m.Set(x, 0, 1)
	}

	got, err := prepareMask(m, 30, 1, DefaultOptions())
	require.NoError(t, err)
	assert.Greater(t, got.At(14, 0), float32(0))
	assert.Less(t, got.At(15, 0), float32(1))
	assert.Equal(t, float32(0), got.At(0, 0))
	assert.Equal(t, float32(1), got.At(29, 0))
}
