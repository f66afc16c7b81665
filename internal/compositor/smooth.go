package compositor

import "image"

// smoothRows box-averages the edge pixels of rows [y0,y1) of blended into out.
// Only blended is read, so rows can be processed in any order. The one-pixel
// border is never averaged.
func smoothRows(out, blended *image.NRGBA, edges []bool, y0, y1 int) {
	w, h := blended.Rect.Dx(), blended.Rect.Dy()
	if y0 < 1 {
		y0 = 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	for y := y0; y < y1; y++ {
		for x := 1; x < w-1; x++ {
			if !edges[y*w+x] {
				continue
			}
			di := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				sum := 0
				for dy := -1; dy <= 1; dy++ {
					row := (y+dy)*blended.Stride + c
					for dx := -1; dx <= 1; dx++ {
						sum += int(blended.Pix[row+(x+dx)*4])
					}
				}
				out.Pix[di+c] = uint8(sum / 9)
			}
		}
	}
}
