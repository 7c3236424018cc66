// Package threshold turns intensity images into binary images.
//
// Global and Adaptive rewrite the image in place; Otsu only measures it.
package threshold

import (
	"fmt"

	"mrz-locator/internal/pixmap"
)

// Global sets every pixel >= cutoff to on and every other pixel to zero.
func Global[T pixmap.Scalar](img *pixmap.Image[T], cutoff, on T) {
	GlobalRange(img, cutoff, on, 0)
}

// GlobalRange is Global with an explicit off value.
func GlobalRange[T pixmap.Scalar](img *pixmap.Image[T], cutoff, on, off T) {
	pix := img.Pix()
	for i, v := range pix {
		if v >= cutoff {
			pix[i] = on
		} else {
			pix[i] = off
		}
	}
}

// Adaptive compares each pixel with the mean of the size x size window
// centred on it (clipped to the image) and sets it to on when it exceeds
// that mean by more than bias, zero otherwise. A negative bias accepts pixels
// slightly below their local mean.
func Adaptive[T pixmap.Scalar](img *pixmap.Image[T], size int, bias, on T) error {
	if size <= 0 || size%2 == 0 {
		return fmt.Errorf("adaptive window %d: %w", size, pixmap.ErrInvalidKernelSize)
	}
	w, h := img.Width(), img.Height()
	if w == 0 || h == 0 {
		return nil
	}

	// Summed-area table with a zero guard row and column. Sums of the
	// integer domains stay exact in float64.
	sat := make([]float64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		row := img.Row(y)
		var run float64
		for x := 0; x < w; x++ {
			run += float64(row[x])
			sat[(y+1)*(w+1)+x+1] = sat[y*(w+1)+x+1] + run
		}
	}

	r := size / 2
	b := float64(bias)
	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-r), min(h, y+r+1)
		row := img.Row(y)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-r), min(w, x+r+1)
			sum := sat[y1*(w+1)+x1] - sat[y0*(w+1)+x1] - sat[y1*(w+1)+x0] + sat[y0*(w+1)+x0]
			mean := sum / float64((x1-x0)*(y1-y0))
			if float64(row[x])-mean > b {
				row[x] = on
			} else {
				row[x] = 0
			}
		}
	}
	return nil
}
