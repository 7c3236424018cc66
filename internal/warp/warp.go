// Package warp resamples pixel buffers geometrically.
package warp

import (
	"fmt"
	"math"

	"mrz-locator/internal/pixmap"
	"mrz-locator/pkg/geometry"
)

// ErrSingularTransform is returned for a transform that has no inverse.
var ErrSingularTransform = fmt.Errorf("warp: %w", geometry.ErrSingular)

// Affine renders img through t into an outW x outH buffer. t maps source
// coordinates to output coordinates; each output pixel centre is mapped back
// through the inverse and takes the nearest source pixel. Output pixels that
// land outside the source are set to background.
func Affine[T pixmap.Pixel](img *pixmap.Image[T], t geometry.AffineTransform, outW, outH int, background T) (*pixmap.Image[T], error) {
	if outW < 0 || outH < 0 {
		return nil, fmt.Errorf("affine output %dx%d: %w", outW, outH, pixmap.ErrInvalidArgument)
	}
	inv, err := t.Inverse()
	if err != nil {
		return nil, ErrSingularTransform
	}

	out := pixmap.New[T](outW, outH)
	for y := 0; y < outH; y++ {
		row := out.Row(y)
		for x := range row {
			p := inv.Apply(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			sx, sy := int(math.Floor(p.X)), int(math.Floor(p.Y))
			if img.In(sx, sy) {
				row[x] = img.Get(sx, sy)
			} else {
				row[x] = background
			}
		}
	}
	return out, nil
}

// Resize scales img to w x h with nearest sampling.
func Resize[T pixmap.Pixel](img *pixmap.Image[T], w, h int) (*pixmap.Image[T], error) {
	if w <= 0 || h <= 0 || img.Width() == 0 || img.Height() == 0 {
		return nil, fmt.Errorf("resize %s to %dx%d: %w", pixmap.Describe(img), w, h, pixmap.ErrInvalidArgument)
	}
	if w == img.Width() && h == img.Height() {
		return img.Clone(), nil
	}
	sx := float64(w) / float64(img.Width())
	sy := float64(h) / float64(img.Height())
	var zero T
	return Affine(img, geometry.Scale(sx, sy), w, h, zero)
}

// ResizeToWidth scales img to the given width, keeping the aspect ratio.
// It returns the scaled image and the factor applied.
func ResizeToWidth[T pixmap.Pixel](img *pixmap.Image[T], w int) (*pixmap.Image[T], float64, error) {
	if img.Width() == 0 {
		return nil, 0, fmt.Errorf("resize empty image: %w", pixmap.ErrInvalidArgument)
	}
	f := float64(w) / float64(img.Width())
	h := max(1, int(math.Round(float64(img.Height())*f)))
	out, err := Resize(img, w, h)
	return out, f, err
}
