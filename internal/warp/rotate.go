package warp

import (
	"math"

	"mrz-locator/internal/pixmap"
	"mrz-locator/pkg/geometry"
)

// Rotate90 rotates img a quarter turn clockwise.
func Rotate90[T pixmap.Pixel](img *pixmap.Image[T]) *pixmap.Image[T] {
	w, h := img.Width(), img.Height()
	out := pixmap.New[T](h, w)
	for y := 0; y < h; y++ {
		row := img.Row(y)
		for x, v := range row {
			out.Put(h-1-y, x, v)
		}
	}
	return out
}

// Rotate180 rotates img a half turn.
func Rotate180[T pixmap.Pixel](img *pixmap.Image[T]) *pixmap.Image[T] {
	out := img.Clone()
	pix := out.Pix()
	for i, j := 0, len(pix)-1; i < j; i, j = i+1, j-1 {
		pix[i], pix[j] = pix[j], pix[i]
	}
	return out
}

// Rotate270 rotates img a quarter turn counter-clockwise.
func Rotate270[T pixmap.Pixel](img *pixmap.Image[T]) *pixmap.Image[T] {
	w, h := img.Width(), img.Height()
	out := pixmap.New[T](h, w)
	for y := 0; y < h; y++ {
		row := img.Row(y)
		for x, v := range row {
			out.Put(y, w-1-x, v)
		}
	}
	return out
}

// FlipHorizontal mirrors img left to right.
func FlipHorizontal[T pixmap.Pixel](img *pixmap.Image[T]) *pixmap.Image[T] {
	out := img.Clone()
	for y := 0; y < out.Height(); y++ {
		row := out.Row(y)
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
	return out
}

// Rotate rotates img clockwise by degrees. Multiples of 90 use index
// remapping; any other angle goes through Affine onto a canvas large enough
// to hold the whole rotated image, with uncovered pixels set to background.
func Rotate[T pixmap.Pixel](img *pixmap.Image[T], degrees float64, background T) (*pixmap.Image[T], error) {
	norm := math.Mod(degrees, 360)
	if norm < 0 {
		norm += 360
	}
	switch norm {
	case 0:
		return img.Clone(), nil
	case 90:
		return Rotate90(img), nil
	case 180:
		return Rotate180(img), nil
	case 270:
		return Rotate270(img), nil
	}

	// Positive angles turn clockwise on screen, where y points down
	rad := norm * math.Pi / 180
	w, h := float64(img.Width()), float64(img.Height())
	cos, sin := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	outW := int(math.Ceil(w*cos + h*sin))
	outH := int(math.Ceil(w*sin + h*cos))

	t := geometry.Translation(float64(outW)/2, float64(outH)/2).
		Compose(geometry.Rotation(rad)).
		Compose(geometry.Translation(-w/2, -h/2))
	return Affine(img, t, outW, outH, background)
}
