package convolve

import (
	"fmt"

	"mrz-locator/internal/pixmap"
	"mrz-locator/internal/rowpool"
)

// Apply convolves img with k and returns a new image of the same domain.
//
// Every output pixel is computed; taps falling outside the image replicate the
// nearest border pixel. The fixed-point path accumulates in int64 and divides
// with truncation, the float path accumulates in float64 and divides exactly.
func Apply[T pixmap.Intensity](img *pixmap.Image[T], k Kernel) (*pixmap.Image[T], error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	out := pixmap.New[T](img.Width(), img.Height())
	if img.Width() == 0 || img.Height() == 0 {
		return out, nil
	}
	bias := pixmap.FromUnit[T](k.Bias)
	if pixmap.IsFloat[T]() {
		convolve[T, float64](img, out, k, bias)
	} else {
		convolve[T, int64](img, out, k, bias)
	}
	return out, nil
}

// ApplyTo is Apply for a buffer of unknown representation. Only the
// intensity domains can be convolved.
func ApplyTo(b pixmap.Buffer, k Kernel) (pixmap.Buffer, error) {
	switch img := b.(type) {
	case *pixmap.Image[pixmap.Fixed]:
		out, err := Apply(img, k)
		return pixmap.Wrap(out, err)
	case *pixmap.Image[float32]:
		out, err := Apply(img, k)
		return pixmap.Wrap(out, err)
	default:
		return nil, fmt.Errorf("convolve %s with %q: %w", b.Kind(), k.Name, pixmap.ErrUnsupportedElement)
	}
}

// convolve is the shared inner loop; A is the accumulator type of the domain.
func convolve[T pixmap.Intensity, A int64 | float64](src, dst *pixmap.Image[T], k Kernel, bias T) {
	w, h := src.Width(), src.Height()
	hx, hy := k.Width/2, k.Height/2

	// Clamped column index for every x offset the kernel can reach
	cols := make([]int, w+2*hx)
	for i := range cols {
		cols[i] = clamp(i-hx, w)
	}
	div := A(k.Divisor)

	rowpool.ParallelFor(h, func(y0, y1 int) {
		rows := make([][]T, k.Height)
		for y := y0; y < y1; y++ {
			for ky := range rows {
				rows[ky] = src.Row(clamp(y+ky-hy, h))
			}
			out := dst.Row(y)
			for x := 0; x < w; x++ {
				var acc A
				wi := 0
				for ky := 0; ky < k.Height; ky++ {
					row := rows[ky]
					for kx := 0; kx < k.Width; kx++ {
						if wt := k.Weights[wi]; wt != 0 {
							acc += A(wt) * A(row[cols[x+kx]])
						}
						wi++
					}
				}
				out[x] = T(acc/div) + bias
			}
		}
	})
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
