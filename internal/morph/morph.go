// Package morph implements grey-level morphology with square structuring
// elements.
package morph

import (
	"fmt"

	"mrz-locator/internal/pixmap"
	"mrz-locator/internal/rowpool"
)

// Element is a square structuring element of odd side Size.
type Element struct {
	Size int
}

// NewElement validates an element size.
func NewElement(size int) (Element, error) {
	el := Element{Size: size}
	if err := el.Validate(); err != nil {
		return Element{}, err
	}
	return el, nil
}

// Validate reports ErrInvalidKernelSize for even or non-positive sizes.
func (el Element) Validate() error {
	if el.Size <= 0 || el.Size%2 == 0 {
		return fmt.Errorf("structuring element size %d: %w", el.Size, pixmap.ErrInvalidKernelSize)
	}
	return nil
}

// Erode returns the minimum of img under the element at every pixel.
// Pixels outside the image do not take part, so the border erodes only
// towards values that are inside it.
func Erode[T pixmap.Scalar](img *pixmap.Image[T], el Element) (*pixmap.Image[T], error) {
	if err := el.Validate(); err != nil {
		return nil, err
	}
	return rank(img, el.Size/2, false), nil
}

// Dilate returns the maximum of img under the element at every pixel.
func Dilate[T pixmap.Scalar](img *pixmap.Image[T], el Element) (*pixmap.Image[T], error) {
	if err := el.Validate(); err != nil {
		return nil, err
	}
	return rank(img, el.Size/2, true), nil
}

// rank computes a square min or max filter as a row pass followed by a
// column pass, each a sliding-window extreme in amortised O(1) per pixel.
func rank[T pixmap.Scalar](img *pixmap.Image[T], r int, isMax bool) *pixmap.Image[T] {
	w, h := img.Width(), img.Height()
	tmp := pixmap.New[T](w, h)
	out := pixmap.New[T](w, h)
	if w == 0 || h == 0 || r == 0 {
		copy(out.Pix(), img.Pix())
		return out
	}

	rowpool.ParallelFor(h, func(y0, y1 int) {
		dq := make([]int, 0, w)
		for y := y0; y < y1; y++ {
			slide(img.Row(y), tmp.Row(y), r, isMax, dq)
		}
	})

	rowpool.ParallelFor(w, func(x0, x1 int) {
		dq := make([]int, 0, h)
		col := make([]T, h)
		res := make([]T, h)
		src, dst := tmp.Pix(), out.Pix()
		for x := x0; x < x1; x++ {
			for y := 0; y < h; y++ {
				col[y] = src[y*w+x]
			}
			slide(col, res, r, isMax, dq)
			for y := 0; y < h; y++ {
				dst[y*w+x] = res[y]
			}
		}
	})
	return out
}

// slide writes to dst[i] the extreme of src[i-r .. i+r] clipped to the line.
// dq is scratch space holding candidate indices in decreasing priority.
func slide[T pixmap.Scalar](src, dst []T, r int, isMax bool, dq []int) {
	n := len(src)
	dq = dq[:0]
	head := 0
	for j := 0; j < n+r; j++ {
		if j < n {
			v := src[j]
			for len(dq) > head && !beats(src[dq[len(dq)-1]], v, isMax) {
				dq = dq[:len(dq)-1]
			}
			dq = append(dq, j)
		}
		i := j - r
		if i < 0 {
			continue
		}
		for dq[head] < i-r {
			head++
		}
		dst[i] = src[dq[head]]
	}
}

// beats reports whether a is strictly better than b for the filter.
func beats[T pixmap.Scalar](a, b T, isMax bool) bool {
	if isMax {
		return a > b
	}
	return a < b
}

// diff returns a-b, or zero when b >= a. It never wraps for uint8.
func diff[T pixmap.Scalar](a, b T) T {
	if a <= b {
		return 0
	}
	return a - b
}

func subtract[T pixmap.Scalar](a, b *pixmap.Image[T]) *pixmap.Image[T] {
	out := pixmap.New[T](a.Width(), a.Height())
	ap, bp, op := a.Pix(), b.Pix(), out.Pix()
	for i := range op {
		op[i] = diff(ap[i], bp[i])
	}
	return out
}
