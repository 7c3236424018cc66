package pixmap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats holds the result of a single scan over an image.
type Stats[T Scalar] struct {
	Min   T
	Max   T
	Range T // Max - Min
}

// Scan returns the minimum, maximum and range of img in one pass.
// An empty image yields zero Stats.
func Scan[T Scalar](img *Image[T]) Stats[T] {
	if len(img.pix) == 0 {
		return Stats[T]{}
	}
	lo, hi := img.pix[0], img.pix[0]
	for _, v := range img.pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return Stats[T]{Min: lo, Max: hi, Range: hi - lo}
}

// CountNonZero returns the number of pixels that are not zero.
func CountNonZero[T Scalar](img *Image[T]) int {
	n := 0
	for _, v := range img.pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// AbsInPlace replaces every pixel with its absolute value.
func AbsInPlace[T Intensity](img *Image[T]) {
	for i, v := range img.pix {
		if v < 0 {
			img.pix[i] = -v
		}
	}
}

// StretchInPlace linearly maps [min, max] of img onto [0, Full]. A constant
// image becomes all zero.
func StretchInPlace[T Scalar](img *Image[T]) {
	st := Scan(img)
	if st.Range == 0 {
		img.Fill(0)
		return
	}
	lo := float64(st.Min)
	scale := float64(Full[T]()) / float64(st.Range)
	round := 0.0
	if !IsFloat[T]() {
		round = 0.5
	}
	for i, v := range img.pix {
		img.pix[i] = T((float64(v)-lo)*scale + round)
	}
}

// Difference summarizes how far two buffers are apart, in fractions of full
// scale after converting both to floating-point gray.
type Difference struct {
	Mean float64
	Max  float64
}

// Compare measures the per-pixel absolute difference between two buffers of
// any representation. They must have the same dimensions.
func Compare(a, b Buffer) (Difference, error) {
	if !SameSize(a, b) {
		return Difference{}, fmt.Errorf("compare %s with %s: %w", Describe(a), Describe(b), ErrDimensionMismatch)
	}
	fa, err := GrayFloatFrom(a)
	if err != nil {
		return Difference{}, err
	}
	fb, err := GrayFloatFrom(b)
	if err != nil {
		return Difference{}, err
	}
	if len(fa.pix) == 0 {
		return Difference{}, nil
	}
	diff := make([]float64, len(fa.pix))
	for i := range diff {
		diff[i] = math.Abs(float64(fa.pix[i] - fb.pix[i]))
	}
	return Difference{Mean: stat.Mean(diff, nil), Max: floats.Max(diff)}, nil
}
