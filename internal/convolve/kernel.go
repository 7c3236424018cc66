// Package convolve applies 2-D weighted-sum kernels to intensity images.
package convolve

import (
	"fmt"

	"mrz-locator/internal/pixmap"
)

// Kernel is a small 2-D array of signed integer weights. The weighted sum is
// divided by Divisor, then Bias (a fraction of full scale) is added.
//
// Kernels are values shared between calls; Weights must not be modified
// after construction.
type Kernel struct {
	Name    string
	Width   int
	Height  int
	Weights []int32 // row-major, Width*Height entries
	Divisor int32
	Bias    float64
}

// NewKernel validates and builds a kernel.
func NewKernel(name string, width, height int, weights []int32, divisor int32, bias float64) (Kernel, error) {
	k := Kernel{
		Name:    name,
		Width:   width,
		Height:  height,
		Weights: weights,
		Divisor: divisor,
		Bias:    bias,
	}
	if err := k.Validate(); err != nil {
		return Kernel{}, err
	}
	return k, nil
}

// Validate checks that the kernel has odd positive dimensions, one weight per
// cell and a non-zero divisor.
func (k Kernel) Validate() error {
	if k.Width <= 0 || k.Height <= 0 || k.Width%2 == 0 || k.Height%2 == 0 {
		return fmt.Errorf("kernel %q %dx%d: %w", k.Name, k.Width, k.Height, pixmap.ErrInvalidKernelSize)
	}
	if len(k.Weights) != k.Width*k.Height {
		return fmt.Errorf("kernel %q has %d weights for %dx%d: %w",
			k.Name, len(k.Weights), k.Width, k.Height, pixmap.ErrDimensionMismatch)
	}
	if k.Divisor == 0 {
		return fmt.Errorf("kernel %q has zero divisor: %w", k.Name, pixmap.ErrInvalidArgument)
	}
	return nil
}

// Transpose returns the kernel mirrored about its main diagonal.
func (k Kernel) Transpose() Kernel {
	w := make([]int32, len(k.Weights))
	for y := 0; y < k.Height; y++ {
		for x := 0; x < k.Width; x++ {
			w[x*k.Height+y] = k.Weights[y*k.Width+x]
		}
	}
	return Kernel{
		Name:    k.Name + "-transposed",
		Width:   k.Height,
		Height:  k.Width,
		Weights: w,
		Divisor: k.Divisor,
		Bias:    k.Bias,
	}
}

// WithBias returns a copy of the kernel with a different bias.
func (k Kernel) WithBias(bias float64) Kernel {
	k.Bias = bias
	return k
}
