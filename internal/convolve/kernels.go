package convolve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"mrz-locator/internal/pixmap"
)

// gaussianScale is the integer weight of a unit 2-D Gaussian tap.
const gaussianScale = 1 << 16

func mustKernel(name string, size int, weights []int32, divisor int32) Kernel {
	k, err := NewKernel(name, size, size, weights, divisor, 0)
	if err != nil {
		panic(err)
	}
	return k
}

// Sharpen returns a 3x3 sharpening kernel.
func Sharpen() Kernel {
	return mustKernel("sharpen", 3, []int32{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}, 1)
}

// BoxBlur returns a size x size mean filter.
func BoxBlur(size int) (Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("box blur size %d: %w", size, pixmap.ErrInvalidKernelSize)
	}
	w := make([]int32, size*size)
	for i := range w {
		w[i] = 1
	}
	return NewKernel(fmt.Sprintf("box%d", size), size, size, w, int32(size*size), 0)
}

// DefaultSigma returns the standard deviation used when a Gaussian is
// requested without one. It matches OpenCV's getGaussianKernel.
func DefaultSigma(size int) float64 {
	return 0.3*(float64(size-1)*0.5-1) + 0.8
}

// GaussianBlur returns a size x size Gaussian kernel. sigma <= 0 selects
// DefaultSigma(size). The divisor is the exact sum of the rounded weights,
// so a constant image is preserved in both domains.
func GaussianBlur(size int, sigma float64) (Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("gaussian size %d: %w", size, pixmap.ErrInvalidKernelSize)
	}
	if sigma <= 0 {
		sigma = DefaultSigma(size)
	}

	half := size / 2
	normal := distuv.Normal{Mu: 0, Sigma: sigma}
	g := make([]float64, size)
	var sum float64
	for i := range g {
		g[i] = normal.Prob(float64(i - half))
		sum += g[i]
	}
	for i := range g {
		g[i] /= sum
	}

	w := make([]int32, size*size)
	var divisor int32
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := int32(math.Round(g[y] * g[x] * gaussianScale))
			w[y*size+x] = v
			divisor += v
		}
	}
	return NewKernel(fmt.Sprintf("gauss%d", size), size, size, w, divisor, 0)
}

// LineHorizontal responds to thin horizontal lines.
func LineHorizontal() Kernel {
	return mustKernel("line-h", 3, []int32{
		-1, -1, -1,
		2, 2, 2,
		-1, -1, -1,
	}, 1)
}

// LineVertical responds to thin vertical lines.
func LineVertical() Kernel {
	return mustKernel("line-v", 3, []int32{
		-1, 2, -1,
		-1, 2, -1,
		-1, 2, -1,
	}, 1)
}

// Line45 responds to thin lines rising at 45 degrees.
func Line45() Kernel {
	return mustKernel("line-45", 3, []int32{
		-1, -1, 2,
		-1, 2, -1,
		2, -1, -1,
	}, 1)
}

// Line135 responds to thin lines falling at 45 degrees.
func Line135() Kernel {
	return mustKernel("line-135", 3, []int32{
		2, -1, -1,
		-1, 2, -1,
		-1, -1, 2,
	}, 1)
}

// SobelX is the horizontal first derivative; it responds to vertical edges.
func SobelX() Kernel {
	return mustKernel("sobel-x", 3, []int32{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}, 1)
}

// SobelY is the vertical first derivative.
func SobelY() Kernel {
	return mustKernel("sobel-y", 3, []int32{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}, 1)
}

// ScharrX is the horizontal first derivative with stronger centre weighting.
func ScharrX() Kernel {
	return mustKernel("scharr-x", 3, []int32{
		-3, 0, 3,
		-10, 0, 10,
		-3, 0, 3,
	}, 1)
}

// ScharrY is the vertical first derivative with stronger centre weighting.
func ScharrY() Kernel {
	return mustKernel("scharr-y", 3, []int32{
		-3, -10, -3,
		0, 0, 0,
		3, 10, 3,
	}, 1)
}

// Laplacian is the 4-neighbour second derivative.
func Laplacian() Kernel {
	return mustKernel("laplacian", 3, []int32{
		0, 1, 0,
		1, -4, 1,
		0, 1, 0,
	}, 1)
}

// ByName returns a named fixed kernel, as accepted on command lines.
func ByName(name string) (Kernel, error) {
	switch name {
	case "sharpen":
		return Sharpen(), nil
	case "line-h":
		return LineHorizontal(), nil
	case "line-v":
		return LineVertical(), nil
	case "line-45":
		return Line45(), nil
	case "line-135":
		return Line135(), nil
	case "sobel-x":
		return SobelX(), nil
	case "sobel-y":
		return SobelY(), nil
	case "scharr-x":
		return ScharrX(), nil
	case "scharr-y":
		return ScharrY(), nil
	case "laplacian":
		return Laplacian(), nil
	default:
		return Kernel{}, fmt.Errorf("kernel %q: %w", name, pixmap.ErrInvalidArgument)
	}
}
