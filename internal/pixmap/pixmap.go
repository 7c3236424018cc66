// Package pixmap provides the rectangular pixel buffers the engine works on.
//
// A buffer holds exactly one of four element representations:
//
//	ARGB     packed colour, alpha in the most significant byte
//	uint8    one extracted 8-bit channel
//	Fixed    signed fixed-point intensity, FixedOne (1<<24) is 1.0
//	float32  floating-point intensity, 1.0 is full scale
//
// Image[T] is instantiated for exactly those four types. Code that receives a
// buffer of unknown representation takes a Buffer and type-switches on it.
//
// Functions returning a new *Image leave their input untouched. Functions that
// modify a buffer in place say so and return at most an error.
package pixmap

import (
	"fmt"

	"mrz-locator/pkg/geometry"
)

// ARGB is a packed colour pixel.
type ARGB uint32

// Fixed is a fixed-point intensity scaled by FixedOne.
type Fixed int32

// FixedOne is the fixed-point representation of 1.0.
const FixedOne Fixed = 1 << 24

// Pixel is the closed set of element representations.
type Pixel interface {
	ARGB | uint8 | Fixed | float32
}

// Kind names an element representation.
type Kind int

const (
	KindARGB    Kind = iota // Packed colour
	KindChannel             // Single 8-bit channel
	KindFixed               // Fixed-point intensity
	KindFloat               // Floating-point intensity
)

func (k Kind) String() string {
	switch k {
	case KindARGB:
		return "argb"
	case KindChannel:
		return "channel"
	case KindFixed:
		return "fixed"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// KindOf returns the Kind of element type T.
func KindOf[T Pixel]() Kind {
	var zero T
	switch any(zero).(type) {
	case ARGB:
		return KindARGB
	case uint8:
		return KindChannel
	case Fixed:
		return KindFixed
	default:
		return KindFloat
	}
}

// Buffer is implemented by the four Image instantiations and nothing else.
type Buffer interface {
	Width() int
	Height() int
	Kind() Kind
	buffer()
}

// Image is a width x height grid of pixels stored row-major.
// len(Pix()) is always Width()*Height().
type Image[T Pixel] struct {
	width  int
	height int
	pix    []T
}

// New allocates a zeroed image. Non-positive dimensions yield an empty image.
func New[T Pixel](width, height int) *Image[T] {
	if width <= 0 || height <= 0 {
		return &Image[T]{}
	}
	return &Image[T]{
		width:  width,
		height: height,
		pix:    make([]T, width*height),
	}
}

// FromSlice wraps data as a width x height image. The image takes ownership
// of data.
func FromSlice[T Pixel](width, height int, data []T) (*Image[T], error) {
	if width < 0 || height < 0 || len(data) != width*height {
		return nil, fmt.Errorf("%dx%d image from %d values: %w", width, height, len(data), ErrDimensionMismatch)
	}
	if width == 0 || height == 0 {
		return &Image[T]{}, nil
	}
	return &Image[T]{width: width, height: height, pix: data}, nil
}

func (img *Image[T]) buffer() {}

// Width returns the image width in pixels.
func (img *Image[T]) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image[T]) Height() int {
	return img.height
}

// Kind returns the element representation.
func (img *Image[T]) Kind() Kind {
	return KindOf[T]()
}

// Pix returns the backing slice, row-major.
func (img *Image[T]) Pix() []T {
	return img.pix
}

// Bounds returns the full image rectangle.
func (img *Image[T]) Bounds() geometry.RectInt {
	return geometry.RectInt{Width: img.width, Height: img.height}
}

// SameSize reports whether two buffers have the same dimensions.
func SameSize(a, b Buffer) bool {
	return a.Width() == b.Width() && a.Height() == b.Height()
}

// In reports whether (x, y) is inside the image.
func (img *Image[T]) In(x, y int) bool {
	return x >= 0 && x < img.width && y >= 0 && y < img.height
}

// At returns the value at (x, y).
func (img *Image[T]) At(x, y int) (T, error) {
	if !img.In(x, y) {
		var zero T
		return zero, fmt.Errorf("read (%d,%d) in %dx%d: %w", x, y, img.width, img.height, ErrCoordinateOutOfRange)
	}
	return img.pix[y*img.width+x], nil
}

// Set stores v at (x, y).
func (img *Image[T]) Set(x, y int, v T) error {
	if !img.In(x, y) {
		return fmt.Errorf("write (%d,%d) in %dx%d: %w", x, y, img.width, img.height, ErrCoordinateOutOfRange)
	}
	img.pix[y*img.width+x] = v
	return nil
}

// Get returns the value at (x, y) without bounds reporting. Engine loops use
// it after validating their ranges; an invalid coordinate panics.
func (img *Image[T]) Get(x, y int) T {
	return img.pix[y*img.width+x]
}

// Put stores v at (x, y) without bounds reporting.
func (img *Image[T]) Put(x, y int, v T) {
	img.pix[y*img.width+x] = v
}

// Row returns the pixels of row y, sharing storage with the image.
func (img *Image[T]) Row(y int) []T {
	start := y * img.width
	return img.pix[start : start+img.width]
}

// Fill sets all pixels to v.
func (img *Image[T]) Fill(v T) {
	for i := range img.pix {
		img.pix[i] = v
	}
}

// Clone creates a deep copy of the image.
func (img *Image[T]) Clone() *Image[T] {
	clone := &Image[T]{width: img.width, height: img.height}
	if img.pix != nil {
		clone.pix = make([]T, len(img.pix))
		copy(clone.pix, img.pix)
	}
	return clone
}

// Crop returns a copy of the rectangle r.
func (img *Image[T]) Crop(r geometry.RectInt) (*Image[T], error) {
	if !r.Within(img.width, img.height) {
		return nil, fmt.Errorf("crop %+v from %dx%d: %w", r, img.width, img.height, ErrCoordinateOutOfRange)
	}
	out := New[T](r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		src := img.pix[(r.Y+y)*img.width+r.X:]
		copy(out.Row(y), src[:r.Width])
	}
	return out, nil
}

// Describe returns a short "WxH kind" summary of any buffer.
func Describe(b Buffer) string {
	switch b.(type) {
	case *Image[ARGB], *Image[uint8], *Image[Fixed], *Image[float32]:
		return fmt.Sprintf("%dx%d %s", b.Width(), b.Height(), b.Kind())
	default:
		return "unsupported buffer"
	}
}

// Wrap converts a typed result into a Buffer result, keeping a nil image a
// nil interface.
func Wrap[T Pixel](img *Image[T], err error) (Buffer, error) {
	if err != nil || img == nil {
		return nil, err
	}
	return img, nil
}
