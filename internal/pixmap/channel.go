package pixmap

import (
	"fmt"

	"mrz-locator/pkg/colorutil"
)

// Channel selects one 8-bit field of a packed pixel.
type Channel int

const (
	Alpha Channel = iota
	Red
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Alpha:
		return "alpha"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

func (c Channel) shift() (uint, error) {
	switch c {
	case Alpha:
		return colorutil.ShiftAlpha, nil
	case Red:
		return colorutil.ShiftRed, nil
	case Green:
		return colorutil.ShiftGreen, nil
	case Blue:
		return colorutil.ShiftBlue, nil
	default:
		return 0, fmt.Errorf("channel %d: %w", int(c), ErrInvalidArgument)
	}
}

// ExtractChannel copies one channel of a packed-colour image into an 8-bit
// image. Values are taken unchanged.
func ExtractChannel(img *Image[ARGB], c Channel) (*Image[uint8], error) {
	shift, err := c.shift()
	if err != nil {
		return nil, err
	}
	out := New[uint8](img.width, img.height)
	for i, p := range img.pix {
		out.pix[i] = uint8(uint32(p) >> shift)
	}
	return out, nil
}

// ExtractChannelFrom is ExtractChannel for a buffer of unknown representation.
func ExtractChannelFrom(b Buffer, c Channel) (*Image[uint8], error) {
	img, ok := b.(*Image[ARGB])
	if !ok {
		return nil, fmt.Errorf("extract %s channel from %s: %w", c, b.Kind(), ErrUnsupportedElement)
	}
	return ExtractChannel(img, c)
}

// GrayFloat converts packed colour to luma in [0, 1].
func GrayFloat(img *Image[ARGB]) *Image[float32] {
	out := New[float32](img.width, img.height)
	const scale = 1.0 / (255 << 16)
	for i, p := range img.pix {
		_, r, g, b := colorutil.Unpack(uint32(p))
		out.pix[i] = float32(float64(colorutil.Luma16(r, g, b)) * scale)
	}
	return out
}

// GrayFixed converts packed colour to luma in [0, FixedOne]. The weights are
// the same as GrayFloat, applied in integer arithmetic.
func GrayFixed(img *Image[ARGB]) *Image[Fixed] {
	out := New[Fixed](img.width, img.height)
	for i, p := range img.pix {
		_, r, g, b := colorutil.Unpack(uint32(p))
		// luma16 * 2^24 / (255 * 2^16) == luma16 * 256 / 255
		out.pix[i] = Fixed(int64(colorutil.Luma16(r, g, b)) << 8 / 255)
	}
	return out
}

// GrayFixedFrom converts any buffer into the fixed-point gray domain.
func GrayFixedFrom(b Buffer) (*Image[Fixed], error) {
	switch img := b.(type) {
	case *Image[ARGB]:
		return GrayFixed(img), nil
	case *Image[uint8]:
		return ChannelToFixed(img), nil
	case *Image[Fixed]:
		return img.Clone(), nil
	case *Image[float32]:
		return FloatImageToFixed(img), nil
	default:
		return nil, fmt.Errorf("gray from %T: %w", b, ErrUnsupportedElement)
	}
}

// GrayFloatFrom converts any buffer into the floating-point gray domain.
func GrayFloatFrom(b Buffer) (*Image[float32], error) {
	switch img := b.(type) {
	case *Image[ARGB]:
		return GrayFloat(img), nil
	case *Image[uint8]:
		return ChannelToFloat(img), nil
	case *Image[Fixed]:
		return FixedImageToFloat(img), nil
	case *Image[float32]:
		return img.Clone(), nil
	default:
		return nil, fmt.Errorf("gray from %T: %w", b, ErrUnsupportedElement)
	}
}

// ChannelToFixed rescales an 8-bit channel to [0, FixedOne].
func ChannelToFixed(img *Image[uint8]) *Image[Fixed] {
	out := New[Fixed](img.width, img.height)
	for i, v := range img.pix {
		out.pix[i] = Fixed(int64(v) << 24 / 255)
	}
	return out
}

// ChannelToFloat rescales an 8-bit channel to [0, 1].
func ChannelToFloat(img *Image[uint8]) *Image[float32] {
	out := New[float32](img.width, img.height)
	for i, v := range img.pix {
		out.pix[i] = float32(v) / 255
	}
	return out
}

// FixedImageToFloat converts a fixed-point image to floating point.
func FixedImageToFloat(img *Image[Fixed]) *Image[float32] {
	out := New[float32](img.width, img.height)
	for i, v := range img.pix {
		out.pix[i] = FixedToFloat(v)
	}
	return out
}

// FloatImageToFixed converts a floating-point image to fixed point.
func FloatImageToFixed(img *Image[float32]) *Image[Fixed] {
	out := New[Fixed](img.width, img.height)
	for i, v := range img.pix {
		out.pix[i] = FloatToFixed(v)
	}
	return out
}

// ToARGB renders a single-valued image as opaque gray. Values are clamped to
// [0, Full].
func ToARGB[T Scalar](img *Image[T]) *Image[ARGB] {
	out := New[ARGB](img.width, img.height)
	for i, v := range img.pix {
		g := uint8(clampUnit(ToUnit(v))*255 + 0.5)
		out.pix[i] = ARGB(colorutil.Pack(255, g, g, g))
	}
	return out
}

// ReduceColors quantizes [0, Full] into n evenly spaced levels. With n == 2
// the result is binary: 0 or Full.
func ReduceColors[T Scalar](img *Image[T], n int) (*Image[T], error) {
	if n < 2 {
		return nil, fmt.Errorf("reduce to %d levels: %w", n, ErrInvalidArgument)
	}
	levels := make([]T, n)
	for i := range levels {
		levels[i] = FromUnit[T](float64(i) / float64(n-1))
	}
	out := New[T](img.width, img.height)
	for i, v := range img.pix {
		out.pix[i] = levels[levelIndex(ToUnit(v), n)]
	}
	return out, nil
}

// ReduceColorsARGB quantizes each colour channel into n levels, keeping alpha.
func ReduceColorsARGB(img *Image[ARGB], n int) (*Image[ARGB], error) {
	if n < 2 {
		return nil, fmt.Errorf("reduce to %d levels: %w", n, ErrInvalidArgument)
	}
	var lut [256]uint8
	for v := range lut {
		idx := levelIndex(float64(v)/255, n)
		lut[v] = uint8(float64(idx)*255/float64(n-1) + 0.5)
	}
	out := New[ARGB](img.width, img.height)
	for i, p := range img.pix {
		a, r, g, b := colorutil.Unpack(uint32(p))
		out.pix[i] = ARGB(colorutil.Pack(a, lut[r], lut[g], lut[b]))
	}
	return out, nil
}

func levelIndex(unit float64, n int) int {
	idx := int(clampUnit(unit) * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func clampUnit(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
