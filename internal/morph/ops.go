package morph

import (
	"fmt"

	"mrz-locator/internal/pixmap"
)

// Op names a morphological operation.
type Op int

const (
	OpErode    Op = iota
	OpDilate      // Grow bright regions
	OpOpen        // Erode then dilate: removes small bright specks
	OpClose       // Dilate then erode: fills small dark gaps
	OpGradient    // Dilate minus erode: region boundaries
	OpWhiteHat    // Image minus opening: small bright features
	OpBlackHat    // Closing minus image: small dark features
)

func (op Op) String() string {
	switch op {
	case OpErode:
		return "erode"
	case OpDilate:
		return "dilate"
	case OpOpen:
		return "open"
	case OpClose:
		return "close"
	case OpGradient:
		return "gradient"
	case OpWhiteHat:
		return "whitehat"
	case OpBlackHat:
		return "blackhat"
	default:
		return "unknown"
	}
}

// Open erodes then dilates with the same element.
func Open[T pixmap.Scalar](img *pixmap.Image[T], el Element) (*pixmap.Image[T], error) {
	eroded, err := Erode(img, el)
	if err != nil {
		return nil, err
	}
	return Dilate(eroded, el)
}

// Close dilates then erodes with the same element.
func Close[T pixmap.Scalar](img *pixmap.Image[T], el Element) (*pixmap.Image[T], error) {
	dilated, err := Dilate(img, el)
	if err != nil {
		return nil, err
	}
	return Erode(dilated, el)
}

// Gradient returns dilation minus erosion.
func Gradient[T pixmap.Scalar](img *pixmap.Image[T], el Element) (*pixmap.Image[T], error) {
	dilated, err := Dilate(img, el)
	if err != nil {
		return nil, err
	}
	eroded, err := Erode(img, el)
	if err != nil {
		return nil, err
	}
	return subtract(dilated, eroded), nil
}

// WhiteHat returns img minus its opening (top-hat).
func WhiteHat[T pixmap.Scalar](img *pixmap.Image[T], el Element) (*pixmap.Image[T], error) {
	opened, err := Open(img, el)
	if err != nil {
		return nil, err
	}
	return subtract(img, opened), nil
}

// BlackHat returns the closing of img minus img. Dark print on a lighter
// page comes out bright.
func BlackHat[T pixmap.Scalar](img *pixmap.Image[T], el Element) (*pixmap.Image[T], error) {
	closed, err := Close(img, el)
	if err != nil {
		return nil, err
	}
	return subtract(closed, img), nil
}

// Apply runs op on img.
func Apply[T pixmap.Scalar](img *pixmap.Image[T], op Op, el Element) (*pixmap.Image[T], error) {
	switch op {
	case OpErode:
		return Erode(img, el)
	case OpDilate:
		return Dilate(img, el)
	case OpOpen:
		return Open(img, el)
	case OpClose:
		return Close(img, el)
	case OpGradient:
		return Gradient(img, el)
	case OpWhiteHat:
		return WhiteHat(img, el)
	case OpBlackHat:
		return BlackHat(img, el)
	default:
		return nil, fmt.Errorf("morphology op %d: %w", int(op), pixmap.ErrInvalidArgument)
	}
}

// Iterate applies op n times, feeding each result into the next pass.
// n <= 0 returns a copy of img.
func Iterate[T pixmap.Scalar](img *pixmap.Image[T], op Op, el Element, n int) (*pixmap.Image[T], error) {
	cur := img.Clone()
	for i := 0; i < n; i++ {
		next, err := Apply(cur, op, el)
		if err != nil {
			return nil, fmt.Errorf("%s pass %d: %w", op, i+1, err)
		}
		cur = next
	}
	return cur, nil
}

// Highlight runs op and binarizes the response: pixels whose response
// exceeds bias become Full, all others zero. op must be one of the
// difference operators (gradient, white-hat, black-hat).
func Highlight[T pixmap.Scalar](img *pixmap.Image[T], op Op, el Element, bias T) (*pixmap.Image[T], error) {
	switch op {
	case OpGradient, OpWhiteHat, OpBlackHat:
	default:
		return nil, fmt.Errorf("highlight with %s: %w", op, pixmap.ErrInvalidArgument)
	}
	resp, err := Apply(img, op, el)
	if err != nil {
		return nil, err
	}
	full := pixmap.Full[T]()
	pix := resp.Pix()
	for i, v := range pix {
		if v > bias {
			pix[i] = full
		} else {
			pix[i] = 0
		}
	}
	return resp, nil
}

// HighlightFeatures marks region boundaries: the morphological gradient
// thresholded at bias.
func HighlightFeatures[T pixmap.Scalar](img *pixmap.Image[T], el Element, bias T) (*pixmap.Image[T], error) {
	return Highlight(img, OpGradient, el, bias)
}

// ApplyTo is Apply for a buffer of unknown representation. Packed colour
// has no ordering and is rejected.
func ApplyTo(b pixmap.Buffer, op Op, el Element) (pixmap.Buffer, error) {
	switch img := b.(type) {
	case *pixmap.Image[uint8]:
		out, err := Apply(img, op, el)
		return pixmap.Wrap(out, err)
	case *pixmap.Image[pixmap.Fixed]:
		out, err := Apply(img, op, el)
		return pixmap.Wrap(out, err)
	case *pixmap.Image[float32]:
		out, err := Apply(img, op, el)
		return pixmap.Wrap(out, err)
	default:
		return nil, fmt.Errorf("%s on %s: %w", op, b.Kind(), pixmap.ErrUnsupportedElement)
	}
}
