package pixmap

import "errors"

// Errors reported by buffer operations. Callers match them with errors.Is;
// call sites wrap them with the offending values.
var (
	// ErrUnsupportedElement is returned when an operation is invoked on a
	// buffer whose element representation it does not handle.
	ErrUnsupportedElement = errors.New("unsupported element representation")

	// ErrDimensionMismatch is returned when sizes disagree: data length vs
	// width*height, two combined buffers, or kernel weights vs kernel shape.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidKernelSize is returned for even or non-positive kernel and
	// structuring element sizes.
	ErrInvalidKernelSize = errors.New("invalid kernel size")

	// ErrCoordinateOutOfRange is returned for indexed access or crop
	// rectangles outside the buffer.
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")

	// ErrInvalidArgument is returned for other out-of-domain parameters,
	// such as fewer than two colour levels.
	ErrInvalidArgument = errors.New("invalid argument")
)
