package pixmap

import "math"

// Scalar is the set of single-valued element representations. Algorithms
// written once over Scalar serve the channel, fixed-point and floating-point
// domains alike.
type Scalar interface {
	uint8 | Fixed | float32
}

// Intensity is the set of signed intensity domains: the fixed-point path
// avoids floating point, the float path avoids rounding.
type Intensity interface {
	Fixed | float32
}

// Full returns the full-scale value of the domain: 255, FixedOne or 1.0.
func Full[T Scalar]() T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(255)
	case Fixed:
		one := FixedOne
		return T(one)
	default:
		return T(1)
	}
}

// IsFloat reports whether T is the floating-point domain.
func IsFloat[T Scalar]() bool {
	var zero T
	_, ok := any(zero).(float32)
	return ok
}

// FromUnit converts a fraction of full scale into the domain of T, rounding
// to the nearest step for the integer domains and saturating uint8.
func FromUnit[T Scalar](f float64) T {
	v := f * float64(Full[T]())
	if IsFloat[T]() {
		return T(v)
	}
	v = math.Round(v)
	if KindOf[T]() == KindChannel {
		v = math.Max(0, math.Min(255, v))
	}
	return T(v)
}

// ToUnit converts a domain value into a fraction of full scale.
func ToUnit[T Scalar](v T) float64 {
	return float64(v) / float64(Full[T]())
}

// FloatToFixed converts a floating-point value to fixed point.
func FloatToFixed(f float32) Fixed {
	return Fixed(math.Round(float64(f) * float64(FixedOne)))
}

// FixedToFloat converts a fixed-point value to floating point.
func FixedToFloat(v Fixed) float32 {
	return float32(float64(v) / float64(FixedOne))
}
