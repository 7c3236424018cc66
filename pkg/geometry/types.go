// Package geometry provides basic geometric types used throughout the engine.
package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when an affine transform has no inverse.
var ErrSingular = errors.New("singular transform")

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns the sum of two points.
func (p PointInt) Add(other PointInt) PointInt {
	return PointInt{X: p.X + other.X, Y: p.Y + other.Y}
}

// RectInt represents a rectangle with integer coordinates.
// X and Y are inclusive, the rectangle spans [X, X+Width) x [Y, Y+Height).
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (r RectInt) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r RectInt) Bottom() int { return r.Y + r.Height }

// Area returns Width*Height.
func (r RectInt) Area() int { return r.Width * r.Height }

// Empty reports whether the rectangle has no pixels.
func (r RectInt) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains returns true if the point lies inside the rectangle.
func (r RectInt) Contains(p PointInt) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Within reports whether r lies entirely inside a width x height grid.
func (r RectInt) Within(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && !r.Empty() && r.Right() <= width && r.Bottom() <= height
}

// Union returns the smallest rectangle containing both rectangles.
// An empty rectangle is the identity.
func (r RectInt) Union(other RectInt) RectInt {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	x2 := max(r.Right(), other.Right())
	y2 := max(r.Bottom(), other.Bottom())
	return RectInt{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Intersect returns the overlap of two rectangles, empty when they do not meet.
func (r RectInt) Intersect(other RectInt) RectInt {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	x2 := min(r.Right(), other.Right())
	y2 := min(r.Bottom(), other.Bottom())
	if x2 <= x || y2 <= y {
		return RectInt{}
	}
	return RectInt{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Scale maps the rectangle through independent x and y factors, rounding outward.
func (r RectInt) Scale(sx, sy float64) RectInt {
	x0 := int(math.Floor(float64(r.X) * sx))
	y0 := int(math.Floor(float64(r.Y) * sy))
	x1 := int(math.Ceil(float64(r.Right()) * sx))
	y1 := int(math.Ceil(float64(r.Bottom()) * sy))
	return RectInt{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// AffineTransform represents the affine part of a 3x3 homogeneous matrix.
// [a b tx]
// [c d ty]
// [0 0 1 ]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity returns the identity transform.
func Identity() AffineTransform {
	return AffineTransform{A: 1, D: 1}
}

// Translation returns a translation transform.
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Rotation returns a rotation transform around the origin.
func Rotation(radians float64) AffineTransform {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return AffineTransform{A: cos, B: -sin, C: sin, D: cos}
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Compose returns this transform composed with another (this * other).
func (t AffineTransform) Compose(other AffineTransform) AffineTransform {
	return AffineTransform{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}

// Matrix returns the transform as a 3x3 homogeneous matrix.
func (t AffineTransform) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		t.A, t.B, t.TX,
		t.C, t.D, t.TY,
		0, 0, 1,
	})
}

// FromMatrix creates an AffineTransform from a 3x3 matrix. The bottom row
// is assumed to be [0 0 1] and is ignored.
func FromMatrix(m mat.Matrix) AffineTransform {
	return AffineTransform{
		A: m.At(0, 0), B: m.At(0, 1), TX: m.At(0, 2),
		C: m.At(1, 0), D: m.At(1, 1), TY: m.At(1, 2),
	}
}

// Inverse returns the inverse transform.
func (t AffineTransform) Inverse() (AffineTransform, error) {
	if math.Abs(t.A*t.D-t.B*t.C) < 1e-12 {
		return AffineTransform{}, ErrSingular
	}
	var inv mat.Dense
	if err := inv.Inverse(t.Matrix()); err != nil {
		return AffineTransform{}, ErrSingular
	}
	return FromMatrix(&inv), nil
}
