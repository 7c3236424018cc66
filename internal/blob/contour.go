package blob

import (
	"mrz-locator/pkg/geometry"
)

// Moore neighbourhood, clockwise on screen starting east.
var moore = [8]geometry.PointInt{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

const west = 4

func (m *ObjectMap) is(id int32, p geometry.PointInt) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height && m.Labels[p.Y*m.Width+p.X] == id
}

// next searches clockwise around c starting after back and returns the first
// direction holding a pixel of object id, or -1.
func (m *ObjectMap) next(id int32, c geometry.PointInt, back int) int {
	for i := 1; i <= 8; i++ {
		d := (back + i) % 8
		if m.is(id, c.Add(moore[d])) {
			return d
		}
	}
	return -1
}

// trace follows the outer boundary of object id with Moore-neighbour tracing
// and Jacob's stopping criterion: it stops on re-entering start in the same
// direction it first left. start must be the object's first pixel in raster
// order, so its west neighbour is background.
func (m *ObjectMap) trace(id int32, start geometry.PointInt, area int) []geometry.PointInt {
	contour := []geometry.PointInt{start}
	first := m.next(id, start, west)
	if first < 0 {
		return contour
	}

	// A boundary pixel is entered at most four times
	limit := 4*area + 4
	c, d := start, first
	for step := 0; step < limit; step++ {
		c = c.Add(moore[d])
		// The last background pixel examined, seen from c
		back := (d + 6) % 8
		if d%2 == 1 {
			back = (d + 5) % 8
		}
		d = m.next(id, c, back)
		if c == start && d == first {
			break
		}
		contour = append(contour, c)
	}
	return contour
}

// AspectRatio returns height / width of the bounding box.
func (o *Object) AspectRatio() float64 {
	if o.Bounds.Width == 0 {
		return 0
	}
	return float64(o.Bounds.Height) / float64(o.Bounds.Width)
}

// Fill returns the fraction of the bounding box covered by the object.
func (o *Object) Fill() float64 {
	if o.Bounds.Area() == 0 {
		return 0
	}
	return float64(o.Area) / float64(o.Bounds.Area())
}

// Perimeter returns the length of the closed contour.
func (o *Object) Perimeter() float64 {
	return geometry.Perimeter(o.Contour)
}

// Simplify returns the contour reduced with tolerance epsilon. The object is
// not modified.
func (o *Object) Simplify(epsilon float64) []geometry.PointInt {
	return geometry.Simplify(o.Contour, epsilon)
}
