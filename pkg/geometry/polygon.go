package geometry

import "math"

// IsConvex returns true if the polygon vertices form a convex polygon.
// The polygon is assumed to be simple (non-self-intersecting).
func IsConvex(polygon []PointInt) bool {
	if len(polygon) < 3 {
		return false
	}

	n := len(polygon)
	var sign int

	for i := 0; i < n; i++ {
		cross := crossProduct(
			polygon[i],
			polygon[(i+1)%n],
			polygon[(i+2)%n],
		)

		if cross != 0 {
			currentSign := 1
			if cross < 0 {
				currentSign = -1
			}

			if sign == 0 {
				sign = currentSign
			} else if currentSign != sign {
				return false
			}
		}
	}

	return sign != 0
}

// Perimeter returns the length of the closed polygon.
func Perimeter(polygon []PointInt) float64 {
	if len(polygon) < 2 {
		return 0
	}
	var total float64
	for i := range polygon {
		total += polygon[i].ToFloat().Distance(polygon[(i+1)%len(polygon)].ToFloat())
	}
	return total
}

// Area returns the absolute area enclosed by the polygon (shoelace formula).
func Area(polygon []PointInt) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var twice int
	for i := range polygon {
		j := (i + 1) % len(polygon)
		twice += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(float64(twice)) / 2
}

// Bounds returns the bounding rectangle of a point set, in pixel units
// (a single point yields a 1x1 rectangle).
func Bounds(points []PointInt) RectInt {
	if len(points) == 0 {
		return RectInt{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return RectInt{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b PointInt) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
