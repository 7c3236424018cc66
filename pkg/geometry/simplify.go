package geometry

import "math"

// Simplify reduces the vertex count of a closed contour with the
// Douglas-Peucker algorithm. Vertices deviating from the simplified chord by
// no more than epsilon are dropped. The result keeps the input winding and
// ring order.
//
// The ring is split at two anchors that are always kept: the vertex with the
// smallest x+y (ties broken by smaller y) and the vertex farthest from it.
// Both depend only on coordinates, so where the trace happened to start does
// not change the result.
//
// epsilon <= 0 returns a copy of the input. A larger epsilon never yields more
// vertices than a smaller one, and simplifying an already simplified contour
// with the same epsilon returns it unchanged.
func Simplify(contour []PointInt, epsilon float64) []PointInt {
	n := len(contour)
	if epsilon <= 0 || n <= 3 {
		return append([]PointInt(nil), contour...)
	}

	anchor := 0
	for i, p := range contour {
		a := contour[anchor]
		if s, t := p.X+p.Y, a.X+a.Y; s < t || (s == t && p.Y < a.Y) {
			anchor = i
		}
	}
	far := anchor
	best := 0
	for i, p := range contour {
		dx := p.X - contour[anchor].X
		dy := p.Y - contour[anchor].Y
		d := dx*dx + dy*dy
		if d > best || (d == best && d > 0 && less(p, contour[far])) {
			best = d
			far = i
		}
	}
	if best == 0 {
		return []PointInt{contour[anchor]}
	}

	lo, hi := min(anchor, far), max(anchor, far)
	keep := make([]bool, n)
	keep[lo] = true
	keep[hi] = true
	markChain(contour, lo, hi, epsilon, keep)
	markChain(contour, hi, lo+n, epsilon, keep)

	result := make([]PointInt, 0, 8)
	for i, k := range keep {
		if k {
			result = append(result, contour[i])
		}
	}
	return result
}

// less orders points by y, then x.
func less(a, b PointInt) bool {
	return a.Y < b.Y || (a.Y == b.Y && a.X < b.X)
}

type chainSpan struct {
	lo, hi int
}

// markChain flags the vertices Douglas-Peucker keeps between ring indices lo
// and hi. hi may exceed len(pts), in which case the chain wraps past the
// first vertex. An explicit stack replaces recursion so long contours cannot
// exhaust the goroutine stack.
func markChain(pts []PointInt, lo, hi int, epsilon float64, keep []bool) {
	n := len(pts)
	stack := []chainSpan{{lo: lo, hi: hi}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}

		a := pts[s.lo%n].ToFloat()
		b := pts[s.hi%n].ToFloat()
		dmax := 0.0
		index := -1
		for i := s.lo + 1; i < s.hi; i++ {
			if d := perpendicularDistance(pts[i%n].ToFloat(), a, b); d > dmax {
				dmax = d
				index = i
			}
		}

		if dmax > epsilon {
			keep[index%n] = true
			stack = append(stack, chainSpan{lo: index, hi: s.hi}, chainSpan{lo: s.lo, hi: index})
		}
	}
}

// perpendicularDistance calculates the perpendicular distance from point p to line a-b.
func perpendicularDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if dx == 0 && dy == 0 {
		// a and b are the same point
		return math.Sqrt((p.X-a.X)*(p.X-a.X) + (p.Y-a.Y)*(p.Y-a.Y))
	}

	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	den := math.Sqrt(dx*dx + dy*dy)
	return num / den
}
