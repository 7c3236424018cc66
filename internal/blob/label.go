// Package blob labels connected foreground regions and traces their outlines.
package blob

import (
	"errors"
	"fmt"

	"mrz-locator/internal/pixmap"
	"mrz-locator/pkg/geometry"
)

// ErrUnknownObject is returned for an object id that is not in the map.
var ErrUnknownObject = errors.New("unknown object")

// Connectivity selects which neighbours join two foreground pixels.
type Connectivity int

const (
	Four  Connectivity = 4 // Edge neighbours only
	Eight Connectivity = 8 // Edge and corner neighbours
)

func (c Connectivity) String() string {
	if c == Four {
		return "4-connected"
	}
	return "8-connected"
}

// Object is one connected region.
type Object struct {
	ID     int32
	Bounds geometry.RectInt
	Area   int // Pixel count
	// Contour is the closed outer boundary, clockwise on screen, starting at
	// the region's first pixel in raster order. Consecutive points are
	// 8-neighbours; the last point connects back to the first.
	Contour []geometry.PointInt
}

// ObjectMap is the result of labelling an image. Labels holds the object id
// of every pixel row-major, zero for background. Objects[i].ID == i+1 and ids
// follow the raster order of each region's first pixel.
type ObjectMap struct {
	Width   int
	Height  int
	Labels  []int32
	Objects []Object
}

// Label finds the connected regions of non-zero pixels in img.
//
// It runs two raster passes with a union-find forest over provisional labels,
// so its cost is linear in the pixel count and it never recurses.
func Label[T pixmap.Scalar](img *pixmap.Image[T], conn Connectivity) *ObjectMap {
	w, h := img.Width(), img.Height()
	labels := make([]int32, w*h)
	parent := []int32{0}

	find := func(x int32) int32 {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int32) int32 {
		ra, rb := find(a), find(b)
		if ra == rb {
			return ra
		}
		if ra < rb {
			parent[rb] = ra
			return ra
		}
		parent[ra] = rb
		return rb
	}

	// join merges provisional label l with neighbour label n
	join := func(l, n int32) int32 {
		switch {
		case n == 0:
			return l
		case l == 0:
			return find(n)
		default:
			return union(l, n)
		}
	}

	// First pass: provisional labels from the already visited neighbours
	for y := 0; y < h; y++ {
		row := img.Row(y)
		cur := labels[y*w : (y+1)*w]
		var prev []int32
		if y > 0 {
			prev = labels[(y-1)*w : y*w]
		}
		for x, v := range row {
			if v == 0 {
				continue
			}
			var l int32
			if x > 0 {
				l = join(l, cur[x-1])
			}
			if prev != nil {
				l = join(l, prev[x])
				if conn == Eight {
					if x > 0 {
						l = join(l, prev[x-1])
					}
					if x+1 < w {
						l = join(l, prev[x+1])
					}
				}
			}
			if l == 0 {
				l = int32(len(parent))
				parent = append(parent, l)
			}
			cur[x] = l
		}
	}

	// Second pass: compact ids in order of first appearance
	final := make([]int32, len(parent))
	m := &ObjectMap{Width: w, Height: h, Labels: labels}
	for i, l := range labels {
		if l == 0 {
			continue
		}
		root := find(l)
		id := final[root]
		x, y := i%w, i/w
		if id == 0 {
			id = int32(len(m.Objects) + 1)
			final[root] = id
			m.Objects = append(m.Objects, Object{
				ID:      id,
				Bounds:  geometry.RectInt{X: x, Y: y, Width: 1, Height: 1},
				Contour: []geometry.PointInt{{X: x, Y: y}},
			})
		}
		labels[i] = id
		o := &m.Objects[id-1]
		o.Area++
		o.Bounds = o.Bounds.Union(geometry.RectInt{X: x, Y: y, Width: 1, Height: 1})
	}

	for i := range m.Objects {
		o := &m.Objects[i]
		o.Contour = m.trace(o.ID, o.Contour[0], o.Area)
	}
	return m
}

// Object returns the object with the given id.
func (m *ObjectMap) Object(id int32) (*Object, error) {
	if id < 1 || int(id) > len(m.Objects) {
		return nil, fmt.Errorf("object %d of %d: %w", id, len(m.Objects), ErrUnknownObject)
	}
	return &m.Objects[id-1], nil
}

// Mask returns a binary image with the pixels of the given objects set to 255.
func (m *ObjectMap) Mask(ids ...int32) (*pixmap.Image[uint8], error) {
	sel, err := m.selection(ids)
	if err != nil {
		return nil, err
	}
	out := pixmap.New[uint8](m.Width, m.Height)
	pix := out.Pix()
	for i, l := range m.Labels {
		if sel[l] {
			pix[i] = 255
		}
	}
	return out, nil
}

func (m *ObjectMap) selection(ids []int32) (map[int32]bool, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no objects selected: %w", pixmap.ErrInvalidArgument)
	}
	sel := make(map[int32]bool, len(ids))
	for _, id := range ids {
		if _, err := m.Object(id); err != nil {
			return nil, err
		}
		sel[id] = true
	}
	return sel, nil
}

// Extract copies the pixels of the selected objects out of ref, which must
// have the map's dimensions. The result covers the union of the objects'
// bounding boxes; pixels belonging to no selected object are zero.
func Extract[T pixmap.Pixel](m *ObjectMap, ref *pixmap.Image[T], ids ...int32) (*pixmap.Image[T], geometry.RectInt, error) {
	if ref.Width() != m.Width || ref.Height() != m.Height {
		return nil, geometry.RectInt{}, fmt.Errorf("extract from %s with %dx%d map: %w",
			pixmap.Describe(ref), m.Width, m.Height, pixmap.ErrDimensionMismatch)
	}
	sel, err := m.selection(ids)
	if err != nil {
		return nil, geometry.RectInt{}, err
	}

	var r geometry.RectInt
	for id := range sel {
		r = r.Union(m.Objects[id-1].Bounds)
	}
	out := pixmap.New[T](r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		src := ref.Row(r.Y + y)[r.X:r.Right()]
		lab := m.Labels[(r.Y+y)*m.Width+r.X:]
		dst := out.Row(y)
		for x, v := range src {
			if sel[lab[x]] {
				dst[x] = v
			}
		}
	}
	return out, r, nil
}
