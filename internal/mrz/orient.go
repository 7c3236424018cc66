package mrz

import (
	"golang.org/x/sync/errgroup"

	"mrz-locator/internal/pixmap"
	"mrz-locator/internal/warp"
)

// Orientations are the clockwise turns LocateAnyOrientation tries.
var Orientations = []int{0, 90, 180, 270}

// Oriented is a Result together with the turn applied to the input first.
type Oriented struct {
	*Result
	Degrees int
}

// LocateAnyOrientation runs Locate on each turned copy of img concurrently
// and picks the orientation that puts the zone where documents print it: in
// the lower half of the page. Among those, or if none qualifies, the widest
// best candidate wins, ties keeping the earlier entry of Orientations.
// Without any candidate the unrotated result is returned.
func LocateAnyOrientation(img *pixmap.Image[pixmap.ARGB], p Params) (Oriented, error) {
	results := make([]*Result, len(Orientations))
	var g errgroup.Group
	for i, deg := range Orientations {
		i, deg := i, deg
		g.Go(func() error {
			turned, err := warp.Rotate(img, float64(deg), 0)
			if err != nil {
				return err
			}
			res, err := Locate(turned, p)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Oriented{}, err
	}

	best := 0
	for i, res := range results {
		if better(res, results[best]) {
			best = i
		}
	}
	return Oriented{Result: results[best], Degrees: Orientations[best]}, nil
}

func better(a, b *Result) bool {
	ca, cb := a.Best(), b.Best()
	switch {
	case ca == nil:
		return false
	case cb == nil:
		return true
	}
	if la, lb := a.lowerHalf(), b.lowerHalf(); la != lb {
		return la
	}
	return ca.WidthRatio > cb.WidthRatio
}

func (r *Result) lowerHalf() bool {
	b := r.Best().Object.Bounds
	return 2*b.Y+b.Height > r.Height
}
