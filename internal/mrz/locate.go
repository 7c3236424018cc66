// Package mrz finds the machine-readable zone on a photographed or scanned
// identity document.
//
// Locate composes the pixel engine packages into a fixed pipeline:
//
//	resize, grayscale, Gaussian blur, black-hat, horizontal gradient,
//	absolute value, contrast stretch, closing, Otsu threshold, second
//	closing, connected components, geometric filter, crop
//
// Finding no zone is a normal outcome and yields an empty Result.
package mrz

import (
	"fmt"
	"log"
	"sort"

	"mrz-locator/internal/blob"
	"mrz-locator/internal/convolve"
	"mrz-locator/internal/morph"
	"mrz-locator/internal/pixmap"
	"mrz-locator/internal/threshold"
	"mrz-locator/internal/warp"
	"mrz-locator/pkg/geometry"
)

// Candidate is a region that passed the filter.
type Candidate struct {
	Object  blob.Object         // In working coordinates
	Outline []geometry.PointInt // Simplified contour
	// SourceBounds is the region's bounding box in input coordinates.
	SourceBounds geometry.RectInt
	WidthRatio   float64 // Region width over working width
}

// Stage is an intermediate buffer kept for inspection.
type Stage struct {
	Name   string
	Buffer pixmap.Buffer
}

// Result holds the outcome of Locate.
type Result struct {
	Width, Height int     // Working size
	Scale         float64 // Working size over input size
	Threshold     threshold.Result[pixmap.Fixed]
	Regions       int         // Connected regions examined
	Candidates    []Candidate // Widest first
	// Crop is the best candidate cut from the pre-threshold buffer, nil
	// without candidates.
	Crop   *pixmap.Image[pixmap.Fixed]
	Stages []Stage
}

// Best returns the widest candidate, or nil.
func (r *Result) Best() *Candidate {
	if len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}

type run struct {
	p   Params
	res *Result
}

func (r *run) stage(name string, b pixmap.Buffer) {
	if r.p.Debug {
		log.Printf("mrz: %-9s %s", name, pixmap.Describe(b))
	}
	if r.p.KeepStages {
		r.res.Stages = append(r.res.Stages, Stage{Name: name, Buffer: b})
	}
}

func (r *run) logf(format string, args ...any) {
	if r.p.Debug {
		log.Printf("mrz: "+format, args...)
	}
}

// Locate runs the pipeline over img.
func Locate(img *pixmap.Image[pixmap.ARGB], p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if img.Width() == 0 || img.Height() == 0 {
		return nil, fmt.Errorf("locate in %s: %w", pixmap.Describe(img), pixmap.ErrInvalidArgument)
	}
	r := &run{p: p, res: &Result{Scale: 1}}

	work := img
	if p.WorkingWidth > 0 && img.Width() != p.WorkingWidth {
		var err error
		work, r.res.Scale, err = warp.ResizeToWidth(img, p.WorkingWidth)
		if err != nil {
			return nil, fmt.Errorf("resize: %w", err)
		}
		r.stage("resize", work)
	}
	w, h := work.Width(), work.Height()
	r.res.Width, r.res.Height = w, h

	gray := pixmap.GrayFixed(work)
	r.stage("gray", gray)

	gauss, err := convolve.GaussianBlur(p.BlurSize, p.BlurSigma)
	if err != nil {
		return nil, fmt.Errorf("blur: %w", err)
	}
	blurred, err := convolve.Apply(gray, gauss)
	if err != nil {
		return nil, fmt.Errorf("blur: %w", err)
	}
	r.stage("blur", blurred)

	hatSize, closeSize, mergeSize := p.Elements(w, h)
	hatEl, _ := morph.NewElement(hatSize)
	hat, err := morph.BlackHat(blurred, hatEl)
	if err != nil {
		return nil, fmt.Errorf("black-hat: %w", err)
	}
	r.stage("blackhat", hat)

	grad, _ := convolve.ByName(p.Gradient)
	edges, err := convolve.Apply(hat, grad)
	if err != nil {
		return nil, fmt.Errorf("gradient: %w", err)
	}
	pixmap.AbsInPlace(edges)
	pixmap.StretchInPlace(edges)
	r.stage("gradient", edges)

	closeEl, _ := morph.NewElement(closeSize)
	pre, err := morph.Close(edges, closeEl)
	if err != nil {
		return nil, fmt.Errorf("close: %w", err)
	}
	r.stage("close", pre)

	bin := pre.Clone()
	r.res.Threshold = threshold.Auto(bin, pixmap.FixedOne)
	if r.res.Threshold.Degenerate {
		r.logf("no structure, histogram is a single value")
		return r.res, nil
	}
	r.logf("otsu threshold %.4f", pixmap.FixedToFloat(r.res.Threshold.Threshold))
	r.stage("threshold", bin)

	mergeEl, _ := morph.NewElement(mergeSize)
	merged, err := morph.Close(bin, mergeEl)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	r.stage("merge", merged)

	objects := blob.Label(merged, p.Connectivity)
	r.res.Regions = len(objects.Objects)
	r.res.Candidates = r.filter(objects, img)

	if best := r.res.Best(); best != nil {
		crop, _, err := blob.Extract(objects, pre, best.Object.ID)
		if err != nil {
			return nil, fmt.Errorf("extract: %w", err)
		}
		r.res.Crop = crop
		r.stage("crop", crop)
	}
	return r.res, nil
}

// filter keeps wide, flat, quadrilateral regions, widest first.
func (r *run) filter(m *blob.ObjectMap, src *pixmap.Image[pixmap.ARGB]) []Candidate {
	var out []Candidate
	for _, o := range m.Objects {
		ratio := float64(o.Bounds.Width) / float64(r.res.Width)
		if ratio < r.p.MinWidthRatio {
			continue
		}
		if o.AspectRatio() > r.p.MaxAspect {
			r.logf("region %d at %+v rejected: aspect %.3f", o.ID, o.Bounds, o.AspectRatio())
			continue
		}
		outline := o.Simplify(r.p.Epsilon(o.Bounds.Width, o.Bounds.Height))
		if r.p.RequireQuad && (len(outline) != 4 || !geometry.IsConvex(outline)) {
			r.logf("region %d at %+v rejected: outline has %d points", o.ID, o.Bounds, len(outline))
			continue
		}
		inv := 1 / r.res.Scale
		out = append(out, Candidate{
			Object:       o,
			Outline:      outline,
			SourceBounds: o.Bounds.Scale(inv, inv).Intersect(src.Bounds()),
			WidthRatio:   ratio,
		})
		r.logf("region %d at %+v accepted: width %.0f%%", o.ID, o.Bounds, 100*ratio)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Object.Bounds.Width > out[j].Object.Bounds.Width
	})
	return out
}
