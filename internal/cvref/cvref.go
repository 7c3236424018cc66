//go:build gocv

// Package cvref runs the zone locator pipeline on OpenCV so the pure Go
// engine can be checked against it. It needs the gocv build tag and a local
// OpenCV installation.
package cvref

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"

	"mrz-locator/internal/mrz"
	"mrz-locator/internal/pixmap"
	"mrz-locator/internal/rowpool"
	"mrz-locator/pkg/colorutil"
	"mrz-locator/pkg/geometry"
)

// ToMat copies a buffer into a Mat. Packed colour becomes 8-bit BGR, every
// other kind becomes 8-bit gray scaled from [0, Full].
func ToMat(b pixmap.Buffer) (gocv.Mat, error) {
	switch img := b.(type) {
	case *pixmap.Image[pixmap.ARGB]:
		return colorMat(img), nil
	case *pixmap.Image[uint8]:
		return grayMat(img), nil
	case *pixmap.Image[pixmap.Fixed]:
		return grayMat(img), nil
	case *pixmap.Image[float32]:
		return grayMat(img), nil
	default:
		return gocv.Mat{}, fmt.Errorf("mat from %T: %w", b, pixmap.ErrUnsupportedElement)
	}
}

func colorMat(img *pixmap.Image[pixmap.ARGB]) gocv.Mat {
	w, h := img.Width(), img.Height()
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	rowpool.ParallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x, p := range img.Row(y) {
				_, r, g, b := colorutil.Unpack(uint32(p))
				mat.SetUCharAt(y, x*3+0, b)
				mat.SetUCharAt(y, x*3+1, g)
				mat.SetUCharAt(y, x*3+2, r)
			}
		}
	})
	return mat
}

func grayMat[T pixmap.Scalar](img *pixmap.Image[T]) gocv.Mat {
	w, h := img.Width(), img.Height()
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	rowpool.ParallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x, v := range img.Row(y) {
				mat.SetUCharAt(y, x, pixmap.FromUnit[uint8](pixmap.ToUnit(v)))
			}
		}
	})
	return mat
}

// FromMat copies a single-channel 8-bit Mat into an image.
func FromMat(mat gocv.Mat) (*pixmap.Image[uint8], error) {
	if mat.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("image from mat type %v: %w", mat.Type(), pixmap.ErrUnsupportedElement)
	}
	h, w := mat.Rows(), mat.Cols()
	out := pixmap.New[uint8](w, h)
	rowpool.ParallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := out.Row(y)
			for x := range row {
				row[x] = mat.GetUCharAt(y, x)
			}
		}
	})
	return out, nil
}

// Region is a zone candidate found by OpenCV, in working coordinates.
type Region struct {
	Bounds  geometry.RectInt
	Outline []geometry.PointInt
}

// Result mirrors mrz.Result closely enough to compare the two.
type Result struct {
	Width, Height int
	Threshold     float64 // Otsu cut-off on the 0..255 scale
	Regions       int
	Candidates    []Region // Widest first
	Stages        []mrz.Stage
}

type pipeline struct {
	res  *Result
	keep bool
}

func (pl *pipeline) stage(name string, m gocv.Mat) error {
	if !pl.keep {
		return nil
	}
	img, err := FromMat(m)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	pl.res.Stages = append(pl.res.Stages, mrz.Stage{Name: name, Buffer: img})
	return nil
}

// Locate runs the OpenCV rendition of mrz.Locate with the same parameters.
// Stage names match those recorded by mrz.Locate.
func Locate(img *pixmap.Image[pixmap.ARGB], p mrz.Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if img.Width() == 0 || img.Height() == 0 {
		return nil, fmt.Errorf("locate in %s: %w", pixmap.Describe(img), pixmap.ErrInvalidArgument)
	}
	if p.Gradient != "scharr-x" && p.Gradient != "sobel-x" {
		return nil, fmt.Errorf("gradient %q has no OpenCV counterpart: %w", p.Gradient, pixmap.ErrInvalidArgument)
	}
	pl := &pipeline{res: &Result{}, keep: p.KeepStages}

	src := colorMat(img)
	defer src.Close()

	work := gocv.NewMat()
	defer work.Close()
	if p.WorkingWidth > 0 && img.Width() != p.WorkingWidth {
		h := max(1, int(float64(img.Height())*float64(p.WorkingWidth)/float64(img.Width())+0.5))
		gocv.Resize(src, &work, image.Point{X: p.WorkingWidth, Y: h}, 0, 0, gocv.InterpolationNearestNeighbor)
	} else {
		src.CopyTo(&work)
	}
	w, h := work.Cols(), work.Rows()
	pl.res.Width, pl.res.Height = w, h

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(work, &gray, gocv.ColorBGRToGray)
	if err := pl.stage("gray", gray); err != nil {
		return nil, err
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: p.BlurSize, Y: p.BlurSize}, p.BlurSigma, p.BlurSigma, gocv.BorderReplicate)
	if err := pl.stage("blur", blurred); err != nil {
		return nil, err
	}

	hatSize, closeSize, mergeSize := p.Elements(w, h)
	hatEl := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: hatSize, Y: hatSize})
	defer hatEl.Close()
	hat := gocv.NewMat()
	defer hat.Close()
	gocv.MorphologyEx(blurred, &hat, gocv.MorphBlackhat, hatEl)
	if err := pl.stage("blackhat", hat); err != nil {
		return nil, err
	}

	// 32-bit float keeps the signed response before taking magnitudes
	grad := gocv.NewMat()
	defer grad.Close()
	if p.Gradient == "scharr-x" {
		gocv.Scharr(hat, &grad, gocv.MatTypeCV32F, 1, 0, 1, 0, gocv.BorderReplicate)
	} else {
		gocv.Sobel(hat, &grad, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderReplicate)
	}
	mag := gocv.NewMat()
	defer mag.Close()
	gocv.ConvertScaleAbs(grad, &mag, 1.0/16, 0)
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Normalize(mag, &edges, 0, 255, gocv.NormMinMax)
	if err := pl.stage("gradient", edges); err != nil {
		return nil, err
	}

	closeEl := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: closeSize, Y: closeSize})
	defer closeEl.Close()
	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(edges, &closed, gocv.MorphClose, closeEl)
	if err := pl.stage("close", closed); err != nil {
		return nil, err
	}

	binary := gocv.NewMat()
	defer binary.Close()
	pl.res.Threshold = float64(gocv.Threshold(closed, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu))
	if err := pl.stage("threshold", binary); err != nil {
		return nil, err
	}

	mergeEl := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: mergeSize, Y: mergeSize})
	defer mergeEl.Close()
	merged := gocv.NewMat()
	defer merged.Close()
	gocv.MorphologyEx(binary, &merged, gocv.MorphClose, mergeEl)
	if err := pl.stage("merge", merged); err != nil {
		return nil, err
	}

	contours := gocv.FindContours(merged, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()
	pl.res.Regions = contours.Size()

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		r := gocv.BoundingRect(contour)
		bounds := geometry.RectInt{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
		if float64(bounds.Width)/float64(w) < p.MinWidthRatio {
			continue
		}
		if float64(bounds.Height)/float64(bounds.Width) > p.MaxAspect {
			continue
		}
		approx := gocv.ApproxPolyDP(contour, p.Epsilon(bounds.Width, bounds.Height), true)
		outline := make([]geometry.PointInt, 0, approx.Size())
		for _, pt := range approx.ToPoints() {
			outline = append(outline, geometry.PointInt{X: pt.X, Y: pt.Y})
		}
		approx.Close()
		if p.RequireQuad && (len(outline) != 4 || !geometry.IsConvex(outline)) {
			continue
		}
		pl.res.Candidates = append(pl.res.Candidates, Region{Bounds: bounds, Outline: outline})
	}
	sort.SliceStable(pl.res.Candidates, func(i, j int) bool {
		return pl.res.Candidates[i].Bounds.Width > pl.res.Candidates[j].Bounds.Width
	})
	return pl.res, nil
}
