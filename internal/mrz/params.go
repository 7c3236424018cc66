package mrz

import (
	"fmt"
	"math"

	"mrz-locator/internal/blob"
	"mrz-locator/internal/convolve"
	"mrz-locator/internal/pixmap"
)

// Params tunes the locator. Element sizes are fractions of the working image
// so the same settings hold across resolutions.
type Params struct {
	// WorkingWidth is the width the input is resized to before processing.
	// Zero processes the input at its own size.
	WorkingWidth int

	BlurSize  int     // Gaussian kernel side
	BlurSigma float64 // 0 derives sigma from BlurSize

	// BlackHatRatio sizes the black-hat element against the working height.
	// It should span about one text line.
	BlackHatRatio float64

	// Gradient names the kernel that emphasizes glyph edges, see convolve.ByName.
	Gradient string

	// CloseRatio sizes the first closing against the working width. It
	// bridges the gaps between glyphs of one line.
	CloseRatio float64
	// MergeRatio sizes the second closing, which joins the lines of the
	// zone into one region.
	MergeRatio float64

	Connectivity blob.Connectivity

	// Candidate filter
	MinWidthRatio float64 // Region width over working width
	MaxAspect     float64 // Region height over region width
	RequireQuad   bool    // Simplified outline must be a convex quadrilateral

	// SimplifyRatio sets the outline tolerance as a fraction of the
	// region's shorter side, never below MinEpsilon pixels.
	SimplifyRatio float64
	MinEpsilon    float64

	KeepStages bool // Record intermediate buffers in Result.Stages
	Debug      bool // Log each stage
}

// DefaultParams returns parameters tuned for passport and ID card scans.
func DefaultParams() Params {
	return Params{
		WorkingWidth: 600,

		BlurSize: 3,

		// A 600 px wide passport page is about 420 px tall with 12 px glyphs
		BlackHatRatio: 0.03,

		Gradient: "scharr-x",

		CloseRatio: 0.015, // 9 px at 600
		MergeRatio: 0.035, // 21 px at 600

		Connectivity: blob.Eight,

		MinWidthRatio: 0.75,
		MaxAspect:     0.25,
		RequireQuad:   true,

		SimplifyRatio: 0.25,
		MinEpsilon:    1.5,
	}
}

// WithWorkingWidth returns a copy of params processing at width w.
func (p Params) WithWorkingWidth(w int) Params {
	p.WorkingWidth = w
	return p
}

// WithElements returns a copy of params with custom morphology ratios.
func (p Params) WithElements(blackHat, closeRatio, merge float64) Params {
	p.BlackHatRatio = blackHat
	p.CloseRatio = closeRatio
	p.MergeRatio = merge
	return p
}

// WithFilter returns a copy of params with a custom candidate filter.
func (p Params) WithFilter(minWidthRatio, maxAspect float64, requireQuad bool) Params {
	p.MinWidthRatio = minWidthRatio
	p.MaxAspect = maxAspect
	p.RequireQuad = requireQuad
	return p
}

// WithConnectivity returns a copy of params labelling with c.
func (p Params) WithConnectivity(c blob.Connectivity) Params {
	p.Connectivity = c
	return p
}

// WithDebug returns a copy of params that logs every stage and, when keep is
// set, records the intermediate buffers.
func (p Params) WithDebug(debug, keep bool) Params {
	p.Debug = debug
	p.KeepStages = keep
	return p
}

// Validate reports the first setting the pipeline cannot run with.
func (p Params) Validate() error {
	switch {
	case p.WorkingWidth < 0:
		return fmt.Errorf("working width %d: %w", p.WorkingWidth, pixmap.ErrInvalidArgument)
	case p.BlurSize <= 0 || p.BlurSize%2 == 0:
		return fmt.Errorf("blur size %d: %w", p.BlurSize, pixmap.ErrInvalidKernelSize)
	case p.BlackHatRatio <= 0 || p.CloseRatio <= 0 || p.MergeRatio <= 0:
		return fmt.Errorf("element ratios %v/%v/%v: %w", p.BlackHatRatio, p.CloseRatio, p.MergeRatio, pixmap.ErrInvalidArgument)
	case p.Connectivity != blob.Four && p.Connectivity != blob.Eight:
		return fmt.Errorf("connectivity %d: %w", p.Connectivity, pixmap.ErrInvalidArgument)
	case p.MinWidthRatio < 0 || p.MinWidthRatio > 1 || p.MaxAspect <= 0:
		return fmt.Errorf("filter %v/%v: %w", p.MinWidthRatio, p.MaxAspect, pixmap.ErrInvalidArgument)
	}
	if _, err := convolve.ByName(p.Gradient); err != nil {
		return err
	}
	return nil
}

// elementSize converts a fraction of length into an odd element side of at
// least 3.
func elementSize(ratio float64, length int) int {
	n := int(math.Round(ratio * float64(length)))
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		n++
	}
	return n
}

// Elements returns the black-hat, first closing and merge element sides for
// a working image of w by h pixels.
func (p Params) Elements(w, h int) (blackHat, closing, merge int) {
	return elementSize(p.BlackHatRatio, h), elementSize(p.CloseRatio, w), elementSize(p.MergeRatio, w)
}

// Epsilon is the outline tolerance for a region of w by h pixels.
func (p Params) Epsilon(w, h int) float64 {
	return max(p.MinEpsilon, p.SimplifyRatio*float64(min(w, h)))
}
