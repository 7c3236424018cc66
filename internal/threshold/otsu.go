package threshold

import "mrz-locator/internal/pixmap"

// Buckets is the number of histogram bins Otsu spreads over an image's
// value range, whatever its domain.
const Buckets = 256

// Result describes an Otsu split.
type Result[T pixmap.Scalar] struct {
	// Threshold is the smallest pixel value of the upper class, so
	// Global(img, Threshold, on) reproduces the split exactly.
	Threshold T
	// Bucket is the last histogram bin of the lower class.
	Bucket int
	// Variance is the between-class variance of the split, in squared
	// bucket units.
	Variance float64
	// Degenerate is set when the image holds a single value. Threshold is
	// then that value.
	Degenerate bool
}

// Histogram counts pixels into Buckets bins spread evenly over
// [Min, Max] of the image.
func Histogram[T pixmap.Scalar](img *pixmap.Image[T]) ([]int, pixmap.Stats[T]) {
	st := pixmap.Scan(img)
	hist := make([]int, Buckets)
	if st.Range == 0 {
		hist[0] = len(img.Pix())
		return hist, st
	}
	for _, v := range img.Pix() {
		hist[bucket(v, st)]++
	}
	return hist, st
}

func bucket[T pixmap.Scalar](v T, st pixmap.Stats[T]) int {
	b := int((float64(v) - float64(st.Min)) * (Buckets - 1) / float64(st.Range))
	return min(max(b, 0), Buckets-1)
}

// BetweenClassVariance returns w0*w1*(mu0-mu1)^2 for the split of hist into
// bins [0, split] and (split, len). Either class being empty yields zero.
func BetweenClassVariance(hist []int, split int) float64 {
	var n0, n1 int
	var s0, s1 float64
	for i, c := range hist {
		if i <= split {
			n0 += c
			s0 += float64(i * c)
		} else {
			n1 += c
			s1 += float64(i * c)
		}
	}
	if n0 == 0 || n1 == 0 {
		return 0
	}
	total := float64(n0 + n1)
	w0 := float64(n0) / total
	w1 := float64(n1) / total
	d := s0/float64(n0) - s1/float64(n1)
	return w0 * w1 * d * d
}

// Otsu finds the split of the image histogram that maximizes between-class
// variance. The image is not modified; apply the result with Global.
func Otsu[T pixmap.Scalar](img *pixmap.Image[T]) Result[T] {
	hist, st := Histogram(img)
	if st.Range == 0 {
		return Result[T]{Threshold: st.Max, Degenerate: true}
	}

	best := -1
	var bestVar float64
	for k := 0; k < Buckets-1; k++ {
		if v := BetweenClassVariance(hist, k); best < 0 || v > bestVar {
			best = k
			bestVar = v
		}
	}

	// Smallest value that lands above the split
	cut := st.Max
	for _, v := range img.Pix() {
		if v < cut && bucket(v, st) > best {
			cut = v
		}
	}
	return Result[T]{Threshold: cut, Bucket: best, Variance: bestVar}
}

// Auto thresholds img in place at its Otsu split and returns the split.
func Auto[T pixmap.Scalar](img *pixmap.Image[T], on T) Result[T] {
	res := Otsu(img)
	Global(img, res.Threshold, on)
	return res
}
