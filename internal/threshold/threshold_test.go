package threshold

import (
	"errors"
	"math/rand"
	"testing"

	"mrz-locator/internal/pixmap"
)

func bimodal(w, h int, lo, hi uint8, seed int64) *pixmap.Image[uint8] {
	rng := rand.New(rand.NewSource(seed))
	img := pixmap.New[uint8](w, h)
	for i := range img.Pix() {
		base := lo
		if i%3 == 0 {
			base = hi
		}
		img.Pix()[i] = base + uint8(rng.Intn(10))
	}
	return img
}

func TestGlobal(t *testing.T) {
	img, _ := pixmap.FromSlice(5, 1, []uint8{0, 99, 100, 101, 255})
	Global(img, 100, 255)
	want := []uint8{0, 0, 255, 255, 255}
	for i, v := range img.Pix() {
		if v != want[i] {
			t.Errorf("pixel %d: got %d, want %d", i, v, want[i])
		}
	}

	fl, _ := pixmap.FromSlice(3, 1, []float32{0.1, 0.5, 0.9})
	GlobalRange(fl, 0.5, 1, 0.25)
	if fl.Pix()[0] != 0.25 || fl.Pix()[1] != 1 || fl.Pix()[2] != 1 {
		t.Errorf("GlobalRange: got %v", fl.Pix())
	}
}

func TestAdaptiveMarksLocalPeaks(t *testing.T) {
	img := pixmap.New[pixmap.Fixed](9, 9)
	img.Fill(pixmap.FixedOne / 4)
	img.Put(4, 4, pixmap.FixedOne/2)
	if err := Adaptive(img, 3, 0, pixmap.FixedOne); err != nil {
		t.Fatal(err)
	}
	if img.Get(4, 4) != pixmap.FixedOne {
		t.Error("peak should be foreground")
	}
	if got := pixmap.CountNonZero(img); got != 1 {
		t.Errorf("foreground pixels: got %d, want 1", got)
	}
}

func TestAdaptiveNegativeBias(t *testing.T) {
	img := pixmap.New[float32](4, 4)
	img.Fill(0.5)
	if err := Adaptive(img, 3, -0.01, 1); err != nil {
		t.Fatal(err)
	}
	if got := pixmap.CountNonZero(img); got != 16 {
		t.Errorf("flat image with negative bias: got %d foreground, want 16", got)
	}
}

func TestAdaptiveInvalidSize(t *testing.T) {
	for _, size := range []int{0, 4, -3} {
		err := Adaptive(pixmap.New[uint8](4, 4), size, 0, 255)
		if !errors.Is(err, pixmap.ErrInvalidKernelSize) {
			t.Errorf("size %d: got %v, want ErrInvalidKernelSize", size, err)
		}
	}
}

func TestOtsuSplitsBimodal(t *testing.T) {
	img := bimodal(30, 30, 20, 200, 1)
	res := Otsu(img)
	if res.Degenerate {
		t.Fatal("bimodal image reported degenerate")
	}
	if res.Threshold < 30 || res.Threshold > 200 {
		t.Errorf("threshold %d does not separate the modes", res.Threshold)
	}
	for _, v := range img.Pix() {
		if v >= 200 && v < res.Threshold {
			t.Fatalf("bright pixel %d below threshold %d", v, res.Threshold)
		}
		if v < 30 && v >= res.Threshold {
			t.Fatalf("dark pixel %d above threshold %d", v, res.Threshold)
		}
	}
}

func TestOtsuMaximizesVariance(t *testing.T) {
	img := bimodal(40, 20, 60, 140, 2)
	res := Otsu(img)
	hist, _ := Histogram(img)
	for k := 0; k < Buckets-1; k++ {
		if v := BetweenClassVariance(hist, k); v > res.Variance {
			t.Fatalf("split %d has variance %v above chosen %v", k, v, res.Variance)
		}
	}
	if got := BetweenClassVariance(hist, res.Bucket); got != res.Variance {
		t.Errorf("reported variance %v, recomputed %v", res.Variance, got)
	}
}

func TestOtsuThresholdIsSmallestUpperValue(t *testing.T) {
	img, _ := pixmap.FromSlice(6, 1, []pixmap.Fixed{0, 0, 0, pixmap.FixedOne, pixmap.FixedOne, pixmap.FixedOne})
	res := Otsu(img)
	if res.Threshold != pixmap.FixedOne {
		t.Errorf("got %d, want %d", res.Threshold, pixmap.FixedOne)
	}
	out := img.Clone()
	Global(out, res.Threshold, 1)
	if pixmap.CountNonZero(out) != 3 {
		t.Error("applying the threshold should keep exactly the upper class")
	}
}

func TestOtsuConstantIsDegenerate(t *testing.T) {
	img := pixmap.New[float32](5, 5)
	img.Fill(0.3)
	res := Otsu(img)
	if !res.Degenerate || res.Threshold != 0.3 {
		t.Errorf("got %+v, want degenerate at 0.3", res)
	}
}

func TestBetweenClassVarianceEmptyClass(t *testing.T) {
	hist := make([]int, Buckets)
	hist[10] = 5
	if v := BetweenClassVariance(hist, 50); v != 0 {
		t.Errorf("got %v, want 0", v)
	}
}

func TestAuto(t *testing.T) {
	img := bimodal(10, 10, 10, 220, 3)
	Auto(img, 255)
	for _, v := range img.Pix() {
		if v != 0 && v != 255 {
			t.Fatalf("non-binary value %d", v)
		}
	}
	if got := pixmap.CountNonZero(img); got != 34 {
		t.Errorf("foreground: got %d, want 34", got)
	}
}
