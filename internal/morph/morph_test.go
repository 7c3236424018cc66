package morph

import (
	"errors"
	"math/rand"
	"testing"

	"mrz-locator/internal/pixmap"
)

// naive computes the square min/max filter directly.
func naive[T pixmap.Scalar](img *pixmap.Image[T], size int, isMax bool) *pixmap.Image[T] {
	r := size / 2
	out := pixmap.New[T](img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			best := img.Get(x, y)
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					if !img.In(x+dx, y+dy) {
						continue
					}
					v := img.Get(x+dx, y+dy)
					if (isMax && v > best) || (!isMax && v < best) {
						best = v
					}
				}
			}
			out.Put(x, y, best)
		}
	}
	return out
}

func randomImage(w, h int, seed int64) *pixmap.Image[uint8] {
	rng := rand.New(rand.NewSource(seed))
	img := pixmap.New[uint8](w, h)
	for i := range img.Pix() {
		img.Pix()[i] = uint8(rng.Intn(256))
	}
	return img
}

func square(w, h int, x0, y0, side int) *pixmap.Image[uint8] {
	img := pixmap.New[uint8](w, h)
	for y := y0; y < y0+side; y++ {
		for x := x0; x < x0+side; x++ {
			img.Put(x, y, 255)
		}
	}
	return img
}

func sameImage[T pixmap.Scalar](t *testing.T, name string, got, want *pixmap.Image[T]) {
	t.Helper()
	for i := range want.Pix() {
		if got.Pix()[i] != want.Pix()[i] {
			t.Fatalf("%s pixel %d: got %v, want %v", name, i, got.Pix()[i], want.Pix()[i])
		}
	}
}

func TestRankMatchesBruteForce(t *testing.T) {
	img := randomImage(37, 23, 1)
	for _, size := range []int{1, 3, 5, 7, 21, 41} {
		el, _ := NewElement(size)
		ero, _ := Erode(img, el)
		dil, _ := Dilate(img, el)
		sameImage(t, "erode", ero, naive(img, size, false))
		sameImage(t, "dilate", dil, naive(img, size, true))
	}
}

func TestRankFloatAndFixed(t *testing.T) {
	src := randomImage(19, 31, 2)
	fl := pixmap.ChannelToFloat(src)
	fx := pixmap.ChannelToFixed(src)
	el, _ := NewElement(5)
	a, _ := Erode(fl, el)
	sameImage(t, "float erode", a, naive(fl, 5, false))
	b, _ := Dilate(fx, el)
	sameImage(t, "fixed dilate", b, naive(fx, 5, true))
}

func TestInvalidElement(t *testing.T) {
	for _, size := range []int{0, 2, -1, 40} {
		if _, err := NewElement(size); !errors.Is(err, pixmap.ErrInvalidKernelSize) {
			t.Errorf("NewElement(%d): got %v, want ErrInvalidKernelSize", size, err)
		}
		if _, err := Erode(pixmap.New[uint8](3, 3), Element{Size: size}); !errors.Is(err, pixmap.ErrInvalidKernelSize) {
			t.Errorf("Erode size %d: got %v, want ErrInvalidKernelSize", size, err)
		}
	}
}

func TestOpeningNeverGrowsAndKeepsLargeRegions(t *testing.T) {
	img := square(40, 40, 5, 5, 12)
	// Specks smaller than the element
	img.Put(30, 30, 255)
	img.Put(31, 30, 255)
	img.Put(2, 35, 255)

	for _, size := range []int{3, 5, 7} {
		el, _ := NewElement(size)
		opened, err := Open(img, el)
		if err != nil {
			t.Fatal(err)
		}
		if got, in := pixmap.CountNonZero(opened), pixmap.CountNonZero(img); got > in {
			t.Errorf("size %d: foreground grew from %d to %d", size, in, got)
		}
		for y := 5; y < 17; y++ {
			for x := 5; x < 17; x++ {
				if opened.Get(x, y) != 255 {
					t.Fatalf("size %d: square pixel (%d,%d) removed", size, x, y)
				}
			}
		}
		if opened.Get(30, 30) != 0 || opened.Get(2, 35) != 0 {
			t.Errorf("size %d: specks survived opening", size)
		}
	}
}

func TestClosingFillsGap(t *testing.T) {
	img := pixmap.New[uint8](30, 5)
	for x := 0; x < 30; x++ {
		if x != 14 && x != 15 {
			for y := 1; y < 4; y++ {
				img.Put(x, y, 255)
			}
		}
	}
	el, _ := NewElement(5)
	closed, _ := Close(img, el)
	if closed.Get(14, 2) != 255 || closed.Get(15, 2) != 255 {
		t.Error("closing should bridge a two pixel gap")
	}
	if pixmap.CountNonZero(closed) < pixmap.CountNonZero(img) {
		t.Error("closing should never shrink foreground")
	}
}

func TestBlackHatIsolatesDarkStroke(t *testing.T) {
	// Bright page with a one pixel dark vertical stroke
	img := pixmap.New[pixmap.Fixed](15, 9)
	img.Fill(pixmap.FixedOne)
	for y := 0; y < 9; y++ {
		img.Put(7, y, pixmap.FixedOne/5)
	}
	el, _ := NewElement(3)
	bh, err := BlackHat(img, el)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 9; y++ {
		for x := 0; x < 15; x++ {
			want := pixmap.Fixed(0)
			if x == 7 {
				want = pixmap.FixedOne - pixmap.FixedOne/5
			}
			if got := bh.Get(x, y); got != want {
				t.Fatalf("(%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestWhiteHatIsolatesBrightSpeck(t *testing.T) {
	img := pixmap.New[uint8](9, 9)
	img.Fill(40)
	img.Put(4, 4, 200)
	el, _ := NewElement(3)
	wh, _ := WhiteHat(img, el)
	if got := wh.Get(4, 4); got != 160 {
		t.Errorf("speck: got %d, want 160", got)
	}
	if got := pixmap.CountNonZero(wh); got != 1 {
		t.Errorf("non-zero pixels: got %d, want 1", got)
	}
}

func TestGradientOutlinesRegion(t *testing.T) {
	img := square(12, 12, 3, 3, 6)
	el, _ := NewElement(3)
	g, _ := Gradient(img, el)
	if g.Get(5, 5) != 0 {
		t.Error("interior should have no gradient")
	}
	if g.Get(3, 3) != 255 || g.Get(2, 3) != 255 {
		t.Error("both sides of the boundary should respond")
	}
	if g.Get(0, 0) != 0 {
		t.Error("far background should have no gradient")
	}
}

func TestHighlight(t *testing.T) {
	img := square(12, 12, 3, 3, 6)
	el, _ := NewElement(3)
	hl, err := HighlightFeatures(img, el, 100)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range hl.Pix() {
		if v != 0 && v != 255 {
			t.Fatalf("non-binary value %d", v)
		}
	}
	if _, err := Highlight(img, OpOpen, el, 1); !errors.Is(err, pixmap.ErrInvalidArgument) {
		t.Errorf("OpOpen: got %v, want ErrInvalidArgument", err)
	}
}

func TestIterate(t *testing.T) {
	img := square(20, 20, 8, 8, 1)
	el, _ := NewElement(3)
	out, err := Iterate(img, OpDilate, el, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := pixmap.CountNonZero(out); got != 49 {
		t.Errorf("three 3x3 dilations of a point: got %d pixels, want 49", got)
	}
	same, _ := Iterate(img, OpDilate, el, 0)
	sameImage(t, "zero iterations", same, img)
}

func TestApplyTo(t *testing.T) {
	el, _ := NewElement(3)
	if _, err := ApplyTo(pixmap.New[pixmap.ARGB](3, 3), OpErode, el); !errors.Is(err, pixmap.ErrUnsupportedElement) {
		t.Errorf("ARGB: got %v, want ErrUnsupportedElement", err)
	}
	out, err := ApplyTo(pixmap.New[float32](3, 3), OpClose, el)
	if err != nil || out.Kind() != pixmap.KindFloat {
		t.Errorf("float: got %v, %v", out, err)
	}
}
