package pixmap

import (
	"errors"
	"math"
	"testing"

	"mrz-locator/pkg/colorutil"
	"mrz-locator/pkg/geometry"
)

func solid(w, h int, a, r, g, b uint8) *Image[ARGB] {
	img := New[ARGB](w, h)
	img.Fill(ARGB(colorutil.Pack(a, r, g, b)))
	return img
}

func TestFromSliceLengthMismatch(t *testing.T) {
	_, err := FromSlice(3, 2, make([]uint8, 5))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
	img, err := FromSlice(3, 2, []uint8{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if v, _ := img.At(2, 1); v != 6 {
		t.Errorf("At(2,1): got %d, want 6", v)
	}
}

func TestIndexedAccess(t *testing.T) {
	img := New[Fixed](4, 3)
	if err := img.Set(3, 2, FixedOne); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := img.At(3, 2); err != nil || v != FixedOne {
		t.Errorf("At(3,2): got %v, %v", v, err)
	}
	for _, c := range [][2]int{{-1, 0}, {4, 0}, {0, 3}, {0, -1}} {
		if _, err := img.At(c[0], c[1]); !errors.Is(err, ErrCoordinateOutOfRange) {
			t.Errorf("At%v: got %v, want ErrCoordinateOutOfRange", c, err)
		}
		if err := img.Set(c[0], c[1], 1); !errors.Is(err, ErrCoordinateOutOfRange) {
			t.Errorf("Set%v: got %v, want ErrCoordinateOutOfRange", c, err)
		}
	}
}

func TestKinds(t *testing.T) {
	tests := []struct {
		buf  Buffer
		want Kind
	}{
		{New[ARGB](1, 1), KindARGB},
		{New[uint8](1, 1), KindChannel},
		{New[Fixed](1, 1), KindFixed},
		{New[float32](1, 1), KindFloat},
	}
	for _, tt := range tests {
		if got := tt.buf.Kind(); got != tt.want {
			t.Errorf("%T: got %v, want %v", tt.buf, got, tt.want)
		}
	}
}

func TestCrop(t *testing.T) {
	img := New[uint8](5, 4)
	for i := range img.Pix() {
		img.Pix()[i] = uint8(i)
	}
	c, err := img.Crop(geometry.RectInt{X: 1, Y: 2, Width: 3, Height: 2})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	want := []uint8{11, 12, 13, 16, 17, 18}
	for i, v := range c.Pix() {
		if v != want[i] {
			t.Errorf("pixel %d: got %d, want %d", i, v, want[i])
		}
	}
	if _, err := img.Crop(geometry.RectInt{X: 3, Y: 0, Width: 3, Height: 1}); !errors.Is(err, ErrCoordinateOutOfRange) {
		t.Errorf("oversized crop: got %v, want ErrCoordinateOutOfRange", err)
	}
}

func TestExtractSolidChannels(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		packed  uint32
		channel Channel
	}{
		{"red", 255, 0, 0, 0xffff0000, Red},
		{"green", 0, 255, 0, 0xff00ff00, Green},
		{"blue", 0, 0, 255, 0xff0000ff, Blue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := solid(100, 100, 255, tt.r, tt.g, tt.b)
			for i, p := range img.Pix() {
				if uint32(p) != tt.packed {
					t.Fatalf("pixel %d: got %#08x, want %#08x", i, uint32(p), tt.packed)
				}
			}
			ch, err := ExtractChannel(img, tt.channel)
			if err != nil {
				t.Fatalf("ExtractChannel: %v", err)
			}
			for i, v := range ch.Pix() {
				if v != 255 {
					t.Fatalf("pixel %d: got %d, want 255", i, v)
				}
			}
			other := Red
			if tt.channel == Red {
				other = Blue
			}
			ch, _ = ExtractChannel(img, other)
			if st := Scan(ch); st.Max != 0 {
				t.Errorf("%s channel: got max %d, want 0", other, st.Max)
			}
		})
	}
}

func TestExtractChannelFromWrongKind(t *testing.T) {
	_, err := ExtractChannelFrom(New[Fixed](2, 2), Red)
	if !errors.Is(err, ErrUnsupportedElement) {
		t.Errorf("got %v, want ErrUnsupportedElement", err)
	}
}

func TestGrayDomainsAgree(t *testing.T) {
	img := New[ARGB](4, 1)
	img.Pix()[0] = ARGB(colorutil.Pack(255, 255, 255, 255))
	img.Pix()[1] = ARGB(colorutil.Pack(255, 0, 0, 0))
	img.Pix()[2] = ARGB(colorutil.Pack(255, 200, 100, 50))
	img.Pix()[3] = ARGB(colorutil.Pack(255, 0, 255, 0))

	fx := GrayFixed(img)
	fl := GrayFloat(img)
	if fx.Pix()[0] != FixedOne {
		t.Errorf("white fixed: got %d, want %d", fx.Pix()[0], FixedOne)
	}
	if fl.Pix()[0] != 1 {
		t.Errorf("white float: got %v, want 1", fl.Pix()[0])
	}
	if fx.Pix()[1] != 0 || fl.Pix()[1] != 0 {
		t.Errorf("black: got %d / %v, want 0", fx.Pix()[1], fl.Pix()[1])
	}
	for i := range fx.Pix() {
		diff := math.Abs(float64(FixedToFloat(fx.Pix()[i]) - fl.Pix()[i]))
		if diff > 1e-5 {
			t.Errorf("pixel %d: fixed %v vs float %v", i, FixedToFloat(fx.Pix()[i]), fl.Pix()[i])
		}
	}
	// Green carries the largest luma weight
	if got := fl.Pix()[3]; math.Abs(float64(got)-0.587) > 1e-3 {
		t.Errorf("green luma: got %v, want ~0.587", got)
	}
}

func TestGrayFromEveryKind(t *testing.T) {
	ch := New[uint8](2, 2)
	ch.Fill(255)
	for _, b := range []Buffer{solid(2, 2, 255, 255, 255, 255), ch, FloatImageToFixed(New[float32](2, 2)), New[float32](2, 2)} {
		if _, err := GrayFixedFrom(b); err != nil {
			t.Errorf("GrayFixedFrom(%s): %v", Describe(b), err)
		}
		if _, err := GrayFloatFrom(b); err != nil {
			t.Errorf("GrayFloatFrom(%s): %v", Describe(b), err)
		}
	}
	g, _ := GrayFixedFrom(ch)
	if g.Pix()[0] != FixedOne {
		t.Errorf("channel 255: got %d, want %d", g.Pix()[0], FixedOne)
	}
}

func TestReduceColorsTwoLevels(t *testing.T) {
	img := New[Fixed](64, 4)
	for i := range img.Pix() {
		img.Pix()[i] = Fixed(int64(i%64) * int64(FixedOne) / 63)
	}
	out, err := ReduceColors(img, 2)
	if err != nil {
		t.Fatalf("ReduceColors: %v", err)
	}
	seen := map[Fixed]bool{}
	for _, v := range out.Pix() {
		seen[v] = true
	}
	if len(seen) != 2 || !seen[0] || !seen[FixedOne] {
		t.Errorf("levels: got %v, want {0, %d}", seen, FixedOne)
	}
	if _, err := ReduceColors(img, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("n=1: got %v, want ErrInvalidArgument", err)
	}
}

func TestReduceColorsFloatLevels(t *testing.T) {
	img := New[float32](101, 1)
	for i := range img.Pix() {
		img.Pix()[i] = float32(i) / 100
	}
	out, _ := ReduceColors(img, 4)
	seen := map[float32]bool{}
	for _, v := range out.Pix() {
		seen[v] = true
	}
	if len(seen) != 4 {
		t.Errorf("got %d levels, want 4", len(seen))
	}
}

func TestReduceColorsARGBKeepsAlpha(t *testing.T) {
	img := solid(2, 2, 0x80, 100, 200, 30)
	out, err := ReduceColorsARGB(img, 2)
	if err != nil {
		t.Fatalf("ReduceColorsARGB: %v", err)
	}
	a, r, g, b := colorutil.Unpack(uint32(out.Pix()[0]))
	if a != 0x80 || r != 0 || g != 255 || b != 0 {
		t.Errorf("got %d,%d,%d,%d want 128,0,255,0", a, r, g, b)
	}
}

func TestScanAndStretch(t *testing.T) {
	img, _ := FromSlice(4, 1, []Fixed{FixedOne / 4, FixedOne / 2, FixedOne / 4, 3 * FixedOne / 4})
	st := Scan(img)
	if st.Min != FixedOne/4 || st.Max != 3*FixedOne/4 || st.Range != FixedOne/2 {
		t.Errorf("Scan: got %+v", st)
	}
	StretchInPlace(img)
	want := []Fixed{0, FixedOne / 2, 0, FixedOne}
	for i, v := range img.Pix() {
		if v != want[i] {
			t.Errorf("pixel %d: got %d, want %d", i, v, want[i])
		}
	}

	flat := New[uint8](3, 3)
	flat.Fill(7)
	StretchInPlace(flat)
	if CountNonZero(flat) != 0 {
		t.Error("constant image should stretch to zero")
	}
}

func TestAbsInPlace(t *testing.T) {
	img, _ := FromSlice(3, 1, []float32{-0.5, 0, 0.25})
	AbsInPlace(img)
	want := []float32{0.5, 0, 0.25}
	for i, v := range img.Pix() {
		if v != want[i] {
			t.Errorf("pixel %d: got %v, want %v", i, v, want[i])
		}
	}
}

func TestFromUnit(t *testing.T) {
	if got := FromUnit[Fixed](0.2); got != Fixed(math.Round(0.2*float64(FixedOne))) {
		t.Errorf("Fixed: got %d", got)
	}
	if got := FromUnit[uint8](2); got != 255 {
		t.Errorf("uint8 saturation: got %d, want 255", got)
	}
	if got := FromUnit[float32](0.5); got != 0.5 {
		t.Errorf("float32: got %v, want 0.5", got)
	}
}

func TestCompareAcrossKinds(t *testing.T) {
	a := New[uint8](4, 4)
	a.Fill(255)
	b := New[Fixed](4, 4)
	b.Fill(FixedOne)
	if err := b.Set(0, 0, 0); err != nil {
		t.Fatal(err)
	}

	d, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if math.Abs(d.Max-1) > 1e-6 {
		t.Errorf("Max: got %v, want 1", d.Max)
	}
	if math.Abs(d.Mean-1.0/16) > 1e-6 {
		t.Errorf("Mean: got %v, want %v", d.Mean, 1.0/16)
	}

	if _, err := Compare(a, New[uint8](3, 4)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("size mismatch: got %v, want ErrDimensionMismatch", err)
	}
}
