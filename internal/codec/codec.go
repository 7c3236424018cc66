// Package codec moves images between files and pixel buffers.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"mrz-locator/internal/pixmap"
	"mrz-locator/pkg/colorutil"
)

// ErrUnsupportedFormat is returned for a file extension the codec cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Info describes a decoded file.
type Info struct {
	Path   string
	Format string  // Lower-case extension without the dot
	Width  int     // Dimensions before any downscaling
	Height int
	DPI    float64 // From TIFF resolution tags, 0 when unknown
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp", ".gif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// Decode loads an image file as a packed-colour buffer, applying any EXIF
// orientation. When maxW and maxH are positive and the image exceeds them it
// is downscaled to fit, preserving the aspect ratio.
func Decode(path string, maxW, maxH int) (*pixmap.Image[pixmap.ARGB], Info, error) {
	info := Info{Path: path, Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")}
	if !IsSupportedFormat(path) {
		return nil, info, fmt.Errorf("decode %s: %w", path, ErrUnsupportedFormat)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, info, fmt.Errorf("failed to decode image: %w", err)
	}
	b := img.Bounds()
	info.Width, info.Height = b.Dx(), b.Dy()

	if info.Format == "tif" || info.Format == "tiff" {
		if dpi, err := readTIFFDPI(path); err == nil {
			info.DPI = dpi
		}
	}

	if maxW > 0 && maxH > 0 && (info.Width > maxW || info.Height > maxH) {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}
	return FromImage(img), info, nil
}

// FromImage packs any image.Image. Colours pass through color.Color.RGBA, so
// the stored channels are alpha-premultiplied.
func FromImage(img image.Image) *pixmap.Image[pixmap.ARGB] {
	b := img.Bounds()
	out := pixmap.New[pixmap.ARGB](b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := out.Row(y)
		for x := range row {
			row[x] = pixmap.ARGB(colorutil.FromColor(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return out
}

// ToImage renders a buffer as an image.Image: packed colour as RGBA, every
// single-valued representation as 8-bit gray clamped to [0, full scale].
func ToImage(buf pixmap.Buffer) (image.Image, error) {
	switch b := buf.(type) {
	case *pixmap.Image[pixmap.ARGB]:
		out := image.NewRGBA(image.Rect(0, 0, b.Width(), b.Height()))
		for y := 0; y < b.Height(); y++ {
			for x, p := range b.Row(y) {
				out.SetRGBA(x, y, colorutil.ToRGBA(uint32(p)))
			}
		}
		return out, nil
	case *pixmap.Image[uint8]:
		out := image.NewGray(image.Rect(0, 0, b.Width(), b.Height()))
		for y := 0; y < b.Height(); y++ {
			copy(out.Pix[y*out.Stride:], b.Row(y))
		}
		return out, nil
	case *pixmap.Image[pixmap.Fixed]:
		return grayOf(b), nil
	case *pixmap.Image[float32]:
		return grayOf(b), nil
	default:
		return nil, fmt.Errorf("render %T: %w", buf, pixmap.ErrUnsupportedElement)
	}
}

func grayOf[T pixmap.Intensity](img *pixmap.Image[T]) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Width(), img.Height()))
	for y := 0; y < img.Height(); y++ {
		for x, v := range img.Row(y) {
			u := min(max(pixmap.ToUnit(v), 0), 1)
			out.SetGray(x, y, color.Gray{Y: uint8(u*255 + 0.5)})
		}
	}
	return out
}

// Encode writes a buffer to path in the format named by its extension.
// TIFF output is deflate-compressed.
func Encode(buf pixmap.Buffer, path string) error {
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".tif" && ext != ".tiff" {
		if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
