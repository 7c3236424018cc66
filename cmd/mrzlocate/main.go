// Command mrzlocate finds the machine-readable zone on an identity document
// image and prints the candidates.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"mrz-locator/internal/blob"
	"mrz-locator/internal/codec"
	"mrz-locator/internal/mrz"
	"mrz-locator/internal/pixmap"
	"mrz-locator/internal/version"
	"mrz-locator/internal/warp"
)

func main() {
	imagePath := flag.String("image", "", "Path to document image (PNG, JPEG, TIFF, BMP or GIF)")
	maxSize := flag.Int("max", 2400, "Downscale images larger than this on either side while decoding (0 keeps full size)")
	width := flag.Int("width", 600, "Working width of the pipeline (0 keeps the decoded width)")
	rotate := flag.String("rotate", "0", "Clockwise turn applied first: 0, 90, 180, 270 or auto")
	four := flag.Bool("four", false, "Label regions with 4-connectivity instead of 8")
	minWidth := flag.Float64("min-width", 0.75, "Minimum region width as a fraction of the working width")
	out := flag.String("out", "", "Write the best candidate, cut from the input, to this file")
	debugDir := flag.String("debug", "", "Log each stage and write its buffer into this directory")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("mrzlocate"))
		return
	}
	if *imagePath == "" {
		fmt.Println("Usage: mrzlocate -image <path> [-rotate 0|90|180|270|auto] [-out crop.png] [-debug dir]")
		os.Exit(1)
	}

	img, info, err := codec.Decode(*imagePath, *maxSize, *maxSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s image: %dx%d pixels", info.Format, info.Width, info.Height)
	if img.Width() != info.Width {
		fmt.Printf(" (decoded at %dx%d)", img.Width(), img.Height())
	}
	if info.DPI > 0 {
		fmt.Printf(", %.0f DPI", info.DPI)
	}
	fmt.Println()

	params := mrz.DefaultParams().
		WithWorkingWidth(*width).
		WithDebug(*debugDir != "", *debugDir != "")
	params = params.WithFilter(*minWidth, params.MaxAspect, params.RequireQuad)
	if *four {
		params = params.WithConnectivity(blob.Four)
	}

	var res mrz.Oriented
	if *rotate == "auto" {
		res, err = mrz.LocateAnyOrientation(img, params)
		if err == nil {
			img, err = warp.Rotate(img, float64(res.Degrees), 0)
		}
	} else {
		var deg int
		deg, err = strconv.Atoi(*rotate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -rotate %q\n", *rotate)
			os.Exit(1)
		}
		img, err = warp.Rotate(img, float64(deg), 0)
		if err == nil {
			res.Degrees = deg
			res.Result, err = mrz.Locate(img, params)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Location failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Orientation: %d°, working size %dx%d, Otsu threshold %.4f\n",
		res.Degrees, res.Width, res.Height, pixmap.FixedToFloat(res.Threshold.Threshold))
	fmt.Printf("\nExamined %d regions, %d candidates:\n", res.Regions, len(res.Candidates))
	fmt.Printf("%-4s %24s %8s %8s %s\n", "ID", "Source bounds", "Width", "Aspect", "Outline")
	for _, c := range res.Candidates {
		b := c.SourceBounds
		fmt.Printf("%-4d %24s %7.0f%% %8.3f %v\n", c.Object.ID,
			fmt.Sprintf("%d,%d %dx%d", b.X, b.Y, b.Width, b.Height),
			100*c.WidthRatio, c.Object.AspectRatio(), c.Outline)
	}

	if *debugDir != "" {
		writeStages(*debugDir, res.Stages)
	}

	best := res.Best()
	if best == nil {
		fmt.Println("\nNo machine-readable zone found")
		os.Exit(2)
	}
	if *out != "" {
		crop, err := img.Crop(best.SourceBounds)
		if err == nil {
			err = codec.Encode(crop, *out)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write crop: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %dx%d crop to %s\n", crop.Width(), crop.Height(), *out)
	}
}

func writeStages(dir string, stages []mrz.Stage) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("debug output: %v", err)
		return
	}
	for i, s := range stages {
		path := filepath.Join(dir, fmt.Sprintf("%02d-%s.png", i, s.Name))
		if err := codec.Encode(s.Buffer, path); err != nil {
			log.Printf("debug output %s: %v", s.Name, err)
			continue
		}
		fmt.Printf("Wrote stage %s (%s) to %s\n", s.Name, pixmap.Describe(s.Buffer), path)
	}
}
