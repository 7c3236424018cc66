//go:build gocv

// Command mrzcompare runs the zone locator and its OpenCV rendition on the
// same image and reports where the two disagree.
package main

import (
	"flag"
	"fmt"
	"os"

	"mrz-locator/internal/codec"
	"mrz-locator/internal/cvref"
	"mrz-locator/internal/mrz"
	"mrz-locator/internal/pixmap"
	"mrz-locator/internal/version"
)

func main() {
	imagePath := flag.String("image", "", "Path to document image")
	maxSize := flag.Int("max", 2400, "Downscale images larger than this on either side while decoding")
	width := flag.Int("width", 600, "Working width of both pipelines")
	tolerance := flag.Float64("tolerance", 0.02, "Mean stage difference, as a fraction of full scale, reported as a mismatch")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("mrzcompare"))
		return
	}
	if *imagePath == "" {
		fmt.Println("Usage: mrzcompare -image <path> [-width 600] [-tolerance 0.02]")
		os.Exit(1)
	}

	img, info, err := codec.Decode(*imagePath, *maxSize, *maxSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s image: %dx%d pixels\n", info.Format, img.Width(), img.Height())

	params := mrz.DefaultParams().WithWorkingWidth(*width).WithDebug(false, true)
	ours, err := mrz.Locate(img, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Locate failed: %v\n", err)
		os.Exit(1)
	}
	ref, err := cvref.Locate(img, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenCV locate failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nOtsu threshold: %.1f (engine) vs %.1f (OpenCV)\n",
		255*pixmap.FixedToFloat(ours.Threshold.Threshold), ref.Threshold)
	fmt.Printf("Regions:        %d vs %d\n", ours.Regions, ref.Regions)
	fmt.Printf("Candidates:     %d vs %d\n", len(ours.Candidates), len(ref.Candidates))

	stages := map[string]pixmap.Buffer{}
	for _, s := range ours.Stages {
		stages[s.Name] = s.Buffer
	}
	mismatches := 0
	fmt.Printf("\n%-10s %10s %10s\n", "stage", "mean", "max")
	for _, s := range ref.Stages {
		b, ok := stages[s.Name]
		if !ok {
			fmt.Printf("%-10s %21s\n", s.Name, "missing")
			mismatches++
			continue
		}
		d, err := pixmap.Compare(b, s.Buffer)
		if err != nil {
			fmt.Printf("%-10s %21v\n", s.Name, err)
			mismatches++
			continue
		}
		mark := ""
		if d.Mean > *tolerance {
			mark = "  <-"
			mismatches++
		}
		fmt.Printf("%-10s %10.4f %10.4f%s\n", s.Name, d.Mean, d.Max, mark)
	}

	if best := ours.Best(); best != nil {
		fmt.Printf("\nEngine best:  %+v\n", best.Object.Bounds)
	}
	if len(ref.Candidates) > 0 {
		fmt.Printf("OpenCV best:  %+v\n", ref.Candidates[0].Bounds)
	}
	if mismatches > 0 {
		os.Exit(2)
	}
}
