// Command gridtest runs grid detection on a puzzle image and reports the
// boundary geometry, without OCR. Useful for tuning detection parameters.
package main

import (
	"flag"
	"fmt"
	"os"

	"sudoku-extractor/internal/grid"
	"sudoku-extractor/internal/imaging"
)

func main() {
	imagePath := flag.String("image", "", "Path to puzzle image (PNG, JPEG, BMP, or TIFF)")
	minArea := flag.Float64("min-area", 0.10, "Minimum boundary area as a fraction of the image")
	skewLimit := flag.Float64("skew-limit", 25, "Maximum accepted rotation in degrees")
	side := flag.Int("side", 450, "Rectified square side in pixels")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: gridtest -image <path> [-min-area 0.10] [-skew-limit 25] [-side 450]")
		os.Exit(1)
	}

	norm, err := imaging.Load(*imagePath, imaging.DefaultParams())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer norm.Close()
	fmt.Printf("Loaded image: %dx%d pixels\n", norm.Width, norm.Height)

	params := grid.DefaultParams().
		WithMinAreaFraction(*minArea).
		WithSkewLimit(*skewLimit).
		WithCanonicalSide(*side)
	fmt.Printf("\nDetection parameters:\n")
	fmt.Printf("  Area floor: %.2f of image\n", params.MinAreaFraction)
	fmt.Printf("  Approx epsilon: %.3f of arc length\n", params.ApproxEpsilon)
	fmt.Printf("  Skew limit: %.0f degrees\n", params.SkewLimitDegrees)

	boundary, err := grid.Locate(norm.Binary, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nBoundary found (score %.0f, area %.0f px):\n", boundary.Score, boundary.Area)
	labels := []string{"top-left", "top-right", "bottom-right", "bottom-left"}
	for i, c := range boundary.Corners {
		fmt.Printf("  %-12s (%7.1f, %7.1f)\n", labels[i], c.X, c.Y)
	}

	rectified, err := grid.Rectify(norm.Binary, boundary, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rectification failed: %v\n", err)
		os.Exit(1)
	}
	defer rectified.Close()
	fmt.Printf("\nRectified to %dx%d\n", rectified.Side, rectified.Side)

	cells, err := grid.Split(rectified, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cell split failed: %v\n", err)
		os.Exit(1)
	}
	defer grid.CloseCells(cells)

	fmt.Printf("Split into %d cells of %dx%d px (margin %d)\n",
		len(cells), cells[0].Mat.Cols(), cells[0].Mat.Rows(), params.CellMarginPx)
}
