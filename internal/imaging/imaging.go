// Package imaging loads scanned or photographed puzzle images and normalizes
// them into the single-channel intensity and ink-mask buffers the rest of the
// pipeline operates on.
package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Params controls image normalization.
type Params struct {
	// MinResolution is the shortest acceptable side in pixels. Below this the
	// grid lines are unresolvable and loading fails.
	MinResolution int

	// TargetResolution is the shortest side after optional upscaling. Small
	// but acceptable inputs are scaled up to this before thresholding.
	TargetResolution int

	// BlurKernel is the Gaussian blur kernel size (odd).
	BlurKernel int

	// AdaptiveBlock is the window size for adaptive thresholding (odd).
	AdaptiveBlock int

	// AdaptiveC is subtracted from the local mean during thresholding.
	AdaptiveC float32
}

// DefaultParams returns normalization parameters tuned for typical scans
// and phone photos of printed puzzles.
func DefaultParams() Params {
	return Params{
		MinResolution:    150,
		TargetResolution: 300,
		BlurKernel:       5,
		AdaptiveBlock:    51,
		AdaptiveC:        10,
	}
}

// WithMinResolution returns a copy of params with a custom resolution floor.
func (p Params) WithMinResolution(px int) Params {
	p.MinResolution = px
	return p
}

// WithAdaptive returns a copy of params with custom adaptive threshold tuning.
func (p Params) WithAdaptive(block int, c float32) Params {
	p.AdaptiveBlock = block
	p.AdaptiveC = c
	return p
}

// Normalized holds the canonical single-channel view of a source image:
// the intensity buffer and the binary ink mask derived from it.
// Ink is white (255) on black in the mask. The caller owns both Mats and
// must call Close.
type Normalized struct {
	Gray   gocv.Mat // intensity, dark glyphs on light background
	Binary gocv.Mat // ink mask, ink = 255
	Width  int
	Height int
}

// Close releases the underlying buffers.
func (n *Normalized) Close() {
	n.Gray.Close()
	n.Binary.Close()
}

// Load reads an image file (PNG, JPEG, BMP or TIFF) and normalizes it.
func Load(path string, p Params) (*Normalized, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return Decode(f, p)
}

// Decode reads image bytes and normalizes them.
func Decode(r io.Reader, p Params) (*Normalized, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return Normalize(img, p)
}

// Normalize converts a decoded image to the canonical grayscale + ink mask
// pair. Uneven illumination is handled by locally windowed thresholding
// rather than a single global cut.
func Normalize(img image.Image, p Params) (*Normalized, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if min(w, h) < p.MinResolution {
		return nil, fmt.Errorf("image too small: %dx%d (minimum side %d)", w, h, p.MinResolution)
	}

	gray := grayMatFromImage(img)

	// Upscale small inputs so a cell still spans enough pixels to threshold.
	if shortest := min(gray.Cols(), gray.Rows()); shortest < p.TargetResolution {
		scale := float64(p.TargetResolution) / float64(shortest)
		scaled := gocv.NewMat()
		gocv.Resize(gray, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
		gray.Close()
		gray = scaled
	}

	// White-on-black sources normalize to the same polarity as print scans.
	if borderMean(gray) < 127 {
		gocv.BitwiseNot(gray, &gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := oddAtLeast(p.BlurKernel, 3)
	gocv.GaussianBlur(gray, &blurred, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)

	binary := gocv.NewMat()
	block := oddAtLeast(p.AdaptiveBlock, 3)
	gocv.AdaptiveThreshold(blurred, &binary, 255, gocv.AdaptiveThresholdMean,
		gocv.ThresholdBinaryInv, block, p.AdaptiveC)

	// Close small gaps in grid lines, then drop speckle noise.
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()
	gocv.MorphologyEx(binary, &binary, gocv.MorphClose, kernel)
	gocv.MorphologyEx(binary, &binary, gocv.MorphOpen, kernel)

	return &Normalized{
		Gray:   gray,
		Binary: binary,
		Width:  gray.Cols(),
		Height: gray.Rows(),
	}, nil
}

// borderMean samples the image border to estimate the background intensity.
func borderMean(gray gocv.Mat) float64 {
	h, w := gray.Rows(), gray.Cols()
	if h == 0 || w == 0 {
		return 0
	}

	var sum, count float64
	for x := 0; x < w; x++ {
		sum += float64(gray.GetUCharAt(0, x)) + float64(gray.GetUCharAt(h-1, x))
		count += 2
	}
	for y := 1; y < h-1; y++ {
		sum += float64(gray.GetUCharAt(y, 0)) + float64(gray.GetUCharAt(y, w-1))
		count += 2
	}
	return sum / count
}

func oddAtLeast(v, floor int) int {
	if v < floor {
		v = floor
	}
	if v%2 == 0 {
		v++
	}
	return v
}
