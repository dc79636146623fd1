// Package classify turns cell sub-images into per-cell digit decisions and
// assembles them into the final 9x9 result. Digit recognition itself is
// delegated to an external Recognizer; this package decides when to call it
// and how to interpret what comes back.
package classify

import (
	"context"
	"image"
	"image/color"
	"strings"

	"sudoku-extractor/internal/grid"

	"gocv.io/x/gocv"
)

// Recognizer is the external OCR collaborator. Implementations must be safe
// for concurrent use or serialize internally. A transient failure is
// reported through err; "no confident match" is an empty label with nil err.
type Recognizer interface {
	Recognize(ctx context.Context, png []byte) (label string, confidence float64, err error)
}

// State is the outcome category of a single cell.
type State int

const (
	// StateEmpty means no ink was detected above threshold.
	StateEmpty State = iota
	// StateDigit means a digit was recognized with acceptable confidence.
	StateDigit
	// StateAmbiguous means ink is present but recognition was not accepted.
	StateAmbiguous
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateDigit:
		return "digit"
	case StateAmbiguous:
		return "ambiguous"
	}
	return "unknown"
}

// CellResult is the per-cell outcome with its position and confidence.
type CellResult struct {
	Row        int
	Col        int
	State      State
	Digit      int // 1-9 when State == StateDigit
	Confidence float64
}

// Params controls cell classification.
type Params struct {
	// EmptyInkRatio is the fraction of ink pixels in the trimmed cell
	// interior below which the cell is empty and the Recognizer is skipped.
	EmptyInkRatio float64

	// ConfidenceThreshold is the minimum accepted recognition confidence,
	// in [0,1].
	ConfidenceThreshold float64

	// MinOCRSide is the minimum side length the normalized glyph image is
	// upscaled to before recognition.
	MinOCRSide int

	// PadPx is the white border added around the centered glyph.
	PadPx int

	// Workers bounds concurrent Recognizer calls.
	Workers int
}

// DefaultParams returns classification parameters tuned for print digits.
func DefaultParams() Params {
	return Params{
		EmptyInkRatio:       0.05,
		ConfidenceThreshold: 0.5,
		MinOCRSide:          96,
		PadPx:               8,
		Workers:             4,
	}
}

// WithWorkers returns a copy of params with a custom worker bound.
func (p Params) WithWorkers(n int) Params {
	p.Workers = n
	return p
}

// WithConfidenceThreshold returns a copy of params with a custom acceptance
// threshold.
func (p Params) WithConfidenceThreshold(t float64) Params {
	p.ConfidenceThreshold = t
	return p
}

// WithEmptyInkRatio returns a copy of params with a custom empty-cell ink
// threshold.
func (p Params) WithEmptyInkRatio(r float64) Params {
	p.EmptyInkRatio = r
	return p
}

// ClassifyCell decides the outcome of one cell. A cell whose ink count is
// below the empty threshold never reaches the Recognizer: blank cells are
// the dominant source of hallucinated digits, so they short-circuit to
// Empty with full confidence. Recognizer failures degrade the cell to
// Ambiguous and never abort the grid.
func ClassifyCell(ctx context.Context, cell grid.Cell, rec Recognizer, p Params) CellResult {
	result := CellResult{Row: cell.Row, Col: cell.Col}

	ink := gocv.CountNonZero(cell.Mat)
	total := cell.Mat.Rows() * cell.Mat.Cols()
	if total == 0 || float64(ink) < p.EmptyInkRatio*float64(total) {
		result.State = StateEmpty
		result.Confidence = 1.0
		return result
	}

	prepared := prepareForOCR(cell.Mat, p)
	defer prepared.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, prepared)
	if err != nil {
		result.State = StateAmbiguous
		return result
	}
	defer buf.Close()

	label, confidence, err := rec.Recognize(ctx, buf.GetBytes())
	if err != nil {
		result.State = StateAmbiguous
		return result
	}

	digit, ok := parseDigit(label)
	if ok && confidence >= p.ConfidenceThreshold {
		result.State = StateDigit
		result.Digit = digit
		result.Confidence = confidence
		return result
	}

	result.State = StateAmbiguous
	result.Confidence = confidence
	return result
}

// prepareForOCR normalizes a cell for the Recognizer: binarize, flip to a
// dark glyph on a light background, center/pad to a square aspect, and
// upscale so the glyph spans enough pixels.
func prepareForOCR(cell gocv.Mat, p Params) gocv.Mat {
	binary := gocv.NewMat()
	gocv.Threshold(cell, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	// The glyph is the minority; recognition expects it dark on light.
	whiteCount := gocv.CountNonZero(binary)
	if whiteCount*2 < binary.Rows()*binary.Cols() {
		gocv.BitwiseNot(binary, &binary)
	}

	h, w := binary.Rows(), binary.Cols()
	size := max(h, w)
	top := (size-h)/2 + p.PadPx
	bottom := size - h - (size-h)/2 + p.PadPx
	left := (size-w)/2 + p.PadPx
	right := size - w - (size-w)/2 + p.PadPx

	padded := gocv.NewMat()
	background := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.CopyMakeBorder(binary, &padded, top, bottom, left, right, gocv.BorderConstant, background)
	binary.Close()

	if padded.Cols() < p.MinOCRSide {
		scale := float64(p.MinOCRSide) / float64(padded.Cols())
		scaled := gocv.NewMat()
		gocv.Resize(padded, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
		padded.Close()
		return scaled
	}

	return padded
}

// parseDigit interprets a Recognizer label as a sudoku digit 1-9.
func parseDigit(label string) (int, bool) {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(label) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if len(s) != 1 || s == "0" {
		return 0, false
	}
	return int(s[0] - '0'), true
}
