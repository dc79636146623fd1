// Package grid locates the puzzle boundary in a normalized image, corrects
// its perspective onto a canonical square, and splits that square into the
// 81 cell sub-images.
package grid

// Params controls boundary detection and cell extraction.
type Params struct {
	// MinAreaFraction is the minimum contour area relative to the image area
	// for a candidate boundary.
	MinAreaFraction float64

	// ApproxEpsilon is the polygon approximation tolerance as a fraction of
	// the contour arc length.
	ApproxEpsilon float64

	// SkewLimitDegrees rejects candidates rotated beyond this angle.
	SkewLimitDegrees float64

	// ScoreEpsilon is the relative score window within which two candidates
	// count as tied; ties go to the larger polygon area.
	ScoreEpsilon float64

	// CanonicalSide is the side length of the rectified square. It is always
	// rounded up to a multiple of 9 so cell slicing has no remainder.
	CanonicalSide int

	// CellMarginPx is the fixed inward margin trimmed from each cell to
	// exclude grid-line bleed.
	CellMarginPx int
}

// DefaultParams returns detection parameters tuned for printed 9x9 puzzles
// photographed or scanned at moderate quality.
func DefaultParams() Params {
	return Params{
		MinAreaFraction:  0.10,
		ApproxEpsilon:    0.02,
		SkewLimitDegrees: 25,
		ScoreEpsilon:     0.05,
		CanonicalSide:    450,
		CellMarginPx:     4,
	}
}

// WithCanonicalSide returns a copy of params with a custom rectified side
// length, rounded up to the next multiple of 9.
func (p Params) WithCanonicalSide(side int) Params {
	p.CanonicalSide = side
	return p
}

// WithMinAreaFraction returns a copy of params with a custom area floor.
func (p Params) WithMinAreaFraction(frac float64) Params {
	p.MinAreaFraction = frac
	return p
}

// WithSkewLimit returns a copy of params with a custom skew limit in degrees.
func (p Params) WithSkewLimit(degrees float64) Params {
	p.SkewLimitDegrees = degrees
	return p
}

// WithCellMargin returns a copy of params with a custom per-cell margin.
func (p Params) WithCellMargin(px int) Params {
	p.CellMarginPx = px
	return p
}

// side returns the effective canonical side length: at least 252 and always
// divisible by 9.
func (p Params) side() int {
	s := p.CanonicalSide
	if s < 252 {
		s = 252
	}
	if r := s % 9; r != 0 {
		s += 9 - r
	}
	return s
}
