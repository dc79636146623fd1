package grid

import (
	"errors"
	"fmt"
	"math"

	"sudoku-extractor/pkg/geometry"

	"gocv.io/x/gocv"
)

// ErrNotFound reports that no contour qualified as a grid boundary.
var ErrNotFound = errors.New("no qualifying grid boundary")

// Boundary is the best-guess outer border of the puzzle: four corner points
// in TL, TR, BR, BL order.
type Boundary struct {
	Corners geometry.Quad
	Area    float64 // polygon area of the corners, in pixels
	Score   float64 // area weighted by quadrilateral-fit quality
}

type candidate struct {
	corners geometry.Quad
	area    float64
	score   float64
}

// Locate finds the puzzle boundary on a binary ink mask. Candidates are the
// external contours of connected ink regions, scored by area and by how well
// a four-corner polygon fits them. Non-convex, degenerate, and excessively
// skewed candidates are rejected, as are candidates covering less than
// MinAreaFraction of the image. When two scores are within ScoreEpsilon the
// larger polygon wins, preferring the outer border over the inner lattice.
func Locate(binary gocv.Mat, p Params) (*Boundary, error) {
	if binary.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrNotFound)
	}

	imgArea := float64(binary.Cols() * binary.Rows())
	minArea := p.MinAreaFraction * imgArea

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var candidates []candidate

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)

		contourArea := gocv.ContourArea(contour)
		if contourArea < minArea {
			continue
		}

		epsilon := p.ApproxEpsilon * gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, epsilon, true)

		// A border with slightly ragged corners may approximate to 5 or 6
		// vertices; more than that is not quadrilateral-like.
		if approx.Size() < 4 || approx.Size() > 6 {
			approx.Close()
			continue
		}

		points := make([]geometry.Point2D, approx.Size())
		for j := 0; j < approx.Size(); j++ {
			pt := approx.At(j)
			points[j] = geometry.Point2D{X: float64(pt.X), Y: float64(pt.Y)}
		}
		approx.Close()

		corners := geometry.OrderCorners(points)
		if corners.IsDegenerate() || !corners.IsConvex() {
			continue
		}

		if skew := rotationAngle(contour); math.Abs(skew) > p.SkewLimitDegrees {
			continue
		}

		quadArea := corners.Area()
		if quadArea < minArea {
			continue
		}

		// Fit residual: how much the contour deviates from its 4-point
		// approximation. A clean rectangle scores close to its raw area.
		residual := math.Abs(contourArea-quadArea) / quadArea
		if residual > 1 {
			residual = 1
		}

		candidates = append(candidates, candidate{
			corners: corners,
			area:    quadArea,
			score:   contourArea * (1 - residual),
		})
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %d contours examined", ErrNotFound, contours.Size())
	}

	best := pickBest(candidates, p.ScoreEpsilon)
	return &Boundary{Corners: best.corners, Area: best.area, Score: best.score}, nil
}

// pickBest selects the highest-scoring candidate, then tie-breaks within the
// score window: outermost (largest) polygon wins. The window stays anchored
// to the top score, so a chain of near-ties cannot drift below it.
func pickBest(candidates []candidate, scoreEpsilon float64) candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}

	floor := best.score * (1 - scoreEpsilon)
	for _, c := range candidates {
		if c.score >= floor && c.area > best.area {
			best = c
		}
	}
	return best
}

// rotationAngle returns the rotation of the contour's minimum-area rectangle,
// normalized to [-45, 45] degrees.
func rotationAngle(contour gocv.PointVector) float64 {
	rect := gocv.MinAreaRect(contour)
	angle := rect.Angle
	for angle <= -45 {
		angle += 90
	}
	for angle > 45 {
		angle -= 90
	}
	return angle
}
