package grid

import (
	"fmt"
	"image"

	"sudoku-extractor/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// Rectified is the perspective-corrected square view of the puzzle.
// Side is always divisible by 9.
type Rectified struct {
	Mat  gocv.Mat
	Side int
}

// Close releases the underlying buffer.
func (r *Rectified) Close() {
	r.Mat.Close()
}

// Rectify maps the boundary corners onto a canonical square via a projective
// transform and resamples the source with interpolation. The homography is
// solved in pure Go with gonum and applied with gocv, which keeps the math
// testable without OpenCV and portable across gocv versions.
func Rectify(src gocv.Mat, b *Boundary, p Params) (*Rectified, error) {
	if b == nil || b.Corners.IsDegenerate() {
		return nil, fmt.Errorf("degenerate boundary corners")
	}

	side := p.side()
	s := float64(side - 1)
	dst := geometry.Quad{
		{X: 0, Y: 0},
		{X: s, Y: 0},
		{X: s, Y: s},
		{X: 0, Y: s},
	}

	h, err := solveHomography(b.Corners, dst)
	if err != nil {
		return nil, fmt.Errorf("solve projective transform: %w", err)
	}

	transform := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer transform.Close()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			transform.SetDoubleAt(row, col, h[row*3+col])
		}
	}

	out := gocv.NewMat()
	gocv.WarpPerspective(src, &out, transform, image.Point{X: side, Y: side})

	return &Rectified{Mat: out, Side: side}, nil
}

// solveHomography computes the 3x3 projective transform mapping the four
// source corners onto the four destination corners. Built the same way as an
// affine solve but with the two perspective terms, giving an 8x8 linear
// system; a singular system (collinear or coincident corners) is an error.
func solveHomography(src, dst geometry.Quad) ([9]float64, error) {
	var h [9]float64

	// Each correspondence (x,y) -> (u,v) contributes two rows:
	//   u = (h0*x + h1*y + h2) / (h6*x + h7*y + 1)
	//   v = (h3*x + h4*y + h5) / (h6*x + h7*y + 1)
	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -u*x)
		A.Set(i*2, 7, -u*y)
		B.SetVec(i*2, u)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -v*x)
		A.Set(i*2+1, 7, -v*y)
		B.SetVec(i*2+1, v)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return h, err
	}

	for i := 0; i < 8; i++ {
		h[i] = params.AtVec(i)
	}
	h[8] = 1
	return h, nil
}

// applyHomography maps a point through a 3x3 projective transform.
// Used by tests to verify corner mapping without gocv.
func applyHomography(h [9]float64, p geometry.Point2D) geometry.Point2D {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	return geometry.Point2D{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}
