package grid

import (
	"image"

	"gocv.io/x/gocv"
)

// newMask creates a black single-channel square mask.
func newMask(size int) gocv.Mat {
	return gocv.NewMatWithSize(size, size, gocv.MatTypeCV8UC1)
}

// drawRectangle draws a white rectangle outline (or filled, thickness -1).
func drawRectangle(mask *gocv.Mat, rect image.Rectangle, thickness int) {
	gocv.Rectangle(mask, rect, white, thickness)
}

// rotateMask rotates and rescales a mask about its center, keeping the
// original canvas size.
func rotateMask(src gocv.Mat, degrees, scale float64) gocv.Mat {
	center := image.Point{X: src.Cols() / 2, Y: src.Rows() / 2}
	m := gocv.GetRotationMatrix2D(center, degrees, scale)
	defer m.Close()

	dst := gocv.NewMat()
	gocv.WarpAffine(src, &dst, m, image.Point{X: src.Cols(), Y: src.Rows()})
	return dst
}
