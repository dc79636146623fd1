package grid

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Cell is one of the 81 sub-images of a rectified grid, addressed by
// (Row, Col) in [0,8]x[0,8]. The Mat is an owned copy of the cell interior
// with the grid-line margin already trimmed.
type Cell struct {
	Row int
	Col int
	Mat gocv.Mat
}

// Close releases the cell buffer.
func (c *Cell) Close() {
	c.Mat.Close()
}

// CloseCells releases all cell buffers.
func CloseCells(cells []Cell) {
	for i := range cells {
		cells[i].Close()
	}
}

// Split partitions a rectified grid into an exact 9x9 lattice of equal
// cells in row-major order. The side is divisible by 9 by construction, so
// integer division leaves no remainder and cells cover the square with no
// gaps or overlaps. A fixed inward margin excludes grid-line bleed; a margin
// that would consume the whole cell collapses to zero instead.
func Split(r *Rectified, p Params) ([]Cell, error) {
	if r == nil || r.Mat.Empty() {
		return nil, fmt.Errorf("empty rectified grid")
	}
	if r.Side%9 != 0 || r.Mat.Cols() != r.Side || r.Mat.Rows() != r.Side {
		return nil, fmt.Errorf("rectified grid is %dx%d with side %d, want square side divisible by 9",
			r.Mat.Cols(), r.Mat.Rows(), r.Side)
	}

	cellSize := r.Side / 9
	margin := p.CellMarginPx
	if margin < 0 || margin*2 >= cellSize {
		margin = 0
	}

	cells := make([]Cell, 0, 81)
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			x0 := col*cellSize + margin
			y0 := row*cellSize + margin
			x1 := (col+1)*cellSize - margin
			y1 := (row+1)*cellSize - margin

			region := r.Mat.Region(image.Rect(x0, y0, x1, y1))
			owned := region.Clone()
			region.Close()

			cells = append(cells, Cell{Row: row, Col: col, Mat: owned})
		}
	}

	return cells, nil
}
