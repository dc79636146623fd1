package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func newRectified(side int) *Rectified {
	return &Rectified{
		Mat:  gocv.NewMatWithSize(side, side, gocv.MatTypeCV8UC1),
		Side: side,
	}
}

func TestSplitProduces81EqualCells(t *testing.T) {
	r := newRectified(450)
	defer r.Close()

	cells, err := Split(r, DefaultParams())
	require.NoError(t, err)
	defer CloseCells(cells)

	require.Len(t, cells, 81)

	interior := 450/9 - 2*DefaultParams().CellMarginPx
	for i, c := range cells {
		assert.Equal(t, i/9, c.Row)
		assert.Equal(t, i%9, c.Col)
		assert.Equal(t, interior, c.Mat.Cols())
		assert.Equal(t, interior, c.Mat.Rows())
	}
}

func TestSplitRowMajorOrder(t *testing.T) {
	r := newRectified(252)
	defer r.Close()

	cells, err := Split(r, DefaultParams().WithCellMargin(0))
	require.NoError(t, err)
	defer CloseCells(cells)

	for i, c := range cells {
		assert.Equal(t, i, c.Row*9+c.Col, "cell %d out of row-major order", i)
	}
}

func TestSplitFullCoverageWithoutMargin(t *testing.T) {
	r := newRectified(252)
	defer r.Close()

	cells, err := Split(r, DefaultParams().WithCellMargin(0))
	require.NoError(t, err)
	defer CloseCells(cells)

	cellSide := 252 / 9
	var total int
	for _, c := range cells {
		assert.Equal(t, cellSide, c.Mat.Cols())
		assert.Equal(t, cellSide, c.Mat.Rows())
		total += c.Mat.Cols() * c.Mat.Rows()
	}
	assert.Equal(t, 252*252, total, "cells must tile the square exactly")
}

func TestSplitOversizedMarginCollapses(t *testing.T) {
	r := newRectified(252) // 28px cells
	defer r.Close()

	cells, err := Split(r, DefaultParams().WithCellMargin(30))
	require.NoError(t, err)
	defer CloseCells(cells)

	for _, c := range cells {
		assert.Equal(t, 28, c.Mat.Cols())
		assert.Equal(t, 28, c.Mat.Rows())
	}
}

func TestSplitRejectsMalformedGrid(t *testing.T) {
	bad := &Rectified{Mat: gocv.NewMatWithSize(300, 450, gocv.MatTypeCV8UC1), Side: 450}
	defer bad.Close()

	_, err := Split(bad, DefaultParams())
	assert.Error(t, err)
}

func TestParamsSide(t *testing.T) {
	assert.Equal(t, 450, DefaultParams().side())
	assert.Equal(t, 252, DefaultParams().WithCanonicalSide(10).side())
	assert.Equal(t, 261, DefaultParams().WithCanonicalSide(253).side())
}
