package classify

import "strings"

// SudokuGrid is the 9x9 row-major structure of per-cell outcomes, immutable
// once assembled.
type SudokuGrid struct {
	Cells [9][9]CellResult
}

// Assemble collects cell results into a SudokuGrid by their (row, col)
// identity, independent of the order they arrive in. Pure aggregation: an
// assembled grid with ambiguous cells is still a valid, deliverable result.
func Assemble(results []CellResult) SudokuGrid {
	var g SudokuGrid
	for _, r := range results {
		if r.Row < 0 || r.Row > 8 || r.Col < 0 || r.Col > 8 {
			continue
		}
		g.Cells[r.Row][r.Col] = r
	}
	return g
}

// At returns the result at (row, col).
func (g SudokuGrid) At(row, col int) CellResult {
	return g.Cells[row][col]
}

// AmbiguousCount returns the number of cells whose recognition was not
// accepted, the grid's quality summary for downstream consumers.
func (g SudokuGrid) AmbiguousCount() int {
	var n int
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if g.Cells[row][col].State == StateAmbiguous {
				n++
			}
		}
	}
	return n
}

// Digits renders the grid as the conventional 81-character string, with 0
// for empty and ambiguous cells, row-major.
func (g SudokuGrid) Digits() string {
	var b strings.Builder
	b.Grow(81)
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			c := g.Cells[row][col]
			if c.State == StateDigit {
				b.WriteByte(byte('0' + c.Digit))
			} else {
				b.WriteByte('0')
			}
		}
	}
	return b.String()
}

// String renders a console preview with dots for blanks, question marks for
// ambiguous cells, and 3x3 box separators.
func (g SudokuGrid) String() string {
	var b strings.Builder
	b.WriteString("+-------+-------+-------+\n")
	for row := 0; row < 9; row++ {
		b.WriteString("|")
		for col := 0; col < 9; col++ {
			c := g.Cells[row][col]
			switch c.State {
			case StateDigit:
				b.WriteByte(' ')
				b.WriteByte(byte('0' + c.Digit))
			case StateAmbiguous:
				b.WriteString(" ?")
			default:
				b.WriteString(" .")
			}
			if col%3 == 2 {
				b.WriteString(" |")
			}
		}
		b.WriteByte('\n')
		if row%3 == 2 {
			b.WriteString("+-------+-------+-------+\n")
		}
	}
	return b.String()
}
