package classify

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"sync"
	"testing"

	"sudoku-extractor/internal/grid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// stubRecognizer returns canned answers and counts invocations.
type stubRecognizer struct {
	mu     sync.Mutex
	calls  int
	labels []string // consumed in call order; last entry repeats
	conf   float64
	err    error
}

func (s *stubRecognizer) Recognize(_ context.Context, _ []byte) (string, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", 0, s.err
	}
	label := ""
	if len(s.labels) > 0 {
		label = s.labels[0]
		if len(s.labels) > 1 {
			s.labels = s.labels[1:]
		}
	}
	return label, s.conf, nil
}

func (s *stubRecognizer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// makeCell builds a 44x44 binary cell, optionally with an ink blob in the
// center (well above the empty threshold).
func makeCell(row, col int, inked bool) grid.Cell {
	m := gocv.NewMatWithSize(44, 44, gocv.MatTypeCV8UC1)
	if inked {
		white := color.RGBA{R: 255, G: 255, B: 255, A: 0}
		gocv.Rectangle(&m, image.Rect(14, 10, 30, 34), white, -1)
	}
	return grid.Cell{Row: row, Col: col, Mat: m}
}

func TestClassifyCellEmptyShortCircuit(t *testing.T) {
	cell := makeCell(0, 0, false)
	defer cell.Close()

	rec := &stubRecognizer{labels: []string{"8"}, conf: 0.99}
	res := ClassifyCell(context.Background(), cell, rec, DefaultParams())

	assert.Equal(t, StateEmpty, res.State)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Zero(t, rec.callCount(), "empty cell must never reach the recognizer")
}

func TestClassifyCellDigit(t *testing.T) {
	cell := makeCell(2, 3, true)
	defer cell.Close()

	rec := &stubRecognizer{labels: []string{"5"}, conf: 0.91}
	res := ClassifyCell(context.Background(), cell, rec, DefaultParams())

	assert.Equal(t, StateDigit, res.State)
	assert.Equal(t, 5, res.Digit)
	assert.Equal(t, 0.91, res.Confidence)
	assert.Equal(t, 2, res.Row)
	assert.Equal(t, 3, res.Col)
	assert.Equal(t, 1, rec.callCount())
}

func TestClassifyCellLowConfidence(t *testing.T) {
	cell := makeCell(0, 0, true)
	defer cell.Close()

	rec := &stubRecognizer{labels: []string{"5"}, conf: 0.2}
	res := ClassifyCell(context.Background(), cell, rec, DefaultParams())

	assert.Equal(t, StateAmbiguous, res.State)
	assert.Equal(t, 0.2, res.Confidence)
	assert.Zero(t, res.Digit)
}

func TestClassifyCellBadLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
	}{
		{name: "empty label", label: ""},
		{name: "multi digit", label: "12"},
		{name: "zero", label: "0"},
		{name: "letter", label: "S"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := makeCell(0, 0, true)
			defer cell.Close()

			rec := &stubRecognizer{labels: []string{tt.label}, conf: 0.95}
			res := ClassifyCell(context.Background(), cell, rec, DefaultParams())
			assert.Equal(t, StateAmbiguous, res.State)
		})
	}
}

func TestClassifyCellRecognizerFailure(t *testing.T) {
	cell := makeCell(4, 4, true)
	defer cell.Close()

	rec := &stubRecognizer{err: errors.New("tesseract: internal error")}
	res := ClassifyCell(context.Background(), cell, rec, DefaultParams())

	assert.Equal(t, StateAmbiguous, res.State, "transient failures degrade, never abort")
	assert.Zero(t, res.Confidence)
}

func TestParseDigit(t *testing.T) {
	tests := []struct {
		label string
		want  int
		ok    bool
	}{
		{label: "7", want: 7, ok: true},
		{label: " 3\n", want: 3, ok: true},
		{label: "", ok: false},
		{label: "0", ok: false},
		{label: "42", ok: false},
		{label: "x", ok: false},
	}

	for _, tt := range tests {
		got, ok := parseDigit(tt.label)
		assert.Equal(t, tt.ok, ok, "label %q", tt.label)
		if tt.ok {
			assert.Equal(t, tt.want, got, "label %q", tt.label)
		}
	}
}

func TestClassifyAllBlankGrid(t *testing.T) {
	cells := make([]grid.Cell, 0, 81)
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			cells = append(cells, makeCell(row, col, false))
		}
	}
	defer grid.CloseCells(cells)

	rec := &stubRecognizer{labels: []string{"9"}, conf: 0.99}
	results, err := ClassifyAll(context.Background(), cells, rec, DefaultParams().WithWorkers(8))
	require.NoError(t, err)

	g := Assemble(results)
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			assert.Equal(t, StateEmpty, g.At(row, col).State)
		}
	}
	assert.Zero(t, rec.callCount(), "a fully blank grid makes zero recognizer calls")
	assert.Zero(t, g.AmbiguousCount())
}

func TestClassifyAllReassemblesByIdentity(t *testing.T) {
	cells := make([]grid.Cell, 0, 81)
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			cells = append(cells, makeCell(row, col, (row+col)%2 == 0))
		}
	}
	defer grid.CloseCells(cells)

	rec := &stubRecognizer{labels: []string{"7"}, conf: 0.9}
	results, err := ClassifyAll(context.Background(), cells, rec, DefaultParams().WithWorkers(8))
	require.NoError(t, err)
	require.Len(t, results, 81)

	g := Assemble(results)
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			got := g.At(row, col)
			assert.Equal(t, row, got.Row)
			assert.Equal(t, col, got.Col)
			if (row+col)%2 == 0 {
				assert.Equal(t, StateDigit, got.State)
				assert.Equal(t, 7, got.Digit)
			} else {
				assert.Equal(t, StateEmpty, got.State)
			}
		}
	}
}

func TestClassifyAllCancelled(t *testing.T) {
	cells := []grid.Cell{makeCell(0, 0, true)}
	defer grid.CloseCells(cells)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ClassifyAll(ctx, cells, &stubRecognizer{}, DefaultParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembleIgnoresArrivalOrder(t *testing.T) {
	results := make([]CellResult, 0, 81)
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			results = append(results, CellResult{
				Row: row, Col: col,
				State: StateDigit, Digit: (row*9+col)%9 + 1, Confidence: 0.8,
			})
		}
	}

	rand.New(rand.NewSource(1)).Shuffle(len(results), func(i, j int) {
		results[i], results[j] = results[j], results[i]
	})

	g := Assemble(results)
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			assert.Equal(t, (row*9+col)%9+1, g.At(row, col).Digit,
				"cell (%d,%d) must match its identity, not arrival order", row, col)
		}
	}
}

func TestGridDigitsAndPreview(t *testing.T) {
	var results []CellResult
	results = append(results, CellResult{Row: 0, Col: 0, State: StateDigit, Digit: 5, Confidence: 0.9})
	results = append(results, CellResult{Row: 0, Col: 1, State: StateAmbiguous, Confidence: 0.3})
	g := Assemble(results)

	digits := g.Digits()
	require.Len(t, digits, 81)
	assert.Equal(t, byte('5'), digits[0])
	assert.Equal(t, byte('0'), digits[1], "ambiguous renders as 0")
	assert.Equal(t, byte('0'), digits[80])

	preview := g.String()
	assert.Contains(t, preview, "5")
	assert.Contains(t, preview, "?")
	assert.Contains(t, preview, ".")
	assert.Equal(t, 1, g.AmbiguousCount())
}
