// Package export writes extracted grids to an Excel workbook, one sheet per
// source image, with the 3x3 box structure rendered through cell borders.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sudoku-extractor/internal/classify"
	"sudoku-extractor/internal/pipeline"

	"github.com/xuri/excelize/v2"
)

const (
	gridTopRow  = 6 // rows 1-4 hold metadata, row 5 is a spacer
	gridLeftCol = 1 // column A
)

// maxSheetName is the workbook format's sheet name limit.
const maxSheetName = 31

// Write writes a single result to its own workbook at path. Empty and
// ambiguous cells are left blank; the ambiguity count is recorded in the
// sheet metadata so uncertain grids are not mistaken for clean ones.
func Write(path string, res *pipeline.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	name := baseSheetName(res.Source, maxSheetName)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, name, res); err != nil {
		return fmt.Errorf("write sheet %s: %w", name, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// WriteWorkbook writes all results into one combined .xlsx file at path,
// one sheet per result.
func WriteWorkbook(path string, results []*pipeline.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, res := range results {
		name := sheetName(res.Source, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, res); err != nil {
			return fmt.Errorf("write sheet %s: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, res *pipeline.Result) error {
	meta := [][2]any{
		{"Source:", res.Source},
		{"Extracted:", res.Extracted.Format(time.RFC3339)},
		{"Ambiguous cells:", res.Grid.AmbiguousCount()},
		{"Elapsed:", res.Elapsed.Round(time.Millisecond).String()},
	}
	for i, kv := range meta {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), kv[1]); err != nil {
			return err
		}
	}

	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			cell := res.Grid.At(row, col)
			axis, err := excelize.CoordinatesToCellName(gridLeftCol+col, gridTopRow+row)
			if err != nil {
				return err
			}
			if cell.State == classify.StateDigit {
				if err := f.SetCellValue(sheet, axis, cell.Digit); err != nil {
					return err
				}
			}
			styleID, err := f.NewStyle(cellStyle(row, col))
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, axis, axis, styleID); err != nil {
				return err
			}
		}
	}

	last, err := excelize.ColumnNumberToName(gridLeftCol + 8)
	if err != nil {
		return err
	}
	first, err := excelize.ColumnNumberToName(gridLeftCol)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, first, last, 4); err != nil {
		return err
	}
	for row := 0; row < 9; row++ {
		if err := f.SetRowHeight(sheet, gridTopRow+row, 22); err != nil {
			return err
		}
	}
	return nil
}

// cellStyle builds the border set for one grid position: thin edges inside a
// box, medium edges on box and grid boundaries.
func cellStyle(row, col int) *excelize.Style {
	weight := func(boundary bool) int {
		if boundary {
			return 2
		}
		return 1
	}
	return &excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: weight(col%3 == 0)},
			{Type: "right", Color: "000000", Style: weight(col%3 == 2)},
			{Type: "top", Color: "000000", Style: weight(row%3 == 0)},
			{Type: "bottom", Color: "000000", Style: weight(row%3 == 2)},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Size: 12},
	}
}

// baseSheetName derives a workbook-safe sheet name from the source image
// path, clamped to limit characters.
func baseSheetName(source string, limit int) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	for _, bad := range []string{":", "\\", "/", "?", "*", "[", "]"} {
		base = strings.ReplaceAll(base, bad, "_")
	}
	if base == "" {
		base = "grid"
	}
	if len(base) > limit {
		base = base[:limit]
	}
	return base
}

// sheetName names a sheet in a combined workbook; the index suffix keeps
// same-stem sources distinct.
func sheetName(source string, index int) string {
	suffix := fmt.Sprintf(" (%d)", index+1)
	return baseSheetName(source, maxSheetName-len(suffix)) + suffix
}
