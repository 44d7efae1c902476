// Package excel renders sweep results to .xlsx workbooks.
package excel

import (
	"github.com/xuri/excelize/v2"

	"statdesign/app/sweep"
)

var sweepHeaders = []string{"power", "effect", "n1", "n2", "n_total"}

// WriteSweep writes one row per sweep point to Sheet1 of a new
// workbook at path, header row first.
func WriteSweep(path string, result *sweep.Result) error {
	f := excelize.NewFile()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range sweepHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, point := range result.Points {
		rowIdx := r + 2
		values := []any{point.Power, point.Effect, point.N1, point.N2, point.Total}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
