package excel

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"likescan/domain/scan"
)

// ReportWriter exports evaluation results to an Excel workbook, one sheet
// per result, so analysts can inspect intervals without the API.
type ReportWriter struct {
	file *excelize.File
}

func NewReportWriter() *ReportWriter {
	return &ReportWriter{file: excelize.NewFile()}
}

// Add1D appends a sheet for a 1D result
func (w *ReportWriter) Add1D(res scan.Result1D) error {
	sheet := fmt.Sprintf("scan_%s", res.Axis.Parameter)
	if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	return w.writeAxis(sheet, 1, res.Axis)
}

// Add2D appends a sheet with both axes of a 2D result
func (w *ReportWriter) Add2D(res scan.Result2D) error {
	sheet := fmt.Sprintf("scan_%s_%s", res.AxisX.Parameter, res.AxisY.Parameter)
	if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := w.writeAxis(sheet, 1, res.AxisX); err != nil {
		return err
	}
	return w.writeAxis(sheet, 8, res.AxisY)
}

func (w *ReportWriter) writeAxis(sheet string, row int, axis scan.AxisResult) error {
	set := func(col string, r int, v interface{}) error {
		return w.file.SetCellValue(sheet, fmt.Sprintf("%s%d", col, r), v)
	}
	if err := set("A", row, string(axis.Parameter)); err != nil {
		return err
	}
	if err := set("B", row, "best fit"); err != nil {
		return err
	}
	if err := set("C", row, axis.Best); err != nil {
		return err
	}

	bounds := []struct {
		label string
		c     scan.Crossing
	}{
		{"-2 sigma", axis.M2},
		{"-1 sigma", axis.M1},
		{"+1 sigma", axis.P1},
		{"+2 sigma", axis.P2},
	}
	for n, b := range bounds {
		if err := set("B", row+1+n, b.label); err != nil {
			return err
		}
		if b.c.Found {
			if err := set("C", row+1+n, b.c.Value); err != nil {
				return err
			}
		} else {
			if err := set("C", row+1+n, "not found"); err != nil {
				return err
			}
		}
	}

	if axis.Uncertainty != nil {
		if err := set("B", row+5, "uncertainty"); err != nil {
			return err
		}
		if err := set("C", row+5, fmt.Sprintf("+%.6g / -%.6g", axis.Uncertainty.Up, axis.Uncertainty.Down)); err != nil {
			return err
		}
	}
	return nil
}

// AddGrid appends a sheet with the reconstructed dense grid of a 2D scan,
// x values across the top, y values down the first column. NaN cells stay
// empty.
func (w *ReportWriter) AddGrid(name string, g scan.Grid) error {
	sheet := fmt.Sprintf("grid_%s", name)
	if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	for i, x := range g.XValues {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheet, cell, x); err != nil {
			return err
		}
	}
	for j, y := range g.YValues {
		cell, err := excelize.CoordinatesToCellName(1, j+2)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheet, cell, y); err != nil {
			return err
		}
		for i := range g.XValues {
			v := g.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+2, j+2)
			if err != nil {
				return err
			}
			if err := w.file.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Save writes the workbook to disk, dropping the default empty sheet.
func (w *ReportWriter) Save(path string) error {
	if idx, err := w.file.GetSheetIndex("Sheet1"); err == nil && idx >= 0 && len(w.file.GetSheetList()) > 1 {
		w.file.DeleteSheet("Sheet1")
	}
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}
