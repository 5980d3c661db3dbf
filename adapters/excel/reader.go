package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"likescan/domain/core"
	"likescan/domain/scan"
	apperrors "likescan/internal/errors"
	"likescan/ports"
)

var _ ports.ScanReader = (*ScanReader)(nil)

// ScanReader reads raw scan samples from Excel and CSV files produced by a
// batch scan runner. 1D files carry two columns (parameter value, dnll2),
// 2D files three (x, y, dnll2), with a header row naming the parameters.
// Empty or non-numeric dnll2 cells mark failed fits and load as NaN.
type ScanReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewScanReader creates a reader that handles both Excel and CSV files
func NewScanReader(filePath string) *ScanReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &ScanReader{filePath: filePath, fileType: fileType}
}

// Read1D loads a two-column scan file
func (r *ScanReader) Read1D() (scan.Scan1D, error) {
	rows, err := r.rows()
	if err != nil {
		return scan.Scan1D{}, err
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return scan.Scan1D{}, apperrors.InvalidInput("1d scan file needs a header and at least one data row with 2 columns")
	}

	s := scan.Scan1D{Parameter: core.ParameterKey(strings.TrimSpace(rows[0][0]))}
	for n, row := range rows[1:] {
		if len(row) < 1 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return scan.Scan1D{}, apperrors.InvalidInput(fmt.Sprintf("row %d: bad parameter value %q", n+2, row[0]))
		}
		s.Values = append(s.Values, x)
		s.DNLL2 = append(s.DNLL2, parseDNLL2(row, 1))
	}
	return s, nil
}

// Read2D loads a three-column scan file
func (r *ScanReader) Read2D() (scan.Scan2D, error) {
	rows, err := r.rows()
	if err != nil {
		return scan.Scan2D{}, err
	}
	if len(rows) < 2 || len(rows[0]) < 3 {
		return scan.Scan2D{}, apperrors.InvalidInput("2d scan file needs a header and at least one data row with 3 columns")
	}

	s := scan.Scan2D{
		ParameterX: core.ParameterKey(strings.TrimSpace(rows[0][0])),
		ParameterY: core.ParameterKey(strings.TrimSpace(rows[0][1])),
	}
	for n, row := range rows[1:] {
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return scan.Scan2D{}, apperrors.InvalidInput(fmt.Sprintf("row %d: bad x value %q", n+2, row[0]))
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return scan.Scan2D{}, apperrors.InvalidInput(fmt.Sprintf("row %d: bad y value %q", n+2, row[1]))
		}
		s.XValues = append(s.XValues, x)
		s.YValues = append(s.YValues, y)
		s.DNLL2 = append(s.DNLL2, parseDNLL2(row, 2))
	}
	return s, nil
}

func (r *ScanReader) rows() ([][]string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("scan file not found: %s", r.filePath)
	}
	switch r.fileType {
	case "csv":
		return r.readCSVRows()
	case "xlsx":
		return r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *ScanReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// always use the first sheet
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func (r *ScanReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// parseDNLL2 reads the dnll2 cell at index col; anything unparseable is a
// failed fit and becomes NaN.
func parseDNLL2(row []string, col int) float64 {
	if col >= len(row) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
