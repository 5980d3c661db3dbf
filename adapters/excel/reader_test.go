package excel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	apperrors "likescan/internal/errors"
)

func TestRead1DFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.csv")
	data := "kl,dnll2\n-2,9.5\n-1,4.1\n0,\n1,0.0\n2,bad\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewScanReader(path).Read1D()
	if err != nil {
		t.Fatalf("Read1D failed: %v", err)
	}
	if s.Parameter != "kl" {
		t.Errorf("expected parameter kl, got %s", s.Parameter)
	}
	if len(s.Values) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(s.Values))
	}
	if s.Values[0] != -2 || s.DNLL2[0] != 9.5 {
		t.Errorf("row 0 mismatch: %v %v", s.Values[0], s.DNLL2[0])
	}
	if !math.IsNaN(s.DNLL2[2]) {
		t.Error("empty dnll2 cell should load as NaN")
	}
	if !math.IsNaN(s.DNLL2[4]) {
		t.Error("non-numeric dnll2 cell should load as NaN")
	}
}

func TestRead1DRejectsBadParameterValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.csv")
	if err := os.WriteFile(path, []byte("kl,dnll2\nnope,1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewScanReader(path).Read1D()
	if err == nil {
		t.Fatal("expected error for unparseable parameter value")
	}
	if apperrors.GetCode(err) != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT code, got %s", apperrors.GetCode(err))
	}
}

func TestRead2DFromExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"kl", "kt", "dnll2"},
		{0.0, 0.0, 3.2},
		{0.0, 1.0, nil},
		{1.0, 0.0, 1.1},
		{1.0, 1.0, 0.0},
	}
	for n, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, n+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	s, err := NewScanReader(path).Read2D()
	if err != nil {
		t.Fatalf("Read2D failed: %v", err)
	}
	if s.ParameterX != "kl" || s.ParameterY != "kt" {
		t.Errorf("parameter header mismatch: %s %s", s.ParameterX, s.ParameterY)
	}
	if len(s.XValues) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(s.XValues))
	}
	if !math.IsNaN(s.DNLL2[1]) {
		t.Error("empty dnll2 cell should load as NaN")
	}
	if s.DNLL2[3] != 0.0 {
		t.Errorf("expected dnll2 0.0, got %v", s.DNLL2[3])
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := NewScanReader("/does/not/exist.csv").Read1D(); err == nil {
		t.Error("expected error for missing file")
	}
}
