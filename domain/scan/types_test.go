package scan

import (
	"encoding/json"
	"math"
	"testing"
)

// TestScan1DValidate tests structural validation of 1D scans
func TestScan1DValidate(t *testing.T) {
	valid := Scan1D{
		Parameter: "r",
		Values:    []float64{-1, 0, 1},
		DNLL2:     []float64{1, 0, 1},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid scan, got %v", err)
	}

	mismatched := Scan1D{Values: []float64{0, 1}, DNLL2: []float64{0}}
	if err := mismatched.Validate(); err == nil {
		t.Error("expected error for mismatched array lengths")
	}

	allNaN := Scan1D{
		Values: []float64{0, 1, 2},
		DNLL2:  []float64{math.NaN(), math.NaN(), math.NaN()},
	}
	if err := allNaN.Validate(); err == nil {
		t.Error("expected error for scan with no defined points")
	}
}

// TestScan2DValidate tests structural validation of 2D scans
func TestScan2DValidate(t *testing.T) {
	valid := Scan2D{
		XValues: []float64{0, 1, 0, 1},
		YValues: []float64{0, 0, 1, 1},
		DNLL2:   []float64{0, 1, 1, 2},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid scan, got %v", err)
	}

	mismatched := Scan2D{
		XValues: []float64{0, 1},
		YValues: []float64{0},
		DNLL2:   []float64{0, 1},
	}
	if err := mismatched.Validate(); err == nil {
		t.Error("expected error for mismatched array lengths")
	}
}

// TestNewAxisResultUncertainty verifies the asymmetric uncertainty assembly
func TestNewAxisResultUncertainty(t *testing.T) {
	r := NewAxisResult("r", 0.5, CrossingAt(-1.5), CrossingAt(-0.25), CrossingAt(1.5), CrossingAt(2.5))
	if r.Uncertainty == nil {
		t.Fatal("expected uncertainty when both 1 sigma bounds are present")
	}
	if math.Abs(r.Uncertainty.Up-1.0) > 1e-12 {
		t.Errorf("expected up uncertainty 1.0, got %f", r.Uncertainty.Up)
	}
	if math.Abs(r.Uncertainty.Down-0.75) > 1e-12 {
		t.Errorf("expected down uncertainty 0.75, got %f", r.Uncertainty.Down)
	}
}

// TestNewAxisResultMissingBound verifies uncertainty stays absent when a
// 1 sigma bound is missing; it must not default to the other side's value.
func TestNewAxisResultMissingBound(t *testing.T) {
	r := NewAxisResult("r", 0.5, NoCrossing(), NoCrossing(), CrossingAt(1.5), CrossingAt(2.5))
	if r.Uncertainty != nil {
		t.Errorf("expected nil uncertainty with missing m1 bound, got %+v", r.Uncertainty)
	}
	if r.P1.Found != true || r.M1.Found != false {
		t.Error("crossing presence flags not preserved")
	}
}

// TestGridPoints verifies NaN cells are skipped when flattening a grid
func TestGridPoints(t *testing.T) {
	g := Grid{
		XValues: []float64{0, 1},
		YValues: []float64{10, 20},
		Cells: [][]float64{
			{1, math.NaN()},
			{3, 4},
		},
	}
	xs, ys, zs := g.Points()
	if len(xs) != 3 || len(ys) != 3 || len(zs) != 3 {
		t.Fatalf("expected 3 defined points, got %d", len(xs))
	}
	// first defined point is cell (0,0)
	if xs[0] != 0 || ys[0] != 10 || zs[0] != 1 {
		t.Errorf("unexpected first point (%f, %f, %f)", xs[0], ys[0], zs[0])
	}
	rows, cols := g.Shape()
	if rows != 2 || cols != 2 {
		t.Errorf("expected shape (2,2), got (%d,%d)", rows, cols)
	}
}

// TestCrossingJSONRoundTrip checks that absent crossings survive JSON, since
// NaN itself cannot be encoded
func TestCrossingJSONRoundTrip(t *testing.T) {
	axis := NewAxisResult("kl", 1.0, NoCrossing(), CrossingAt(0.5), CrossingAt(1.5), NoCrossing())

	data, err := json.Marshal(axis)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back AxisResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.M2.Found || !math.IsNaN(back.M2.Value) {
		t.Errorf("absent crossing should round-trip to NaN/not found, got %+v", back.M2)
	}
	if !back.P1.Found || back.P1.Value != 1.5 {
		t.Errorf("present crossing mangled: %+v", back.P1)
	}
	if back.Uncertainty == nil || back.Uncertainty.Up != 0.5 || back.Uncertainty.Down != 0.5 {
		t.Errorf("uncertainty mangled: %+v", back.Uncertainty)
	}
}
