package app

import (
	"context"
	"math"
	"testing"

	"likescan/domain/scan"
	"likescan/internal/testkit"
)

// TestBatchRun1D verifies outcomes come back in order with per-scan error
// isolation: one malformed scan does not abort the others.
func TestBatchRun1D(t *testing.T) {
	e := NewEvaluator(testConfig(), nil)
	b := NewBatchEvaluator(e, 4)

	items := []Batch1DItem{
		{Name: "centered", Scan: testkit.Scan1DFromFunc("r", -3, 3, 1, testkit.Parabola(0))},
		{Name: "broken", Scan: scan.Scan1D{Values: []float64{0}, DNLL2: []float64{1}}},
		{Name: "shifted", Scan: testkit.Scan1DFromFunc("r", -3, 3, 1, testkit.Parabola(1))},
	}

	outcomes := b.Run1D(context.Background(), items)
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}

	if outcomes[0].Err != nil {
		t.Errorf("centered: unexpected error %v", outcomes[0].Err)
	}
	if math.Abs(outcomes[0].Evaluation.Result.Axis.Best) > 1e-6 {
		t.Errorf("centered: expected minimum at 0, got %g", outcomes[0].Evaluation.Result.Axis.Best)
	}

	if outcomes[1].Err == nil {
		t.Error("broken: expected error for single-point scan")
	}
	if outcomes[1].Name != "broken" {
		t.Errorf("expected ordered outcomes, got %q at index 1", outcomes[1].Name)
	}

	if outcomes[2].Err != nil {
		t.Errorf("shifted: unexpected error %v", outcomes[2].Err)
	}
	if math.Abs(outcomes[2].Evaluation.Result.Axis.Best-1) > 1e-6 {
		t.Errorf("shifted: expected minimum at 1, got %g", outcomes[2].Evaluation.Result.Axis.Best)
	}
}

// TestBatchRun2D verifies 2D batches evaluate independently
func TestBatchRun2D(t *testing.T) {
	e := NewEvaluator(testConfig(), nil)
	b := NewBatchEvaluator(e, 0) // default worker count

	items := []Batch2DItem{
		{Name: "a", Scan: testkit.Scan2DFromFunc("kl", "kt", -3, 5, 1, -6, 2, 1, testkit.Paraboloid(1, -2))},
		{Name: "b", Scan: testkit.Scan2DFromFunc("kl", "kt", -4, 4, 1, -4, 4, 1, testkit.Paraboloid(0, 0))},
	}

	outcomes := b.Run2D(context.Background(), items)
	for _, o := range outcomes {
		if o.Err != nil {
			t.Fatalf("%s: unexpected error %v", o.Name, o.Err)
		}
	}
	if math.Abs(outcomes[0].Evaluation.Result.AxisX.Best-1) > 1e-2 {
		t.Errorf("a: expected x minimum near 1, got %g", outcomes[0].Evaluation.Result.AxisX.Best)
	}
	if math.Abs(outcomes[1].Evaluation.Result.AxisX.Best) > 1e-2 {
		t.Errorf("b: expected x minimum near 0, got %g", outcomes[1].Evaluation.Result.AxisX.Best)
	}
}
