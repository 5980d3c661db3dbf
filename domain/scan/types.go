package scan

import (
	"encoding/json"
	"fmt"
	"math"

	"likescan/domain/core"
)

// ============================================================================
// SCAN INPUTS (immutable once constructed)
// ============================================================================

// Scan1D holds the raw samples of a one-parameter profile likelihood scan.
// Values and DNLL2 are parallel arrays; a NaN in DNLL2 marks a point whose
// underlying fit failed. NaN is a legitimate value and must never be read as
// zero.
type Scan1D struct {
	Parameter core.ParameterKey `json:"parameter"`
	Values    []float64         `json:"values"`
	DNLL2     []float64         `json:"dnll2"`
}

// Scan2D holds the raw samples of a two-parameter profile likelihood scan.
// XValues, YValues and DNLL2 are parallel arrays representing an expanded
// grid: the distinct x values times the distinct y values are expected to
// cover a full rectangle, though any subset of cells may be NaN.
type Scan2D struct {
	ParameterX core.ParameterKey `json:"parameter_x"`
	ParameterY core.ParameterKey `json:"parameter_y"`
	XValues    []float64         `json:"x_values"`
	YValues    []float64         `json:"y_values"`
	DNLL2      []float64         `json:"dnll2"`
}

// Validate checks the structural invariants of a 1D scan
func (s Scan1D) Validate() error {
	if len(s.Values) != len(s.DNLL2) {
		return fmt.Errorf("parallel arrays differ in length: %d values vs %d dnll2", len(s.Values), len(s.DNLL2))
	}
	if s.countDefined() < 2 {
		return fmt.Errorf("scan needs at least 2 defined points, got %d", s.countDefined())
	}
	return nil
}

// Validate checks the structural invariants of a 2D scan
func (s Scan2D) Validate() error {
	if len(s.XValues) != len(s.DNLL2) || len(s.YValues) != len(s.DNLL2) {
		return fmt.Errorf("parallel arrays differ in length: %d x, %d y, %d dnll2",
			len(s.XValues), len(s.YValues), len(s.DNLL2))
	}
	if s.countDefined() == 0 {
		return fmt.Errorf("scan has no defined points")
	}
	return nil
}

func (s Scan1D) countDefined() int {
	n := 0
	for _, v := range s.DNLL2 {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

func (s Scan2D) countDefined() int {
	n := 0
	for _, v := range s.DNLL2 {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// ============================================================================
// RECONSTRUCTED GRID (transient intermediate, 2D only)
// ============================================================================

// Grid is a dense 2D array of dnll2 values indexed by rank position within
// the sorted unique coordinate lists of each axis. Cells[j][i] holds the
// value at the i-th smallest x and the j-th smallest y. Cells that could not
// be reconstructed or repaired stay NaN.
type Grid struct {
	XValues []float64   `json:"x_values"` // sorted unique x coordinates, len m
	YValues []float64   `json:"y_values"` // sorted unique y coordinates, len n
	Cells   [][]float64 `json:"cells"`    // n rows by m columns
}

// Shape returns (rows, cols) = (len distinct y, len distinct x)
func (g Grid) Shape() (int, int) {
	return len(g.YValues), len(g.XValues)
}

// At returns the cell value at column i (x rank) and row j (y rank)
func (g Grid) At(i, j int) float64 {
	return g.Cells[j][i]
}

// Points flattens the grid back into scattered (x, y, z) triples, skipping
// cells that are still NaN.
func (g Grid) Points() (xs, ys, zs []float64) {
	for j, row := range g.Cells {
		for i, z := range row {
			if math.IsNaN(z) {
				continue
			}
			xs = append(xs, g.XValues[i])
			ys = append(ys, g.YValues[j])
			zs = append(zs, z)
		}
	}
	return xs, ys, zs
}

// ============================================================================
// SCAN RESULTS (immutable outputs)
// ============================================================================

// Crossing marks where the interpolated curve reaches a threshold level
// along one axis. Found is false when the search did not converge or the
// candidate landed on a domain boundary; the two causes are deliberately not
// distinguished.
type Crossing struct {
	Value float64 `json:"value"`
	Found bool    `json:"found"`
}

// CrossingAt wraps a located crossing point
func CrossingAt(v float64) Crossing {
	return Crossing{Value: v, Found: true}
}

// NoCrossing marks an absent crossing
func NoCrossing() Crossing {
	return Crossing{Value: math.NaN(), Found: false}
}

// MarshalJSON emits an absent crossing as a null value, since NaN has no
// JSON representation.
func (c Crossing) MarshalJSON() ([]byte, error) {
	if !c.Found {
		return []byte(`{"value":null,"found":false}`), nil
	}
	return json.Marshal(struct {
		Value float64 `json:"value"`
		Found bool    `json:"found"`
	}{c.Value, c.Found})
}

func (c *Crossing) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value *float64 `json:"value"`
		Found bool     `json:"found"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Found = raw.Found
	if raw.Value != nil {
		c.Value = *raw.Value
	} else {
		c.Value = math.NaN()
	}
	return nil
}

// Uncertainty is the asymmetric 1 sigma uncertainty pair around a best fit
// value: Up = p1 - best, Down = best - m1.
type Uncertainty struct {
	Up   float64 `json:"up"`
	Down float64 `json:"down"`
}

// AxisResult summarizes one scanned parameter: its best fit value, the four
// sigma crossings, and the derived uncertainty. Uncertainty is nil whenever
// either 1 sigma bound is missing; callers must not infer symmetry.
type AxisResult struct {
	Parameter   core.ParameterKey `json:"parameter"`
	Best        float64           `json:"best"`
	M2          Crossing          `json:"m2"` // -2 sigma bound
	M1          Crossing          `json:"m1"` // -1 sigma bound
	P1          Crossing          `json:"p1"` // +1 sigma bound
	P2          Crossing          `json:"p2"` // +2 sigma bound
	Uncertainty *Uncertainty      `json:"uncertainty,omitempty"`
}

// NewAxisResult assembles an axis summary, deriving the asymmetric
// uncertainty pair when both 1 sigma bounds are present.
func NewAxisResult(param core.ParameterKey, best float64, m2, m1, p1, p2 Crossing) AxisResult {
	r := AxisResult{
		Parameter: param,
		Best:      best,
		M2:        m2,
		M1:        m1,
		P1:        p1,
		P2:        p2,
	}
	if p1.Found && m1.Found {
		r.Uncertainty = &Uncertainty{
			Up:   p1.Value - best,
			Down: best - m1.Value,
		}
	}
	return r
}

// Result1D is the immutable outcome of evaluating a 1D scan
type Result1D struct {
	ID        core.ScanID    `json:"id"`
	Axis      AxisResult     `json:"axis"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// Result2D is the immutable outcome of evaluating a 2D scan. Each axis
// reports the confidence interval along a coordinate line through the
// minimum, not a profiled contour.
type Result2D struct {
	ID        core.ScanID    `json:"id"`
	AxisX     AxisResult     `json:"axis_x"`
	AxisY     AxisResult     `json:"axis_y"`
	CreatedAt core.Timestamp `json:"created_at"`
}
