package grid

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"likescan/domain/scan"
	"likescan/internal/errors"
)

// DefaultLogFloor is the smallest cell value allowed on a log-scaled z axis
// when no explicit floor is configured.
const DefaultLogFloor = 1e-3

// Reconstructor maps scattered (x, y, z) scan samples onto a dense
// rectangular grid indexed by the rank of each coordinate within the sorted
// unique value lists of its axis, and optionally repairs failed-fit cells.
type Reconstructor struct {
	// RepairMissing fills NaN cells with the mean of their defined
	// grid-adjacent neighbors. Single pass: a cell whose neighbors are all
	// NaN stays NaN.
	RepairMissing bool
	// LogScale clamps non-positive cells to a positive floor so the grid can
	// feed a log-scaled consumer.
	LogScale bool
	// LogFloor overrides DefaultLogFloor when positive
	LogFloor float64
}

// Reconstruct builds the dense grid for a 2D scan. Duplicate samples at the
// same coordinates resolve last-write-wins.
func (r Reconstructor) Reconstruct(s scan.Scan2D) (scan.Grid, error) {
	if err := s.Validate(); err != nil {
		return scan.Grid{}, errors.Wrap(err, "cannot reconstruct grid from malformed scan")
	}

	xs := uniqueSorted(s.XValues)
	ys := uniqueSorted(s.YValues)

	cells := make([][]float64, len(ys))
	for j := range cells {
		row := make([]float64, len(xs))
		for i := range row {
			row[i] = math.NaN()
		}
		cells[j] = row
	}

	// axis values are continuous floats snapped to a small discrete set, so
	// rank lookup goes through binary search rather than hashing
	for k, z := range s.DNLL2 {
		i := sort.SearchFloat64s(xs, s.XValues[k])
		j := sort.SearchFloat64s(ys, s.YValues[k])
		cells[j][i] = z
	}

	g := scan.Grid{XValues: xs, YValues: ys, Cells: cells}

	if r.RepairMissing {
		repair(g)
	}
	if r.LogScale {
		floor := r.LogFloor
		if floor <= 0 {
			floor = DefaultLogFloor
		}
		clampNonPositive(g, floor)
	}
	return g, nil
}

// repair performs the single-pass neighbor-mean fill. All means are computed
// against the pre-repair cell values, then assigned at once, so a repaired
// cell never contributes to another cell's mean.
func repair(g scan.Grid) {
	rows, cols := g.Shape()

	type fill struct {
		i, j int
		v    float64
	}
	var fills []fill

	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			if !math.IsNaN(g.Cells[j][i]) {
				continue
			}
			var vals []float64
			for _, c := range neighborCoordinates(rows, cols, j, i) {
				if v := g.Cells[c[0]][c[1]]; !math.IsNaN(v) {
					vals = append(vals, v)
				}
			}
			mean, err := stats.Mean(vals)
			if err != nil {
				// no defined neighbors, cell stays NaN
				continue
			}
			fills = append(fills, fill{i: i, j: j, v: mean})
		}
	}

	for _, f := range fills {
		g.Cells[f.j][f.i] = f.v
	}
}

// neighborCoordinates returns the up-to-8 grid-adjacent (row, col) pairs of
// a cell, trimmed at edges and corners.
func neighborCoordinates(rows, cols, j, i int) [][2]int {
	coords := make([][2]int, 0, 8)
	for dj := -1; dj <= 1; dj++ {
		for di := -1; di <= 1; di++ {
			if dj == 0 && di == 0 {
				continue
			}
			nj, ni := j+dj, i+di
			if nj < 0 || nj >= rows || ni < 0 || ni >= cols {
				continue
			}
			coords = append(coords, [2]int{nj, ni})
		}
	}
	return coords
}

// clampNonPositive raises every cell at or below zero to the smallest
// positive value present in the grid, capped by floor. Zero is included
// since it is mathematically disallowed on a log axis. NaN cells are left
// untouched.
func clampNonPositive(g scan.Grid, floor float64) {
	posMin := floor
	for _, row := range g.Cells {
		for _, v := range row {
			if v > 0 && v < posMin {
				posMin = v
			}
		}
	}
	for _, row := range g.Cells {
		for i, v := range row {
			if v <= 0 {
				row[i] = posMin
			}
		}
	}
}

// uniqueSorted returns the distinct values of vs in ascending order
func uniqueSorted(vs []float64) []float64 {
	out := make([]float64, len(vs))
	copy(out, vs)
	sort.Float64s(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}
