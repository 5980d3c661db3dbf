package scan

import (
	"fmt"
)

// LevelSet carries the -2 delta lnL thresholds corresponding to 1 and 2
// sigma coverage for a fixed number of degrees of freedom.
type LevelSet struct {
	DOF    int     `json:"dof"`
	Sigma1 float64 `json:"sigma1"`
	Sigma2 float64 `json:"sigma2"`
}

// Chi-square quantiles at the 1 and 2 sigma gaussian coverage probabilities
// (68.27% and 95.45%), for 1 and 2 simultaneously profiled parameters.
// Static configuration, never recomputed from a live distribution.
var chiSquareLevels = map[int]LevelSet{
	1: {DOF: 1, Sigma1: 1.0, Sigma2: 4.0},
	2: {DOF: 2, Sigma1: 2.295748928898636, Sigma2: 6.180074306244173},
}

// Levels returns the threshold table for the given degrees of freedom.
// Only 1 and 2 are defined.
func Levels(dof int) (LevelSet, error) {
	ls, ok := chiSquareLevels[dof]
	if !ok {
		return LevelSet{}, fmt.Errorf("no chi-square levels for %d degrees of freedom", dof)
	}
	return ls, nil
}
