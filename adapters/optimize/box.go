package optimize

import (
	"fmt"
	"math"

	gopt "gonum.org/v1/gonum/optimize"

	"likescan/ports"
)

var _ ports.BoxMinimizer = NelderMead{}

const defaultBoxIterations = 1000

// NelderMead is a bounded multivariate minimizer built on the gonum
// Nelder-Mead simplex method. Coordinate-wise bounds are enforced by walling
// the objective with +Inf outside the box; NaN objective values (from
// interpolants queried outside their hull) are treated the same way.
type NelderMead struct {
	// MaxIterations caps the optimizer; zero selects the default
	MaxIterations int
}

// Minimize searches the box [lower, upper] for the minimum of objective,
// starting from initial. An initial guess outside the box is clamped onto it.
func (nm NelderMead) Minimize(objective func([]float64) float64, lower, upper, initial []float64) ports.BoxResult {
	if len(lower) != len(upper) || len(initial) != len(lower) {
		return ports.BoxResult{
			Converged: false,
			Message:   "nelder-mead: bounds and initial guess dimensions disagree",
		}
	}
	for i := range lower {
		if !(upper[i] > lower[i]) {
			return ports.BoxResult{
				Converged: false,
				Message:   fmt.Sprintf("nelder-mead: invalid bounds [%g, %g] on coordinate %d", lower[i], upper[i], i),
			}
		}
	}

	maxIter := nm.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultBoxIterations
	}

	start := make([]float64, len(initial))
	for i, v := range initial {
		start[i] = math.Min(math.Max(v, lower[i]), upper[i])
	}

	walled := func(x []float64) float64 {
		for i := range x {
			if x[i] < lower[i] || x[i] > upper[i] {
				return math.Inf(1)
			}
		}
		v := objective(x)
		if math.IsNaN(v) {
			return math.Inf(1)
		}
		return v
	}

	problem := gopt.Problem{Func: walled}
	settings := &gopt.Settings{
		MajorIterations: maxIter,
		Converger: &gopt.FunctionConverge{
			Absolute:   1e-15,
			Iterations: 50,
		},
	}

	result, err := gopt.Minimize(problem, start, settings, &gopt.NelderMead{})
	if err != nil {
		return ports.BoxResult{
			Converged: false,
			Message:   fmt.Sprintf("nelder-mead: %v", err),
		}
	}

	switch result.Status {
	case gopt.IterationLimit, gopt.RuntimeLimit, gopt.FunctionEvaluationLimit, gopt.Failure, gopt.NotTerminated:
		return ports.BoxResult{
			X:         result.X,
			F:         result.F,
			Converged: false,
			Message:   fmt.Sprintf("nelder-mead: terminated without convergence: %v", result.Status),
		}
	}

	return ports.BoxResult{
		X:         result.X,
		F:         result.F,
		Converged: true,
	}
}
