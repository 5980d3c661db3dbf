package optimize

import (
	"fmt"
	"math"

	"likescan/ports"
)

var _ ports.ScalarMinimizer = Golden{}

const (
	invPhi = 0.6180339887498949 // (sqrt(5) - 1) / 2

	defaultScalarTolerance  = 1e-9
	defaultScalarIterations = 500
)

// Golden is a derivative-free bounded scalar minimizer using golden-section
// search. It assumes the objective is unimodal on the interval; on a
// monotonic objective it converges to the interval boundary, which callers
// detect through the open-interval acceptance check.
type Golden struct {
	// Tolerance is the absolute interval width at which the search stops.
	// Zero selects the default.
	Tolerance float64
	// MaxIterations caps the search; exceeding it reports non-convergence.
	// Zero selects the default.
	MaxIterations int
}

// Minimize searches [lo, hi] for the minimum of objective
func (g Golden) Minimize(objective func(float64) float64, lo, hi float64) ports.ScalarResult {
	tol := g.Tolerance
	if tol <= 0 {
		tol = defaultScalarTolerance
	}
	maxIter := g.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultScalarIterations
	}

	if !(hi > lo) || math.IsNaN(lo) || math.IsNaN(hi) {
		return ports.ScalarResult{
			X:         math.NaN(),
			F:         math.NaN(),
			Converged: false,
			Message:   fmt.Sprintf("golden-section: invalid interval [%g, %g]", lo, hi),
		}
	}

	a, b := lo, hi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc := objective(c)
	fd := objective(d)

	iter := 0
	for ; iter < maxIter && b-a > tol; iter++ {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = objective(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = objective(d)
		}
	}

	x := (a + b) / 2
	res := ports.ScalarResult{
		X:          x,
		F:          objective(x),
		Iterations: iter,
		Converged:  b-a <= tol,
	}
	if !res.Converged {
		res.Message = fmt.Sprintf(
			"golden-section: interval width %g still above tolerance %g after %d iterations",
			b-a, tol, iter)
	}
	return res
}
