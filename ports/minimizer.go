package ports

// ScalarResult reports the outcome of a bounded scalar minimization
type ScalarResult struct {
	X          float64 // location of the candidate minimum
	F          float64 // objective value at X
	Iterations int     // iterations spent
	Converged  bool    // whether the tolerance was reached within the iteration cap
	Message    string  // diagnostic, set when Converged is false
}

// ScalarMinimizer minimizes an objective over a closed interval [lo, hi].
// The iteration cap is an implementation parameter and is the only
// computational budget this subsystem honors.
type ScalarMinimizer interface {
	Minimize(objective func(float64) float64, lo, hi float64) ScalarResult
}

// BoxResult reports the outcome of a bounded multivariate minimization
type BoxResult struct {
	X         []float64 // location of the candidate minimum
	F         float64   // objective value at X
	Converged bool      // whether the optimizer reported convergence
	Message   string    // diagnostic, set when Converged is false
}

// BoxMinimizer minimizes an objective over a rectangular region with
// coordinate-wise bounds, starting from an initial guess.
type BoxMinimizer interface {
	Minimize(objective func([]float64) float64, lower, upper, initial []float64) BoxResult
}
