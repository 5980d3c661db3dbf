package ports

// Curve is a continuous approximation of a discretely sampled 1D likelihood
// profile. Evaluating outside the sampled domain is undefined behavior;
// callers must constrain queries to [Domain()].
type Curve interface {
	// Eval evaluates the interpolant at x
	Eval(x float64) float64
	// Domain returns the sampled x range
	Domain() (lo, hi float64)
}

// Surface is a continuous approximation of a discretely sampled 2D
// likelihood surface. Eval returns NaN for points outside the convex hull of
// the samples; that is the guard against queries straying outside the
// explored region.
type Surface interface {
	// Eval evaluates the interpolant at (x, y)
	Eval(x, y float64) float64
	// DomainX returns the sampled x range
	DomainX() (lo, hi float64)
	// DomainY returns the sampled y range
	DomainY() (lo, hi float64)
}
