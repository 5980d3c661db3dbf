package interp

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"likescan/domain/scan"
	"likescan/internal/errors"
	"likescan/ports"
)

var _ ports.Curve = (*Linear)(nil)

// Linear is a piecewise-linear interpolant over the defined samples of a 1D
// scan. Samples whose dnll2 is NaN are discarded before fitting; the domain
// still reports the full sampled x range.
type Linear struct {
	pl     interp.PiecewiseLinear
	lo, hi float64
}

// NewLinear fits the interpolant to the scan samples
func NewLinear(s scan.Scan1D) (*Linear, error) {
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "cannot interpolate malformed scan")
	}

	lo := floats.Min(s.Values)
	hi := floats.Max(s.Values)

	type sample struct{ x, z float64 }
	pts := make([]sample, 0, len(s.Values))
	for k, z := range s.DNLL2 {
		if math.IsNaN(z) {
			continue
		}
		pts = append(pts, sample{x: s.Values[k], z: z})
	}
	sort.Slice(pts, func(a, b int) bool { return pts[a].x < pts[b].x })

	// collapse duplicate x values last-write-wins so the fit sees a strictly
	// increasing sequence
	xs := make([]float64, 0, len(pts))
	zs := make([]float64, 0, len(pts))
	for _, p := range pts {
		if n := len(xs); n > 0 && xs[n-1] == p.x {
			zs[n-1] = p.z
			continue
		}
		xs = append(xs, p.x)
		zs = append(zs, p.z)
	}
	if len(xs) < 2 {
		return nil, errors.InvalidScan("at least 2 defined points are required for interpolation")
	}

	l := &Linear{lo: lo, hi: hi}
	if err := l.pl.Fit(xs, zs); err != nil {
		return nil, errors.InterpolationError("piecewise-linear fit failed", err)
	}
	return l, nil
}

// Eval evaluates the interpolant at x. Querying outside Domain is undefined
// behavior.
func (l *Linear) Eval(x float64) float64 {
	return l.pl.Predict(x)
}

// Domain returns the full sampled x range
func (l *Linear) Domain() (float64, float64) {
	return l.lo, l.hi
}
