package app

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"likescan/adapters/grid"
	"likescan/adapters/interp"
	"likescan/adapters/optimize"
	"likescan/domain/core"
	"likescan/domain/scan"
	"likescan/internal"
	"likescan/internal/config"
	"likescan/internal/errors"
	"likescan/ports"
)

// Options1D tunes a single 1D evaluation
type Options1D struct {
	// BestFit supplies an externally computed best fit value; the minimum
	// search is skipped when set.
	BestFit *float64
}

// Options2D tunes a single 2D evaluation. The minimum search is skipped only
// when both coordinates are supplied.
type Options2D struct {
	BestFitX *float64
	BestFitY *float64
}

// Evaluation1D couples the immutable result record with the continuous
// interpolant, for downstream collaborators that render or re-query the
// curve.
type Evaluation1D struct {
	Result scan.Result1D
	Curve  ports.Curve
}

// Evaluation2D couples the result record with the interpolated surface and
// the reconstructed grid.
type Evaluation2D struct {
	Result  scan.Result2D
	Surface ports.Surface
	Grid    scan.Grid
}

// Evaluator turns raw profile likelihood scan samples into a statistical
// result: best fit point and 1/2 sigma confidence intervals. Every call is a
// pure function of its inputs; an Evaluator is safe for concurrent use.
type Evaluator struct {
	cfg    config.EvaluationConfig
	logger *internal.Logger
	scalar ports.ScalarMinimizer
	box    ports.BoxMinimizer
}

// NewEvaluator creates an evaluator with minimizers built from the
// evaluation configuration.
func NewEvaluator(cfg config.EvaluationConfig, logger *internal.Logger) *Evaluator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Evaluator{
		cfg:    cfg,
		logger: logger,
		scalar: optimize.Golden{
			Tolerance:     cfg.ScalarTolerance,
			MaxIterations: cfg.MaxIterations,
		},
		box: optimize.NelderMead{
			MaxIterations: cfg.MaxIterations,
		},
	}
}

// Evaluate1D summarizes a 1D scan using the 1 degree-of-freedom thresholds.
// A minimizer failure while locating the best fit is fatal; absent sigma
// crossings are not.
func (e *Evaluator) Evaluate1D(ctx context.Context, s scan.Scan1D, opts Options1D) (*Evaluation1D, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	curve, err := interp.NewLinear(s)
	if err != nil {
		return nil, err
	}
	lo, hi := curve.Domain()
	eps := e.cfg.Epsilon

	best, err := e.locateMinimum1D(curve, lo, hi, opts.BestFit)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("1d scan %s: best fit at %g", s.Parameter, best)

	levels, err := scan.Levels(1)
	if err != nil {
		return nil, err
	}

	p1, m1 := e.crossings(curve.Eval, best, lo+eps, hi-eps, levels.Sigma1)
	p2, m2 := e.crossings(curve.Eval, best, lo+eps, hi-eps, levels.Sigma2)

	result := scan.Result1D{
		ID:        core.NewScanID(),
		Axis:      scan.NewAxisResult(s.Parameter, best, m2, m1, p1, p2),
		CreatedAt: core.Now(),
	}
	return &Evaluation1D{Result: result, Curve: curve}, nil
}

// Evaluate2D summarizes a 2D scan. Each axis interval is extracted along the
// coordinate line through the minimum with the other axis held fixed, using
// the 2 degree-of-freedom thresholds of the joint fit.
func (e *Evaluator) Evaluate2D(ctx context.Context, s scan.Scan2D, opts Options2D) (*Evaluation2D, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, err := grid.Reconstructor{RepairMissing: e.cfg.RepairMissing}.Reconstruct(s)
	if err != nil {
		return nil, err
	}

	xs, ys, zs := g.Points()
	surface, err := interp.NewTriangulated(xs, ys, zs)
	if err != nil {
		return nil, err
	}

	// search bounds come from the full sampled ranges, not the NaN-filtered
	// points; the interpolant's hull guard covers the difference
	xlo, xhi := floats.Min(s.XValues), floats.Max(s.XValues)
	ylo, yhi := floats.Min(s.YValues), floats.Max(s.YValues)
	eps := e.cfg.Epsilon

	bestX, bestY, err := e.locateMinimum2D(surface, xlo, xhi, ylo, yhi, opts)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("2d scan %s/%s: best fit at (%g, %g)", s.ParameterX, s.ParameterY, bestX, bestY)

	levels, err := scan.Levels(2)
	if err != nil {
		return nil, err
	}

	alongX := func(x float64) float64 { return surface.Eval(x, bestY) }
	alongY := func(y float64) float64 { return surface.Eval(bestX, y) }

	xp1, xm1 := e.crossings(alongX, bestX, xlo+eps, xhi-eps, levels.Sigma1)
	xp2, xm2 := e.crossings(alongX, bestX, xlo+eps, xhi-eps, levels.Sigma2)
	yp1, ym1 := e.crossings(alongY, bestY, ylo+eps, yhi-eps, levels.Sigma1)
	yp2, ym2 := e.crossings(alongY, bestY, ylo+eps, yhi-eps, levels.Sigma2)

	result := scan.Result2D{
		ID:        core.NewScanID(),
		AxisX:     scan.NewAxisResult(s.ParameterX, bestX, xm2, xm1, xp1, xp2),
		AxisY:     scan.NewAxisResult(s.ParameterY, bestY, ym2, ym1, yp1, yp2),
		CreatedAt: core.Now(),
	}
	return &Evaluation2D{Result: result, Surface: surface, Grid: g}, nil
}

// locateMinimum1D finds the best fit value, minimizing |interp| over the
// shrunk sample range unless one was supplied. The profile minimum sits at
// dnll2 = 0 on this scale, hence the magnitude objective.
func (e *Evaluator) locateMinimum1D(curve ports.Curve, lo, hi float64, supplied *float64) (float64, error) {
	if supplied != nil {
		return *supplied, nil
	}
	eps := e.cfg.Epsilon
	res := e.scalar.Minimize(func(x float64) float64 {
		return math.Abs(curve.Eval(x))
	}, lo+eps, hi-eps)
	if !res.Converged {
		return 0, errors.NoConvergence(res.Message)
	}
	return res.X, nil
}

// locateMinimum2D finds the best fit point, minimizing interp^2 over the
// shrunk sample box from a fixed initial guess unless both coordinates were
// supplied.
func (e *Evaluator) locateMinimum2D(surface ports.Surface, xlo, xhi, ylo, yhi float64, opts Options2D) (float64, float64, error) {
	if opts.BestFitX != nil && opts.BestFitY != nil {
		return *opts.BestFitX, *opts.BestFitY, nil
	}
	eps := e.cfg.Epsilon
	res := e.box.Minimize(func(p []float64) float64 {
		v := surface.Eval(p[0], p[1])
		return v * v
	},
		[]float64{xlo + eps, ylo + eps},
		[]float64{xhi - eps, yhi - eps},
		[]float64{1, 1},
	)
	if !res.Converged {
		return 0, 0, errors.NoConvergence(res.Message)
	}
	return res.X[0], res.X[1], nil
}

// crossings searches outward from the minimum for the two points where f
// reaches the level v, over [best, hi] on the upper side and [lo, best] on
// the lower side. Absent crossings are a legitimate outcome.
func (e *Evaluator) crossings(f func(float64) float64, best, lo, hi, v float64) (up, down scan.Crossing) {
	up = e.crossing(f, best, hi, v)
	down = e.crossing(f, lo, best, v)
	return up, down
}

// crossing minimizes the squared residual (f - v)^2 over [lo, hi]. The
// candidate is accepted only when the search converged and the solution sits
// strictly inside the open interval; a boundary-pinned solution means the
// curve never reaches v within the sampled domain. Non-convergence and
// boundary pinning are deliberately reported the same way.
func (e *Evaluator) crossing(f func(float64) float64, lo, hi, v float64) scan.Crossing {
	if !(hi > lo) {
		return scan.NoCrossing()
	}
	res := e.scalar.Minimize(func(x float64) float64 {
		d := f(x) - v
		return d * d
	}, lo, hi)
	if !res.Converged {
		return scan.NoCrossing()
	}

	// the scalar search converges to within its tolerance of a boundary when
	// the objective is monotonic, so strict interiority needs a margin wider
	// than that tolerance
	margin := boundaryMargin(lo, hi, e.cfg.ScalarTolerance)
	if res.X <= lo+margin || res.X >= hi-margin {
		return scan.NoCrossing()
	}
	return scan.CrossingAt(res.X)
}

func boundaryMargin(lo, hi, tolerance float64) float64 {
	if tolerance <= 0 {
		tolerance = 1e-9
	}
	return math.Max(1e-6*(hi-lo), 10*tolerance)
}
