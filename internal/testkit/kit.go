// Package testkit generates synthetic likelihood scans with known analytic
// shape for use in tests.
package testkit

import (
	"likescan/domain/core"
	"likescan/domain/scan"
)

// Scan1DFromFunc samples f at step-spaced points over [lo, hi] inclusive
func Scan1DFromFunc(param core.ParameterKey, lo, hi, step float64, f func(x float64) float64) scan.Scan1D {
	s := scan.Scan1D{Parameter: param}
	for x := lo; x <= hi+step/2; x += step {
		s.Values = append(s.Values, x)
		s.DNLL2 = append(s.DNLL2, f(x))
	}
	return s
}

// Scan2DFromFunc samples f over the rectangle [xlo, xhi] x [ylo, yhi] at the
// given steps, in expanded-grid order.
func Scan2DFromFunc(px, py core.ParameterKey, xlo, xhi, xstep, ylo, yhi, ystep float64, f func(x, y float64) float64) scan.Scan2D {
	s := scan.Scan2D{ParameterX: px, ParameterY: py}
	for y := ylo; y <= yhi+ystep/2; y += ystep {
		for x := xlo; x <= xhi+xstep/2; x += xstep {
			s.XValues = append(s.XValues, x)
			s.YValues = append(s.YValues, y)
			s.DNLL2 = append(s.DNLL2, f(x, y))
		}
	}
	return s
}

// Parabola returns z = (x - center)^2
func Parabola(center float64) func(x float64) float64 {
	return func(x float64) float64 {
		return (x - center) * (x - center)
	}
}

// Paraboloid returns z = (x - cx)^2 + (y - cy)^2
func Paraboloid(cx, cy float64) func(x, y float64) float64 {
	return func(x, y float64) float64 {
		return (x-cx)*(x-cx) + (y-cy)*(y-cy)
	}
}
