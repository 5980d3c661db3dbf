package interp

import (
	"math"

	"github.com/fogleman/delaunay"
	"gonum.org/v1/gonum/floats"

	"likescan/internal/errors"
	"likescan/ports"
)

var _ ports.Surface = (*Triangulated)(nil)

// insideTol absorbs floating point noise on triangle edges so queries on a
// shared edge resolve inside rather than falling through the hull.
const insideTol = 1e-9

// Triangulated is a scattered-data surface interpolant built on a Delaunay
// triangulation of the sample coordinates. It is linear within each triangle
// and continuous across shared edges. Eval returns NaN outside the convex
// hull of the samples.
type Triangulated struct {
	points    []delaunay.Point
	values    []float64
	triangles []int // index triples into points
	xlo, xhi  float64
	ylo, yhi  float64
}

// NewTriangulated fits the interpolant to scattered (x, y, z) samples.
// Samples with NaN z are discarded before triangulation.
func NewTriangulated(xs, ys, zs []float64) (*Triangulated, error) {
	if len(xs) != len(zs) || len(ys) != len(zs) {
		return nil, errors.InvalidScan("parallel coordinate arrays differ in length")
	}
	if len(zs) == 0 {
		return nil, errors.InvalidScan("no samples to triangulate")
	}

	xlo, xhi := floats.Min(xs), floats.Max(xs)
	ylo, yhi := floats.Min(ys), floats.Max(ys)

	points := make([]delaunay.Point, 0, len(zs))
	values := make([]float64, 0, len(zs))
	for k, z := range zs {
		if math.IsNaN(z) {
			continue
		}
		points = append(points, delaunay.Point{X: xs[k], Y: ys[k]})
		values = append(values, z)
	}
	if len(points) < 3 {
		return nil, errors.InvalidScan("at least 3 defined points are required for triangulation")
	}

	tri, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, errors.InterpolationError("triangulation failed", err)
	}
	if len(tri.Triangles) == 0 {
		return nil, errors.InvalidScan("samples are collinear, no surface to interpolate")
	}

	return &Triangulated{
		points:    points,
		values:    values,
		triangles: tri.Triangles,
		xlo:       xlo,
		xhi:       xhi,
		ylo:       ylo,
		yhi:       yhi,
	}, nil
}

// Eval evaluates the interpolant at (x, y), or NaN outside the convex hull
func (t *Triangulated) Eval(x, y float64) float64 {
	for k := 0; k < len(t.triangles); k += 3 {
		i0, i1, i2 := t.triangles[k], t.triangles[k+1], t.triangles[k+2]
		a, b, c := t.points[i0], t.points[i1], t.points[i2]

		// cheap bounding box rejection before the barycentric solve
		if x < min3(a.X, b.X, c.X)-insideTol || x > max3(a.X, b.X, c.X)+insideTol {
			continue
		}
		if y < min3(a.Y, b.Y, c.Y)-insideTol || y > max3(a.Y, b.Y, c.Y)+insideTol {
			continue
		}

		w0, w1, w2, ok := barycentric(a, b, c, x, y)
		if !ok {
			continue
		}
		return w0*t.values[i0] + w1*t.values[i1] + w2*t.values[i2]
	}
	return math.NaN()
}

// DomainX returns the full sampled x range
func (t *Triangulated) DomainX() (float64, float64) {
	return t.xlo, t.xhi
}

// DomainY returns the full sampled y range
func (t *Triangulated) DomainY() (float64, float64) {
	return t.ylo, t.yhi
}

// barycentric solves for the barycentric weights of (x, y) in triangle abc.
// ok is false when the point lies outside the triangle or the triangle is
// degenerate.
func barycentric(a, b, c delaunay.Point, x, y float64) (w0, w1, w2 float64, ok bool) {
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if det == 0 {
		return 0, 0, 0, false
	}
	w0 = ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / det
	w1 = ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / det
	w2 = 1 - w0 - w1
	if w0 < -insideTol || w1 < -insideTol || w2 < -insideTol {
		return 0, 0, 0, false
	}
	return w0, w1, w2, true
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
