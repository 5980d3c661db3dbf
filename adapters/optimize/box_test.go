package optimize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNelderMeadQuadratic verifies convergence to an interior 2D minimum
func TestNelderMeadQuadratic(t *testing.T) {
	f := func(x []float64) float64 {
		return (x[0]-1)*(x[0]-1) + (x[1]+2)*(x[1]+2)
	}

	res := NelderMead{}.Minimize(f, []float64{-5, -6}, []float64{5, 2}, []float64{1, 1})
	require.True(t, res.Converged, "expected convergence: %s", res.Message)
	assert.InDelta(t, 1.0, res.X[0], 1e-4)
	assert.InDelta(t, -2.0, res.X[1], 1e-4)
}

// TestNelderMeadRespectsBounds verifies the walled objective keeps the
// solution inside the box when the unconstrained minimum lies outside it.
func TestNelderMeadRespectsBounds(t *testing.T) {
	f := func(x []float64) float64 {
		return (x[0]-10)*(x[0]-10) + x[1]*x[1]
	}

	res := NelderMead{}.Minimize(f, []float64{-1, -1}, []float64{1, 1}, []float64{0, 0})
	require.True(t, res.Converged, "expected convergence: %s", res.Message)
	assert.LessOrEqual(t, res.X[0], 1.0)
	assert.GreaterOrEqual(t, res.X[0], -1.0)
	assert.InDelta(t, 1.0, res.X[0], 1e-3, "minimum should sit on the upper x bound")
}

// TestNelderMeadClampsInitialGuess verifies an out-of-box start is moved
// onto the box instead of failing.
func TestNelderMeadClampsInitialGuess(t *testing.T) {
	f := func(x []float64) float64 {
		return x[0]*x[0] + x[1]*x[1]
	}

	res := NelderMead{}.Minimize(f, []float64{-2, -2}, []float64{2, 2}, []float64{100, -100})
	require.True(t, res.Converged, "expected convergence: %s", res.Message)
	assert.InDelta(t, 0.0, res.X[0], 1e-4)
	assert.InDelta(t, 0.0, res.X[1], 1e-4)
}

// TestNelderMeadNaNObjective verifies NaN regions act as walls rather than
// poisoning the search.
func TestNelderMeadNaNObjective(t *testing.T) {
	f := func(x []float64) float64 {
		if x[0] < -0.5 {
			return math.NaN()
		}
		return (x[0]-0.5)*(x[0]-0.5) + x[1]*x[1]
	}

	res := NelderMead{}.Minimize(f, []float64{-2, -2}, []float64{2, 2}, []float64{0, 0})
	require.True(t, res.Converged, "expected convergence: %s", res.Message)
	assert.InDelta(t, 0.5, res.X[0], 1e-4)
}

// TestNelderMeadInvalidBounds verifies malformed boxes are rejected with a
// diagnostic.
func TestNelderMeadInvalidBounds(t *testing.T) {
	f := func(x []float64) float64 { return x[0] }

	res := NelderMead{}.Minimize(f, []float64{1, 0}, []float64{0, 1}, []float64{0, 0})
	assert.False(t, res.Converged)
	assert.NotEmpty(t, res.Message)

	res = NelderMead{}.Minimize(f, []float64{0}, []float64{1, 2}, []float64{0})
	assert.False(t, res.Converged)
}
