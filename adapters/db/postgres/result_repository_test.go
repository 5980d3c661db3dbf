package postgres

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"likescan/domain/core"
	"likescan/domain/scan"
)

// TestPayloadRoundTrip exercises the storage format: results go into the
// payload column as JSON and must come back intact, including absent
// crossings (NaN on the Go side, null on the wire).
func TestPayloadRoundTrip(t *testing.T) {
	original := scan.Result1D{
		ID: core.NewScanID(),
		Axis: scan.NewAxisResult("kl", 0.97,
			scan.NoCrossing(),
			scan.CrossingAt(0.31),
			scan.CrossingAt(1.64),
			scan.NoCrossing()),
		CreatedAt: core.Now(),
	}

	payload, err := json.Marshal(original)
	require.NoError(t, err)

	var restored scan.Result1D
	require.NoError(t, json.Unmarshal(payload, &restored))

	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, original.Axis.Parameter, restored.Axis.Parameter)
	assert.Equal(t, original.Axis.Best, restored.Axis.Best)
	assert.Equal(t, original.Axis.P1, restored.Axis.P1)
	require.NotNil(t, restored.Axis.Uncertainty)
	assert.InDelta(t, 0.67, restored.Axis.Uncertainty.Up, 1e-9)

	assert.False(t, restored.Axis.M2.Found)
	assert.True(t, math.IsNaN(restored.Axis.M2.Value))
}
