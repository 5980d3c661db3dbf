package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"likescan/app"
	"likescan/domain/core"
	"likescan/domain/scan"
	"likescan/internal/config"
	apperrors "likescan/internal/errors"
)

// memoryRepo is an in-memory ResultRepository for handler tests
type memoryRepo struct {
	mu  sync.Mutex
	d1  map[core.ScanID]scan.Result1D
	d2  map[core.ScanID]scan.Result2D
	ord []core.ScanID
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		d1: make(map[core.ScanID]scan.Result1D),
		d2: make(map[core.ScanID]scan.Result2D),
	}
}

func (m *memoryRepo) Save1D(_ context.Context, r scan.Result1D) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, seen := m.d1[r.ID]; !seen {
		m.ord = append(m.ord, r.ID)
	}
	m.d1[r.ID] = r
	return nil
}

func (m *memoryRepo) Save2D(_ context.Context, r scan.Result2D) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d2[r.ID] = r
	return nil
}

func (m *memoryRepo) Get1D(_ context.Context, id core.ScanID) (*scan.Result1D, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.d1[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("1d result %s", id))
	}
	return &r, nil
}

func (m *memoryRepo) Get2D(_ context.Context, id core.ScanID) (*scan.Result2D, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.d2[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("2d result %s", id))
	}
	return &r, nil
}

func (m *memoryRepo) List1D(_ context.Context, limit int) ([]scan.Result1D, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []scan.Result1D
	for i := len(m.ord) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.d1[m.ord[i]])
	}
	return out, nil
}

func newTestServer(repo *memoryRepo) *Server {
	cfg, _ := config.Load()
	evaluator := app.NewEvaluator(cfg.Evaluation, nil)
	return NewServer(config.ServerConfig{Port: "0", GinMode: "test"}, evaluator, repo, nil)
}

func post(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

// parabola1D builds a request whose dnll2 follows (x - 0)^2, with one null
// entry standing in for a failed fit
func parabola1D() map[string]interface{} {
	var values []float64
	var dnll2 []interface{}
	for x := -3.0; x <= 3.0; x += 0.1 {
		values = append(values, x)
		dnll2 = append(dnll2, x*x)
	}
	dnll2[5] = nil
	return map[string]interface{}{
		"parameter": "kl",
		"values":    values,
		"dnll2":     dnll2,
	}
}

func TestEvaluate1DEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestServer(repo)

	w := post(t, s, "/api/v1/scans/1d", parabola1D())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res scan.Result1D
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, core.ParameterKey("kl"), res.Axis.Parameter)
	assert.InDelta(t, 0.0, res.Axis.Best, 1e-3)
	require.True(t, res.Axis.P1.Found)
	assert.InDelta(t, 1.0, res.Axis.P1.Value, 1e-3)
	require.NotNil(t, res.Axis.Uncertainty)

	// result was persisted
	assert.Len(t, repo.d1, 1)
}

func TestEvaluate1DRejectsMalformedScan(t *testing.T) {
	s := newTestServer(newMemoryRepo())

	w := post(t, s, "/api/v1/scans/1d", map[string]interface{}{
		"parameter": "kl",
		"values":    []float64{0, 1},
		"dnll2":     []interface{}{0.0}, // length mismatch
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndReport1D(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestServer(repo)

	w := post(t, s, "/api/v1/scans/1d", parabola1D())
	require.Equal(t, http.StatusOK, w.Code)
	var res scan.Result1D
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	w = get(s, "/api/v1/results/1d/"+res.ID.String())
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(s, "/api/v1/results/1d/"+res.ID.String()+"/report")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "kl")

	w = get(s, "/api/v1/results/1d/"+core.NewScanID().String())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList1DEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestServer(repo)

	for i := 0; i < 3; i++ {
		w := post(t, s, "/api/v1/scans/1d", parabola1D())
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := get(s, "/api/v1/results/1d?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}

func TestEvaluate2DEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestServer(repo)

	var xs, ys []float64
	var zs []interface{}
	for x := -4.0; x <= 4.0; x += 0.5 {
		for y := -4.0; y <= 4.0; y += 0.5 {
			xs = append(xs, x)
			ys = append(ys, y)
			zs = append(zs, (x-1)*(x-1)+(y+1)*(y+1))
		}
	}
	w := post(t, s, "/api/v1/scans/2d", map[string]interface{}{
		"parameter_x": "kl",
		"parameter_y": "kt",
		"x_values":    xs,
		"y_values":    ys,
		"dnll2":       zs,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res scan.Result2D
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.InDelta(t, 1.0, res.AxisX.Best, 1e-2)
	assert.InDelta(t, -1.0, res.AxisY.Best, 1e-2)
	assert.Len(t, repo.d2, 1)
}
