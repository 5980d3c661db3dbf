package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"likescan/app"
	"likescan/domain/core"
	"likescan/domain/scan"
	"likescan/internal"
	"likescan/internal/config"
	apperrors "likescan/internal/errors"
	"likescan/internal/report"
	"likescan/ports"
)

// Server exposes scan evaluation over HTTP. The repository is optional;
// without one the server evaluates but does not persist, and the result
// endpoints return 404.
type Server struct {
	router    *gin.Engine
	evaluator *app.Evaluator
	repo      ports.ResultRepository
	logger    *internal.Logger
	cfg       config.ServerConfig
}

// NewServer creates a new API server instance
func NewServer(cfg config.ServerConfig, evaluator *app.Evaluator, repo ports.ResultRepository, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	gin.SetMode(cfg.GinMode)

	s := &Server{
		router:    gin.New(),
		evaluator: evaluator,
		repo:      repo,
		logger:    logger,
		cfg:       cfg,
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/scans/1d", s.handleEvaluate1D)
		v1.POST("/scans/2d", s.handleEvaluate2D)
		v1.GET("/results/1d", s.handleList1D)
		v1.GET("/results/1d/:id", s.handleGet1D)
		v1.GET("/results/2d/:id", s.handleGet2D)
		v1.GET("/results/1d/:id/report", s.handleReport1D)
		v1.GET("/results/2d/:id/report", s.handleReport2D)
	}
}

// Router exposes the underlying engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := ":" + s.cfg.Port
	s.logger.Info("API server listening on %s", addr)
	return s.router.Run(addr)
}

// scanRequest1D is the wire form of a 1D scan. JSON has no NaN, so failed
// fit points arrive as null dnll2 entries.
type scanRequest1D struct {
	Parameter string     `json:"parameter" binding:"required"`
	Values    []float64  `json:"values" binding:"required"`
	DNLL2     []*float64 `json:"dnll2" binding:"required"`
	BestFit   *float64   `json:"best_fit,omitempty"`
}

type scanRequest2D struct {
	ParameterX string     `json:"parameter_x" binding:"required"`
	ParameterY string     `json:"parameter_y" binding:"required"`
	XValues    []float64  `json:"x_values" binding:"required"`
	YValues    []float64  `json:"y_values" binding:"required"`
	DNLL2      []*float64 `json:"dnll2" binding:"required"`
	BestFitX   *float64   `json:"best_fit_x,omitempty"`
	BestFitY   *float64   `json:"best_fit_y,omitempty"`
}

func (s *Server) handleEvaluate1D(c *gin.Context) {
	var req scanRequest1D
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sc := scan.Scan1D{
		Parameter: core.ParameterKey(req.Parameter),
		Values:    req.Values,
		DNLL2:     denull(req.DNLL2),
	}
	if err := sc.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eval, err := s.evaluator.Evaluate1D(c.Request.Context(), sc, app.Options1D{BestFit: req.BestFit})
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.persist1D(c, eval.Result); err != nil {
		return
	}
	c.JSON(http.StatusOK, eval.Result)
}

func (s *Server) handleEvaluate2D(c *gin.Context) {
	var req scanRequest2D
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sc := scan.Scan2D{
		ParameterX: core.ParameterKey(req.ParameterX),
		ParameterY: core.ParameterKey(req.ParameterY),
		XValues:    req.XValues,
		YValues:    req.YValues,
		DNLL2:      denull(req.DNLL2),
	}
	if err := sc.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eval, err := s.evaluator.Evaluate2D(c.Request.Context(), sc, app.Options2D{
		BestFitX: req.BestFitX,
		BestFitY: req.BestFitY,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	if s.repo != nil {
		if err := s.repo.Save2D(c.Request.Context(), eval.Result); err != nil {
			s.logger.Error("failed to persist 2d result: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist result"})
			return
		}
	}
	c.JSON(http.StatusOK, eval.Result)
}

func (s *Server) persist1D(c *gin.Context, res scan.Result1D) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save1D(c.Request.Context(), res); err != nil {
		s.logger.Error("failed to persist 1d result: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist result"})
		return err
	}
	return nil
}

func (s *Server) handleGet1D(c *gin.Context) {
	res, ok := s.load1D(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleGet2D(c *gin.Context) {
	res, ok := s.load2D(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleList1D(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result store configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	results, err := s.repo.List1D(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (s *Server) handleReport1D(c *gin.Context) {
	res, ok := s.load1D(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(report.Markdown1D(*res)))
}

func (s *Server) handleReport2D(c *gin.Context) {
	res, ok := s.load2D(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(report.Markdown2D(*res)))
}

func (s *Server) load1D(c *gin.Context) (*scan.Result1D, bool) {
	id, ok := s.scanID(c)
	if !ok {
		return nil, false
	}
	res, err := s.repo.Get1D(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return res, true
}

func (s *Server) load2D(c *gin.Context) (*scan.Result2D, bool) {
	id, ok := s.scanID(c)
	if !ok {
		return nil, false
	}
	res, err := s.repo.Get2D(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return res, true
}

func (s *Server) scanID(c *gin.Context) (core.ScanID, bool) {
	if s.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result store configured"})
		return "", false
	}
	id, err := core.ParseScanID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scan id"})
		return "", false
	}
	return id, true
}

// respondError maps application error codes onto HTTP statuses
func (s *Server) respondError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidScan, apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeNoConvergence:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status >= 500 {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// denull converts wire-form dnll2 values back to floats, null meaning a
// failed fit
func denull(vs []*float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	return out
}
