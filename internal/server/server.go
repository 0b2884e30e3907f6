// Package server exposes the adjudication engine over HTTP.
package server

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dev.caws.arbiter/internal/adjudication"
	"dev.caws.arbiter/internal/adjudication/audit"
	"dev.caws.arbiter/internal/observability/metrics"
	"dev.caws.arbiter/internal/store/sqlite"
)

// Server wires the engine, the verdict archive and the observability
// surface behind a Gin router.
type Server struct {
	engine  *adjudication.Engine
	archive *sqlite.Store
	audit   *audit.Recorder
	metrics *metrics.Collector
	logger  *zap.Logger
	router  *gin.Engine
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server's structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithArchive attaches a verdict archive; published verdicts are persisted
// and become retrievable by provenance id.
func WithArchive(archive *sqlite.Store) Option {
	return func(s *Server) { s.archive = archive }
}

// WithAuditRecorder exposes adjudication trails over the API.
func WithAuditRecorder(r *audit.Recorder) Option {
	return func(s *Server) { s.audit = r }
}

// WithMetrics mounts the Prometheus endpoint.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// New creates the server and registers its routes.
func New(engine *adjudication.Engine, opts ...Option) *Server {
	s := &Server{engine: engine, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

// Router returns the underlying Gin engine, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves HTTP on the given address until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("arbiter listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v1 := s.router.Group("/v1")
	v1.POST("/adjudications", s.handleAdjudicate)
	v1.GET("/adjudications/:id/trail", s.handleTrail)
	v1.GET("/verdicts/:provenance_id", s.handleGetVerdict)
	v1.GET("/tasks/:task_id/verdicts", s.handleListVerdicts)
}

type adjudicationRequest struct {
	WorkingSpec adjudication.WorkingSpec       `json:"working_spec"`
	Candidates  []adjudication.CandidateOutput `json:"candidates"`
}

type adjudicationResponse struct {
	Verdict        *adjudication.Verdict `json:"verdict"`
	Signature      string                `json:"signature"`
	AdjudicationID string                `json:"adjudication_id"`
}

func (s *Server) handleAdjudicate(c *gin.Context) {
	var req adjudicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
		return
	}

	result, err := s.engine.AdjudicateDetailed(c.Request.Context(), req.WorkingSpec, req.Candidates)
	if err != nil {
		s.logger.Warn("adjudication failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	if s.archive != nil {
		if err := s.archive.Save(c.Request.Context(), result.Verdict, result.Signature); err != nil {
			s.logger.Error("verdict archive write failed",
				zap.String("provenance_id", result.Verdict.ProvenanceID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verdict archive write failed"})
			return
		}
	}

	c.JSON(http.StatusOK, adjudicationResponse{
		Verdict:        result.Verdict,
		Signature:      base64.StdEncoding.EncodeToString(result.Signature),
		AdjudicationID: result.AdjudicationID,
	})
}

func (s *Server) handleGetVerdict(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "verdict archive not configured"})
		return
	}

	record, err := s.archive.GetByProvenanceID(c.Request.Context(), c.Param("provenance_id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "verdict not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleListVerdicts(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "verdict archive not configured"})
		return
	}

	records, err := s.archive.ListByTask(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdicts": records})
}

func (s *Server) handleTrail(c *gin.Context) {
	if s.audit == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "audit recorder not configured"})
		return
	}

	trail := s.audit.Trail(c.Param("id"))
	if trail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "adjudication not found"})
		return
	}
	c.JSON(http.StatusOK, trail)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusForError maps the engine's error taxonomy onto HTTP statuses:
// malformed batches are the caller's fault, timeouts are gateway timeouts,
// and collaborator failures are bad upstream responses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, adjudication.ErrInvalidCandidate):
		return http.StatusBadRequest
	case errors.Is(err, adjudication.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, adjudication.ErrPolicyValidation),
		errors.Is(err, adjudication.ErrClaimExtraction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
