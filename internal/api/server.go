// Package api exposes the analysis pipeline over HTTP: fleet inspection,
// on-demand pass analysis, health, and Prometheus metrics.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/signalsfoundry/passtrack/catalog"
	"github.com/signalsfoundry/passtrack/core"
	"github.com/signalsfoundry/passtrack/internal/config"
	"github.com/signalsfoundry/passtrack/internal/logging"
	"github.com/signalsfoundry/passtrack/internal/observability"
	"github.com/signalsfoundry/passtrack/internal/report"
	"github.com/signalsfoundry/passtrack/internal/tle"
	"github.com/signalsfoundry/passtrack/model"
)

// maxWindow bounds ad-hoc analysis requests; long horizons belong in the
// batch CLI, not a synchronous HTTP handler.
const maxWindow = 7 * 24 * time.Hour

// Server wires the catalog, element resolver, and analyzer behind a gin
// router.
type Server struct {
	cfg      config.Config
	catalog  *catalog.Catalog
	resolver *tle.Resolver
	metrics  *observability.AnalysisCollector
	log      logging.Logger

	router *gin.Engine
}

// NewServer builds the router. The collector may be nil to disable /metrics
// recording; the logger may be nil for silence.
func NewServer(cfg config.Config, cat *catalog.Catalog, resolver *tle.Resolver, collector *observability.AnalysisCollector, log logging.Logger) *Server {
	if log == nil {
		log = logging.Noop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		catalog:  cat,
		resolver: resolver,
		metrics:  collector,
		log:      log,
		router:   router,
	}

	router.Use(s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if collector != nil {
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/satellites", s.listSatellites)
		v1.POST("/analyze", s.analyze)
	}

	return s
}

// ServeHTTP makes the server usable with httptest and custom http.Servers.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger attaches a request_id to the context and logs one line per
// request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, reqLog := logging.WithRequestLogger(c.Request.Context(), s.log)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", logging.RequestIDFromContext(ctx))

		start := time.Now()
		c.Next()

		reqLog.Info(ctx, "http request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) listSatellites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"satellites": s.catalog.List()})
}

// AnalyzeRequest is the body of POST /api/v1/analyze. All fields are
// optional: absent ones fall back to the configured defaults, and an empty
// satellite list means the whole catalog.
type AnalyzeRequest struct {
	Start         time.Time `json:"start,omitempty"`
	DurationHours float64   `json:"duration_hours,omitempty"`
	StepSeconds   float64   `json:"step_seconds,omitempty"`
	Satellites    []string  `json:"satellites,omitempty"`
}

func (s *Server) analyze(c *gin.Context) {
	ctx := c.Request.Context()

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	sampling := s.cfg.Sampling
	if !req.Start.IsZero() {
		sampling.Start = req.Start
	}
	if req.DurationHours > 0 {
		sampling.DurationHours = req.DurationHours
	}
	if req.StepSeconds > 0 {
		sampling.StepSeconds = req.StepSeconds
	}
	cfg := s.cfg
	cfg.Sampling = sampling

	window := cfg.Window(time.Now())
	if err := window.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if window.End.Sub(window.Start) > maxWindow {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window exceeds the 7 day limit for ad-hoc analysis"})
		return
	}

	entries, err := s.selectEntries(req.Satellites)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	targets := make([]core.Target, 0, len(entries))
	for _, entry := range entries {
		elements := s.resolveElements(ctx, entry)
		target := core.Target{Entry: entry, Elements: elements}
		if prop, err := core.NewTLEPropagator(elements); err == nil {
			target.Propagator = prop
		}
		targets = append(targets, target)
	}

	analyzer := &core.Analyzer{
		Observer: cfg.Observer,
		Window:   window,
		Params:   cfg.Signal,
		Log:      s.log,
	}
	if s.metrics != nil {
		analyzer.Recorder = s.metrics
	}

	results, err := analyzer.Run(ctx, targets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report.Dataset{
		GeneratedAt: time.Now().UTC(),
		Observer:    cfg.Observer,
		Params:      cfg.Signal,
		Window:      window,
		Results:     results,
	})
}

// resolveElements serves repeat requests from the catalog's element store,
// falling back to the resolver on a miss. Real element sets are stored for
// reuse; simulated fallbacks are not, so a later request retries the fetch.
func (s *Server) resolveElements(ctx context.Context, entry model.SatelliteEntry) model.OrbitalElements {
	if el, ok := s.catalog.Elements(entry.Name); ok {
		return el
	}
	el, source := s.resolver.Resolve(ctx, entry)
	if source != tle.SourceSimulated {
		if err := s.catalog.SetElements(entry.Name, el); err != nil {
			s.log.Warn(ctx, "failed to store resolved elements",
				logging.String("satellite", entry.Name),
				logging.String("error", err.Error()))
		}
	}
	return el
}

// selectEntries maps requested names onto catalog entries, or returns the
// whole catalog for an empty request.
func (s *Server) selectEntries(names []string) ([]model.SatelliteEntry, error) {
	if len(names) == 0 {
		return s.catalog.List(), nil
	}

	entries := make([]model.SatelliteEntry, 0, len(names))
	for _, name := range names {
		entry := s.catalog.Get(name)
		if entry == nil {
			return nil, &unknownSatelliteError{name: name}
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

type unknownSatelliteError struct{ name string }

func (e *unknownSatelliteError) Error() string {
	return "unknown satellite " + strconv.Quote(e.name)
}
