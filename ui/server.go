package ui

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"cordex/internal/config"
	"cordex/internal/errors"
	"cordex/internal/pipeline"
	"cordex/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the dashboard web server
type Server struct {
	router    *gin.Engine
	source    ports.SnapshotSource
	pipeline  *pipeline.Pipeline
	templates *template.Template
	settings  config.PipelineConfig
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
}

// Options are the collaborators of a Server
type Options struct {
	Source    ports.SnapshotSource
	Pipeline  *pipeline.Pipeline
	Templates fs.FS // rooted at the templates directory
	Settings  config.PipelineConfig
	Gatherer  prometheus.Gatherer
	GinMode   string
	Logger    *zap.Logger
}

// NewServer parses the templates and wires the routes
func NewServer(opts Options) (*Server, error) {
	if opts.Source == nil || opts.Pipeline == nil {
		return nil, errors.InvalidInput("dashboard needs a snapshot source and a pipeline")
	}
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	tmpl, err := parseTemplates(opts.Templates)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		source:    opts.Source,
		pipeline:  opts.Pipeline,
		templates: tmpl,
		settings:  opts.Settings,
		gatherer:  opts.Gatherer,
		logger:    opts.Logger.Named("ui"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/fragments/filtered", s.handleFiltered)
	s.router.GET("/charts/:name", s.handleChart)
	s.router.GET("/report", s.handleReport)
	s.router.GET("/report.md", s.handleReportMarkdown)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "dashboard server failed")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
