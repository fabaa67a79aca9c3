package api

import (
	"net/http"

	"cordex/internal/config"
	"cordex/internal/pipeline"
	"cordex/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// NewRouter builds the JSON API over the current snapshot
func NewRouter(source ports.SnapshotSource, p *pipeline.Pipeline, settings config.PipelineConfig, logger *zap.Logger) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{source: source, pipeline: p, settings: settings, logger: logger.Named("api")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", c.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/shape", c.Shape)
		r.Get("/missing", c.Missing)
		r.Get("/describe", c.Describe)
		r.Get("/bounds", c.Bounds)
		r.Get("/aggregates/{name}", c.Aggregate)
		r.Get("/papers", c.Papers)
	})
	return r
}
