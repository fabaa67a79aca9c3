package container

import (
	"context"
	"fmt"

	"cordex/adapters/excel"
	"cordex/internal/config"
	"cordex/internal/pipeline"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Data access
	Reader *excel.DataReader

	// Analysis
	Metrics  *pipeline.Metrics
	Pipeline *pipeline.Pipeline
	Cache    *pipeline.Cache
	Source   *pipeline.Source

	// Optional, set by StartWatcher
	Watcher *pipeline.Watcher
}

// New wires the reader, pipeline and cache for the configured data file.
// A nil registerer leaves the metrics unregistered.
func New(cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.Reader = excel.NewDataReader(excel.DefaultReaderConfig(), logger)
	c.Metrics = pipeline.NewMetrics(reg)
	deriver := pipeline.NewDeriver(c.Reader.Coercer(), cfg.Pipeline.DropColumn)
	c.Pipeline = pipeline.New(c.Reader, deriver, pipeline.OptionsFromConfig(cfg.Pipeline), c.Metrics, logger)
	c.Cache = pipeline.NewCache(c.Pipeline, c.Metrics, logger)
	c.Source = pipeline.NewSource(c.Cache, cfg.Data.File)

	return c, nil
}

// StartWatcher invalidates the cache whenever the data file changes.
// It is a no-op when watching is disabled in the configuration.
func (c *Container) StartWatcher(ctx context.Context) error {
	if !c.Config.Data.Watch || c.Watcher != nil {
		return nil
	}
	w, err := pipeline.NewWatcher(c.Config.Data.File, c.Cache, c.Logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Close()
		return err
	}
	c.Watcher = w
	return nil
}

// Warm builds the first snapshot so an unreadable data file aborts startup
func (c *Container) Warm(ctx context.Context) error {
	snap, err := c.Source.Current(ctx)
	if err != nil {
		return err
	}
	c.Logger.Info("initial snapshot ready",
		zap.String("run_id", snap.RunID),
		zap.Int("rows", snap.Shape().Rows))
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Watcher != nil {
		if err := c.Watcher.Close(); err != nil {
			return err
		}
	}
	_ = c.Logger.Sync()
	return nil
}
