// Package pipeline derives, summarizes and aggregates the CORD-19 metadata table.
package pipeline

import (
	"context"
	"time"

	"cordex/domain/snapshot"
	"cordex/domain/stats"
	"cordex/domain/table"
	"cordex/internal/config"
	"cordex/internal/errors"
	"cordex/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options are the tunables of one pipeline run
type Options struct {
	DropColumn    string
	TopN          int
	MissingLimit  int
	HistogramBins int
	Tokenizer     TokenizerOptions
}

// DefaultOptions mirrors the dashboard defaults
func DefaultOptions() Options {
	return Options{
		DropColumn:    DefaultDropColumn,
		TopN:          DefaultTopN,
		MissingLimit:  DefaultMissingLimit,
		HistogramBins: DefaultHistogramBins,
		Tokenizer:     DefaultTokenizerOptions(),
	}
}

// OptionsFromConfig maps the pipeline configuration section onto Options
func OptionsFromConfig(cfg config.PipelineConfig) Options {
	opts := DefaultOptions()
	if cfg.DropColumn != "" {
		opts.DropColumn = cfg.DropColumn
	}
	if cfg.TopN > 0 {
		opts.TopN = cfg.TopN
	}
	if cfg.HistogramBins > 0 {
		opts.HistogramBins = cfg.HistogramBins
	}
	opts.Tokenizer.MaxWords = cfg.MaxWords
	return opts
}

// Pipeline turns a raw table into a Snapshot
type Pipeline struct {
	loader  ports.DatasetLoader
	deriver *Deriver
	opts    Options
	metrics *Metrics
	logger  *zap.Logger
}

// New creates a pipeline. metrics and logger may be nil.
func New(loader ports.DatasetLoader, deriver *Deriver, opts Options, metrics *Metrics, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deriver == nil {
		deriver = NewDeriver(nil, opts.DropColumn)
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Pipeline{
		loader:  loader,
		deriver: deriver,
		opts:    opts,
		metrics: metrics,
		logger:  logger.Named("pipeline"),
	}
}

// Run loads path and analyzes it
func (p *Pipeline) Run(ctx context.Context, source snapshot.Source) (*snapshot.Snapshot, error) {
	start := time.Now()
	raw, digest, err := p.loader.Load(ctx, source.Path)
	if err != nil {
		p.metrics.Runs.WithLabelValues("load_error").Inc()
		return nil, err
	}
	source.Digest = digest

	snap, err := p.Analyze(raw, source)
	if err != nil {
		p.metrics.Runs.WithLabelValues("analyze_error").Inc()
		return nil, err
	}
	snap.Elapsed = time.Since(start)
	p.metrics.Duration.Observe(snap.Elapsed.Seconds())
	return snap, nil
}

// Analyze runs derivation, summary and aggregation over raw
func (p *Pipeline) Analyze(raw *table.Table, source snapshot.Source) (*snapshot.Snapshot, error) {
	if raw == nil {
		return nil, errors.InternalError("analyze called without a table")
	}
	start := time.Now()
	snap := &snapshot.Snapshot{
		RunID:    uuid.New().String(),
		Source:   source,
		LoadedAt: start,
		Raw:      raw,
	}
	log := p.logger.With(zap.String("run_id", snap.RunID), zap.String("path", source.Path))

	derived, err := p.deriver.Derive(raw)
	if err != nil {
		return nil, errors.Wrap(err, "derivation failed")
	}
	snap.Derived = derived

	snap.Missing = MissingValueSummary(raw, p.opts.MissingLimit)
	snap.Describe = Describe(raw)

	if snap.Years, err = PublicationsPerYear(derived); err != nil {
		return nil, errors.Wrap(err, "publications per year")
	}
	if snap.Journals, err = TopJournals(derived, p.opts.TopN); err != nil {
		return nil, errors.Wrap(err, "top journals")
	}
	if snap.Sources, err = TopSources(derived, p.opts.TopN); err != nil {
		return nil, errors.Wrap(err, "top sources")
	}
	if snap.Titles, err = TokenizeTitles(derived, p.opts.Tokenizer); err != nil {
		return nil, errors.Wrap(err, "title tokens")
	}
	if snap.WordCounts, err = WordCountHistogram(derived, p.opts.HistogramBins); err != nil {
		return nil, errors.Wrap(err, "abstract length histogram")
	}
	if snap.Bounds, err = YearBounds(derived); err != nil {
		return nil, errors.Wrap(err, "year bounds")
	}

	snap.Elapsed = time.Since(start)
	p.metrics.Runs.WithLabelValues("ok").Inc()
	p.metrics.SnapshotRows.Set(float64(raw.NumRows()))
	log.Info("analysis complete",
		zap.Int("rows", raw.NumRows()),
		zap.Int("columns", raw.NumColumns()),
		zap.Int("distinct_years", snap.Years.Distinct),
		zap.Int("distinct_journals", snap.Journals.Distinct),
		zap.Duration("elapsed", snap.Elapsed))
	return snap, nil
}

// Filter computes the year range view of a snapshot, counting the outcome
func (p *Pipeline) Filter(snap *snapshot.Snapshot, low, high, limit int) (stats.FilteredView, error) {
	view, err := FilterByYearRange(snap.Derived, low, high, limit)
	if err != nil {
		p.metrics.FilterRequests.WithLabelValues("rejected").Inc()
		return stats.FilteredView{}, err
	}
	p.metrics.FilterRequests.WithLabelValues("ok").Inc()
	return view, nil
}
