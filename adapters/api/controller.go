package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cordex/domain/snapshot"
	"cordex/domain/table"
	"cordex/internal/config"
	"cordex/internal/errors"
	"cordex/internal/pipeline"
	"cordex/ports"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller serves the snapshot endpoints
type Controller struct {
	source   ports.SnapshotSource
	pipeline *pipeline.Pipeline
	settings config.PipelineConfig
	logger   *zap.Logger
}

// PapersResponse is a filtered view with its rows as plain JSON scalars
type PapersResponse struct {
	Low     int            `json:"low"`
	High    int            `json:"high"`
	Matched int            `json:"matched"`
	Limit   int            `json:"limit"`
	Columns []string       `json:"columns"`
	Rows    [][]table.Cell `json:"rows"`
}

// HealthResponse reports which file version is being served
type HealthResponse struct {
	Status string          `json:"status"`
	RunID  string          `json:"run_id"`
	Source snapshot.Source `json:"source"`
}

func (c *Controller) current(w http.ResponseWriter, r *http.Request) (*snapshot.Snapshot, bool) {
	snap, err := c.source.Current(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return nil, false
	}
	return snap, true
}

func (c *Controller) fail(w http.ResponseWriter, r *http.Request, err error) {
	c.logger.Warn("request failed",
		zap.String("path", r.URL.Path),
		zap.String("code", errors.GetCode(err)),
		zap.Error(err))
	failure(w, r, err)
}

// Health reports whether a snapshot can be served
func (c *Controller) Health(w http.ResponseWriter, r *http.Request) {
	snap, ok := c.current(w, r)
	if !ok {
		return
	}
	success(w, r, HealthResponse{Status: "ok", RunID: snap.RunID, Source: snap.Source})
}

// Shape returns the dimensions of the raw and cleaned tables
func (c *Controller) Shape(w http.ResponseWriter, r *http.Request) {
	if snap, ok := c.current(w, r); ok {
		success(w, r, snap.Shape())
	}
}

// Missing returns the per-column missing counts
func (c *Controller) Missing(w http.ResponseWriter, r *http.Request) {
	if snap, ok := c.current(w, r); ok {
		success(w, r, snap.Missing)
	}
}

// Describe returns the numeric column statistics
func (c *Controller) Describe(w http.ResponseWriter, r *http.Request) {
	if snap, ok := c.current(w, r); ok {
		success(w, r, snap.Describe)
	}
}

// Bounds returns the year range domain
func (c *Controller) Bounds(w http.ResponseWriter, r *http.Request) {
	if snap, ok := c.current(w, r); ok {
		success(w, r, snap.Bounds)
	}
}

// Aggregate returns one named aggregate of the snapshot
func (c *Controller) Aggregate(w http.ResponseWriter, r *http.Request) {
	snap, ok := c.current(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	switch name {
	case "words":
		limit, err := queryInt(r, "limit", 0)
		if err != nil {
			c.fail(w, r, err)
			return
		}
		freq := snap.Titles
		if limit > 0 && limit < len(freq.Tokens) {
			freq.Tokens = freq.Tokens[:limit]
		}
		success(w, r, freq)
	case "abstract-lengths":
		success(w, r, snap.WordCounts)
	default:
		agg, found := snap.Aggregate(name)
		if !found {
			c.fail(w, r, errors.InvalidInput(fmt.Sprintf("unknown aggregate %q", name)))
			return
		}
		success(w, r, agg)
	}
}

// Papers returns the rows whose year lies in [low, high]
func (c *Controller) Papers(w http.ResponseWriter, r *http.Request) {
	snap, ok := c.current(w, r)
	if !ok {
		return
	}

	low, err := queryInt(r, "low", c.settings.DefaultLowYear)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	high, err := queryInt(r, "high", c.settings.DefaultHighYear)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", c.settings.FilterLimit)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	view, err := c.pipeline.Filter(snap, low, high, limit)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	resp := PapersResponse{
		Low:     view.Low,
		High:    view.High,
		Matched: view.Matched,
		Limit:   view.Limit,
		Columns: view.Table.ColumnNames(),
		Rows:    make([][]table.Cell, 0, view.Table.NumRows()),
	}
	for _, rec := range view.Table.Records() {
		row := make([]table.Cell, len(rec))
		for i, v := range rec {
			row[i] = table.Cell(v)
		}
		resp.Rows = append(resp.Rows, row)
	}
	success(w, r, resp)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(fmt.Sprintf("%s must be an integer, got %q", key, raw))
	}
	return v, nil
}
