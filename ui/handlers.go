package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"cordex/domain/snapshot"
	"cordex/domain/stats"
	"cordex/internal/errors"
	"cordex/internal/report"
	"cordex/ui/templates/fragments"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"go.uber.org/zap"
)

// Grid is a header plus display rows
type Grid struct {
	Header []string
	Rows   [][]string
}

// MissingRow is a missingness entry with its share of rows
type MissingRow struct {
	Column string
	Count  int
	Share  string
}

// RangeForm is the state of the year range control
type RangeForm struct {
	Min, Max  int
	Low, High int
	HasYears  bool
}

// FilteredPanel is the content of the filtered fragment
type FilteredPanel struct {
	Low, High int
	Matched   int
	Limit     int
	Grid      Grid
	Error     string
}

// DashboardPage is the data of the full page
type DashboardPage struct {
	Snap     *snapshot.Snapshot
	Shape    snapshot.Shape
	Preview  Grid
	Info     string
	Missing  []MissingRow
	Describe Grid
	Range    RangeForm
	Filtered FilteredPanel
}

// ErrorPage is rendered when the dataset cannot be served
type ErrorPage struct {
	Status  int
	Code    string
	Message string
}

func (s *Server) snapshot(c *gin.Context) (*snapshot.Snapshot, bool) {
	snap, err := s.source.Current(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return nil, false
	}
	return snap, true
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	s.logger.Warn("request failed", zap.String("path", c.Request.URL.Path), zap.Int("status", status), zap.Error(err))
	s.renderTemplate(c, status, fragments.Error, ErrorPage{Status: status, Code: errors.GetCode(err), Message: err.Error()})
}

// handleIndex renders the full dashboard
func (s *Server) handleIndex(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}

	low, high, err := yearRange(c, snap.Bounds, s.settings.DefaultLowYear, s.settings.DefaultHighYear)
	if err != nil {
		s.renderError(c, err)
		return
	}
	panel, err := s.filteredPanel(snap, low, high)
	if err != nil {
		s.renderError(c, err)
		return
	}

	page := DashboardPage{
		Snap:     snap,
		Shape:    snap.Shape(),
		Preview:  Grid{Header: snap.Raw.ColumnNames(), Rows: report.Cells(snap.Raw.Head(report.PreviewRows))},
		Info:     snap.Raw.Info(),
		Describe: Grid{Header: report.DescribeHeader, Rows: report.DescribeRows(snap.Describe)},
		Range: RangeForm{
			Min: snap.Bounds.Min, Max: snap.Bounds.Max,
			Low: low, High: high,
			HasYears: snap.Bounds.OK,
		},
		Filtered: panel,
	}
	for _, e := range snap.Missing.Entries {
		page.Missing = append(page.Missing, MissingRow{Column: e.Column, Count: e.Count, Share: percent(e.Count, snap.Missing.TotalRows)})
	}
	s.renderTemplate(c, http.StatusOK, fragments.Dashboard, page)
}

// handleChart renders one go-echarts chart page, embedded by the dashboard
func (s *Server) handleChart(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	chart, found := BuildChart(snap, c.Param("name"))
	if !found {
		s.renderError(c, errors.InvalidInput(fmt.Sprintf("unknown chart %q", c.Param("name"))))
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		s.renderError(c, errors.Wrap(err, "render chart"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// handleFiltered renders only the year range panel, for HTMX swaps
func (s *Server) handleFiltered(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	low, high, err := yearRange(c, snap.Bounds, s.settings.DefaultLowYear, s.settings.DefaultHighYear)
	if err != nil {
		status := errors.HTTPStatus(err)
		s.renderTemplate(c, status, fragments.Filtered, FilteredPanel{Error: err.Error()})
		return
	}
	panel, err := s.filteredPanel(snap, low, high)
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.Filtered, panel)
}

func (s *Server) filteredPanel(snap *snapshot.Snapshot, low, high int) (FilteredPanel, error) {
	view, err := s.pipeline.Filter(snap, low, high, s.settings.FilterLimit)
	if err != nil {
		return FilteredPanel{}, err
	}
	return FilteredPanel{
		Low: view.Low, High: view.High,
		Matched: view.Matched,
		Limit:   view.Limit,
		Grid:    Grid{Header: view.Table.ColumnNames(), Rows: report.Cells(view.Table)},
	}, nil
}

// reportMarkdown builds the markdown report for the requested year range
func (s *Server) reportMarkdown(c *gin.Context) (string, bool) {
	snap, ok := s.snapshot(c)
	if !ok {
		return "", false
	}
	low, high, err := yearRange(c, snap.Bounds, s.settings.DefaultLowYear, s.settings.DefaultHighYear)
	if err != nil {
		s.renderError(c, err)
		return "", false
	}
	var view *stats.FilteredView
	if v, err := s.pipeline.Filter(snap, low, high, s.settings.FilterLimit); err == nil {
		view = &v
	}
	return report.Markdown(snap, view), true
}

// handleReport renders the markdown report as HTML
func (s *Server) handleReport(c *gin.Context) {
	md, ok := s.reportMarkdown(c)
	if !ok {
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.Report, gin.H{"Body": template.HTML(renderMarkdown(md))})
}

// handleReportMarkdown serves the raw markdown report
func (s *Server) handleReportMarkdown(c *gin.Context) {
	md, ok := s.reportMarkdown(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `inline; filename="cord19-report.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

// handleHealth reports whether the dataset can be served
func (s *Server) handleHealth(c *gin.Context) {
	snap, err := s.source.Current(c.Request.Context())
	if err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"status": "unavailable", "code": errors.GetCode(err), "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "run_id": snap.RunID, "rows": snap.Raw.NumRows()})
}

func renderMarkdown(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML})
	return markdown.Render(doc, renderer)
}
