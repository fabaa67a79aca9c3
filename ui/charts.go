package ui

import (
	"io"
	"math"
	"strconv"

	"cordex/domain/snapshot"
	"cordex/domain/stats"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart canvas defaults
const (
	chartWidth  = "960px"
	chartHeight = "360px"
	labelLength = 40
)

// Word cloud limits
const (
	cloudWords   = 80
	cloudMinSize = 12
	cloudMaxSize = 60
)

// Chart is anything go-echarts can render as a standalone page
type Chart interface {
	Render(w io.Writer) error
}

// ChartNames lists the charts served under /charts/:name, in page order
var ChartNames = []string{"years", "journals", "words", "sources", "lengths"}

// BuildChart returns the named chart of a snapshot, false for an unknown name
func BuildChart(snap *snapshot.Snapshot, name string) (Chart, bool) {
	switch name {
	case "years":
		return NewYearsChart(snap.Years), true
	case "journals":
		return NewBarsChart("Top Journals Publishing COVID-19 Research", snap.Journals), true
	case "sources":
		return NewBarsChart("Distribution of Paper Counts by Source", snap.Sources), true
	case "words":
		return NewWordCloud(snap.Titles, cloudWords), true
	case "lengths":
		return NewLengthsChart(snap.WordCounts), true
	}
	return nil, false
}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     chartWidth,
		Height:    chartHeight,
	})
}

// NewYearsChart plots publications per year as a line
func NewYearsChart(agg stats.Aggregate) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts("Publications Over Time"),
		charts.WithTitleOpts(opts.Title{Title: "Publications Over Time", Subtitle: "papers per publish year"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	keys := make([]string, 0, len(agg.Entries))
	data := make([]opts.LineData, 0, len(agg.Entries))
	for _, e := range agg.Entries {
		keys = append(keys, e.Key)
		data = append(data, opts.LineData{Name: e.Key, Value: e.Count})
	}
	line.SetXAxis(keys).AddSeries("papers", data)
	return line
}

// NewBarsChart draws a top-n aggregate as horizontal bars, largest on top
func NewBarsChart(title string, agg stats.Aggregate) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithGridOpts(opts.Grid{Left: "25%"}),
	)

	// the category axis runs bottom-up once reversed
	n := len(agg.Entries)
	keys := make([]string, n)
	data := make([]opts.BarData, n)
	for i, e := range agg.Entries {
		keys[n-1-i] = truncate(e.Key, labelLength)
		data[n-1-i] = opts.BarData{Name: e.Key, Value: e.Count}
	}
	bar.SetXAxis(keys).AddSeries("papers", data)
	bar.XYReversal()
	return bar
}

// NewWordCloud shows the limit most frequent title tokens
func NewWordCloud(freq stats.TokenFrequency, limit int) *charts.WordCloud {
	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		initOpts("Word Cloud of Paper Titles"),
		charts.WithTitleOpts(opts.Title{Title: "Word Cloud of Paper Titles"}),
	)

	tokens := freq.Tokens
	if limit > 0 && len(tokens) > limit {
		tokens = tokens[:limit]
	}
	data := make([]opts.WordCloudData, 0, len(tokens))
	for _, tok := range tokens {
		data = append(data, opts.WordCloudData{Name: tok.Token, Value: tok.Count})
	}
	wc.AddSeries("words", data, charts.WithWorldCloudChartOpts(opts.WordCloudChart{
		Shape:     "circle",
		SizeRange: []float32{cloudMinSize, cloudMaxSize},
	}))
	return wc
}

// NewLengthsChart draws the abstract word count histogram as columns
func NewLengthsChart(h stats.Histogram) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts("Abstract Length"),
		charts.WithTitleOpts(opts.Title{Title: "Abstract Length", Subtitle: "words per abstract"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	labels := make([]string, 0, len(h.Bins))
	data := make([]opts.BarData, 0, len(h.Bins))
	for _, b := range h.Bins {
		label := binLabel(b)
		labels = append(labels, label)
		data = append(data, opts.BarData{Name: label, Value: b.Count})
	}
	bar.SetXAxis(labels).AddSeries("abstracts", data)
	return bar
}

func binLabel(b stats.HistogramBin) string {
	return round1(b.Low) + "-" + round1(b.High)
}

func round1(f float64) string {
	return strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
