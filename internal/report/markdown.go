// Package report renders a snapshot as markdown or as terminal tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"cordex/domain/snapshot"
	"cordex/domain/stats"
	"cordex/domain/table"
)

// PreviewRows is the number of rows in the data sample
const PreviewRows = 5

// TopWords is how many title tokens the reports list
const TopWords = 25

// Markdown renders the full dashboard content as a markdown document.
// view may be nil, in which case the year range section is omitted.
func Markdown(snap *snapshot.Snapshot, view *stats.FilteredView) string {
	var b strings.Builder
	b.WriteString("# CORD-19 Data Explorer\n\n")
	fmt.Fprintf(&b, "Source: `%s`  \nDigest: `%s`  \nRun: `%s`\n\n", snap.Source.Path, shortDigest(snap.Source.Digest), snap.RunID)

	sh := snap.Shape()
	b.WriteString("## Sample of the Data\n\n")
	writeTable(&b, snap.Raw.ColumnNames(), Cells(snap.Raw.Head(PreviewRows)))

	b.WriteString("## Shape of the Data\n\n")
	fmt.Fprintf(&b, "%d rows x %d columns (cleaned: %d x %d)\n\n", sh.Rows, sh.Columns, sh.CleanRows, sh.CleanColumns)

	b.WriteString("## Data Info\n\n```\n")
	b.WriteString(snap.Raw.Info())
	b.WriteString("```\n\n")

	b.WriteString("## Missing Values (Top 10)\n\n")
	writeTable(&b, []string{"column", "missing"}, MissingRows(snap.Missing))

	b.WriteString("## Basic Statistics\n\n")
	if len(snap.Describe.Columns) == 0 {
		b.WriteString("No numeric columns.\n\n")
	} else {
		writeTable(&b, DescribeHeader, DescribeRows(snap.Describe))
	}

	b.WriteString("## Publications by Year\n\n")
	writeTable(&b, []string{"year", "papers"}, AggregateRows(snap.Years))
	writeMissingNote(&b, snap.Years)

	b.WriteString("## Top Journals\n\n")
	writeTable(&b, []string{"journal", "papers"}, AggregateRows(snap.Journals))

	b.WriteString("## Most Frequent Title Words\n\n")
	writeTable(&b, []string{"word", "count"}, TokenRows(snap.Titles, TopWords))

	b.WriteString("## Top Sources\n\n")
	writeTable(&b, []string{"source", "papers"}, AggregateRows(snap.Sources))

	b.WriteString("## Abstract Length\n\n")
	writeTable(&b, []string{"words", "papers"}, HistogramRows(snap.WordCounts))

	if view != nil {
		fmt.Fprintf(&b, "## Papers from %d to %d\n\n", view.Low, view.High)
		fmt.Fprintf(&b, "Showing papers from %d to %d: %d papers\n\n", view.Low, view.High, view.Matched)
		writeTable(&b, view.Table.ColumnNames(), Cells(view.Table))
	}
	return b.String()
}

func writeMissingNote(b *strings.Builder, agg stats.Aggregate) {
	if agg.Missing > 0 {
		fmt.Fprintf(b, "%d rows have no %s.\n\n", agg.Missing, agg.Column)
	}
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	if len(header) == 0 {
		return
	}
	b.WriteString("| " + strings.Join(escapeAll(header), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(escapeAll(row), " | ") + " |\n")
	}
	b.WriteString("\n")
}

func escapeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		s = strings.ReplaceAll(s, "|", `\|`)
		out[i] = strings.ReplaceAll(s, "\n", " ")
	}
	return out
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

// DescribeHeader is the column order of DescribeRows
var DescribeHeader = []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// DescribeRows formats descriptive statistics, one row per numeric column
func DescribeRows(d stats.DescriptiveStats) [][]string {
	rows := make([][]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		rows = append(rows, []string{
			c.Column, strconv.Itoa(c.Count),
			FormatFloat(c.Mean), FormatFloat(c.Std), FormatFloat(c.Min),
			FormatFloat(c.P25), FormatFloat(c.P50), FormatFloat(c.P75), FormatFloat(c.Max),
		})
	}
	return rows
}

// MissingRows formats the missingness summary
func MissingRows(m stats.MissingnessSummary) [][]string {
	rows := make([][]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		rows = append(rows, []string{e.Column, strconv.Itoa(e.Count)})
	}
	return rows
}

// AggregateRows formats an aggregate as key, count pairs
func AggregateRows(a stats.Aggregate) [][]string {
	rows := make([][]string, 0, len(a.Entries))
	for _, e := range a.Entries {
		rows = append(rows, []string{e.Key, strconv.Itoa(e.Count)})
	}
	return rows
}

// TokenRows formats the first n tokens
func TokenRows(f stats.TokenFrequency, n int) [][]string {
	tokens := f.Tokens
	if n > 0 && len(tokens) > n {
		tokens = tokens[:n]
	}
	rows := make([][]string, 0, len(tokens))
	for _, tc := range tokens {
		rows = append(rows, []string{tc.Token, strconv.Itoa(tc.Count)})
	}
	return rows
}

// HistogramRows formats histogram bins as ranges
func HistogramRows(h stats.Histogram) [][]string {
	rows := make([][]string, 0, len(h.Bins))
	for _, bin := range h.Bins {
		label := fmt.Sprintf("%s-%s", strconv.FormatFloat(bin.Low, 'f', 0, 64), strconv.FormatFloat(bin.High, 'f', 0, 64))
		rows = append(rows, []string{label, strconv.Itoa(bin.Count)})
	}
	return rows
}

// FormatFloat prints a statistic with up to six significant digits, NaN for undefined ones
func FormatFloat(f stats.Float) string {
	if !f.Defined() {
		return "NaN"
	}
	return strconv.FormatFloat(float64(f), 'g', 6, 64)
}

// Cells renders every cell of t as display text, NaN for missing
func Cells(t *table.Table) [][]string {
	records := t.Records()
	out := make([][]string, len(records))
	for i, row := range records {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if v.Missing() {
				out[i][j] = "NaN"
				continue
			}
			out[i][j] = v.String()
		}
	}
	return out
}
