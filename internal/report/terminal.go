package report

import (
	"fmt"
	"io"
	"strings"

	"cordex/domain/snapshot"
	"cordex/domain/stats"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles for terminal output
var (
	Accent = lipgloss.Color("#8BC34A")
	Muted  = lipgloss.Color("#6b7280")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noteStyle   = lipgloss.NewStyle().Foreground(Muted)
)

// Table renders rows as a bordered terminal table with a bold header
func Table(header []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Muted)).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func section(w io.Writer, title, body string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, body)
	fmt.Fprintln(w)
}

// Terminal writes the snapshot summary as styled tables
func Terminal(w io.Writer, snap *snapshot.Snapshot, view *stats.FilteredView) {
	sh := snap.Shape()
	fmt.Fprintln(w, titleStyle.Render("CORD-19 Data Explorer"))
	fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("%s  run %s", snap.Source.Path, snap.RunID)))
	fmt.Fprintln(w)

	section(w, "Shape", fmt.Sprintf("%d rows x %d columns (cleaned: %d x %d)", sh.Rows, sh.Columns, sh.CleanRows, sh.CleanColumns))
	section(w, "Data Info", strings.TrimRight(snap.Raw.Info(), "\n"))
	section(w, "Missing Values (Top 10)", Table([]string{"column", "missing"}, MissingRows(snap.Missing)))
	if len(snap.Describe.Columns) > 0 {
		section(w, "Basic Statistics", Table(DescribeHeader, DescribeRows(snap.Describe)))
	}
	section(w, "Publications by Year", Table([]string{"year", "papers"}, AggregateRows(snap.Years)))
	section(w, "Top Journals", Table([]string{"journal", "papers"}, AggregateRows(snap.Journals)))
	section(w, "Most Frequent Title Words", Table([]string{"word", "count"}, TokenRows(snap.Titles, TopWords)))
	section(w, "Top Sources", Table([]string{"source", "papers"}, AggregateRows(snap.Sources)))

	if view != nil {
		Filtered(w, view)
	}
}

// Filtered writes the year range view
func Filtered(w io.Writer, view *stats.FilteredView) {
	title := fmt.Sprintf("Showing papers from %d to %d: %d papers", view.Low, view.High, view.Matched)
	section(w, title, Table(view.Table.ColumnNames(), truncateCells(Cells(view.Table), 60)))
}

// Bounds writes the year domain
func Bounds(w io.Writer, b stats.YearBounds) {
	if !b.OK {
		fmt.Fprintln(w, noteStyle.Render("no publication years in the dataset"))
		return
	}
	fmt.Fprintf(w, "%s %d - %d\n", titleStyle.Render("Years:"), b.Min, b.Max)
}

func truncateCells(rows [][]string, width int) [][]string {
	for _, row := range rows {
		for i, c := range row {
			if r := []rune(c); len(r) > width {
				row[i] = string(r[:width-3]) + "..."
			}
		}
	}
	return rows
}
