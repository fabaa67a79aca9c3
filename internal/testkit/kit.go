// Package testkit provides metadata fixtures shared by package tests.
package testkit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"cordex/domain/table"

	"github.com/stretchr/testify/require"
)

// Header is the subset of the CORD-19 metadata columns the fixtures carry
var Header = []string{"cord_uid", "title", "abstract", "publish_time", "authors", "journal", "source_x", "mag_id"}

// Paper is one metadata row. Empty fields are written as empty cells.
type Paper struct {
	CordUID     string
	Title       string
	Abstract    string
	PublishTime string
	Authors     string
	Journal     string
	Source      string
	MagID       string
}

// Record returns the row in Header order
func (p Paper) Record() []string {
	return []string{p.CordUID, p.Title, p.Abstract, p.PublishTime, p.Authors, p.Journal, p.Source, p.MagID}
}

// SamplePapers is a small hand-written dataset with the awkward cases the pipeline handles
func SamplePapers() []Paper {
	return []Paper{
		{CordUID: "a1", Title: "COVID-19 transmission in households", Abstract: "a b c", PublishTime: "2020-03-01", Authors: "Smith, J.", Journal: "BMJ", Source: "PMC"},
		{CordUID: "a2", Title: "Coronavirus: a review.", Abstract: "", PublishTime: "bad-date", Authors: "Wang, L.", Journal: "Lancet", Source: "Medline"},
		{CordUID: "a3", Title: "SARS-CoV-2 vaccine trial", Abstract: "d", PublishTime: "", Authors: "Kim, S.", Journal: "BMJ", Source: "PMC"},
		{CordUID: "a4", Title: "Transmission of covid-19", Abstract: "one two", PublishTime: "2021", Authors: "Rossi, M.", Journal: "", Source: "WHO", MagID: "3001"},
		{CordUID: "a5", Title: "", Abstract: "four words are here", PublishTime: "2019-12-30", Authors: "", Journal: "Nature", Source: "PMC"},
	}
}

// WriteCSV writes papers as a metadata file under dir and returns its path
func WriteCSV(tb testing.TB, dir string, papers []Paper) string {
	tb.Helper()
	path := filepath.Join(dir, "metadata.csv")
	f, err := os.Create(path)
	require.NoError(tb, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(tb, w.Write(Header))
	for _, p := range papers {
		require.NoError(tb, w.Write(p.Record()))
	}
	w.Flush()
	require.NoError(tb, w.Error())
	return path
}

// Table builds the raw table a loader would produce for papers: every column is text
// except mag_id, which is numeric.
func Table(papers []Paper) *table.Table {
	cols := make([]*table.Column, len(Header))
	for i, name := range Header {
		typ := table.ColumnText
		if name == "mag_id" {
			typ = table.ColumnNumeric
		}
		cols[i] = &table.Column{Name: name, Type: typ, Values: make([]table.Value, len(papers))}
	}
	for r, p := range papers {
		for i, raw := range p.Record() {
			switch {
			case raw == "":
				cols[i].Values[r] = table.NewMissingValue()
			case cols[i].Type == table.ColumnNumeric:
				cols[i].Values[r] = numeric(raw)
			default:
				cols[i].Values[r] = table.NewStringValue(raw)
			}
		}
	}
	return table.MustNew(cols...)
}

func numeric(raw string) table.Value {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return table.NewMissingValue()
	}
	return table.NewNumericValue(n)
}
