// Package stats holds the result shapes of the summary, aggregation and filter stages.
package stats

import (
	"encoding/json"
	"math"

	"cordex/domain/table"
)

// Float is a statistic that may be undefined. NaN encodes as JSON null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// Defined reports whether the statistic has a value
func (f Float) Defined() bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// MissingEntry is the missing-cell count of one column
type MissingEntry struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// MissingnessSummary lists the columns with the most missing cells, descending
type MissingnessSummary struct {
	TotalRows int            `json:"total_rows"`
	Entries   []MissingEntry `json:"entries"`
}

// ColumnStats are the descriptive statistics of one numeric column
type ColumnStats struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Float  `json:"mean"`
	Std    Float  `json:"std"`
	Min    Float  `json:"min"`
	P25    Float  `json:"p25"`
	P50    Float  `json:"p50"`
	P75    Float  `json:"p75"`
	Max    Float  `json:"max"`
}

// DescriptiveStats holds ColumnStats for every numeric column, in column order
type DescriptiveStats struct {
	Columns []ColumnStats `json:"columns"`
}

// Get returns the statistics of the named column
func (d DescriptiveStats) Get(column string) (ColumnStats, bool) {
	for _, c := range d.Columns {
		if c.Column == column {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// CountEntry is one group of an Aggregate
type CountEntry struct {
	Key   string      `json:"key"`
	Count int         `json:"count"`
	Value table.Value `json:"-"`
}

// Aggregate maps the distinct keys of a column to their occurrence counts.
// Rows whose key is missing are counted apart in Missing; Entries never include them.
type Aggregate struct {
	Column    string       `json:"column"`
	Entries   []CountEntry `json:"entries"`
	Missing   int          `json:"missing"`
	Distinct  int          `json:"distinct"`
	TotalRows int          `json:"total_rows"`
}

// Sum adds up the counts of the (possibly truncated) entries
func (a Aggregate) Sum() int {
	n := 0
	for _, e := range a.Entries {
		n += e.Count
	}
	return n
}

// TokenCount is the frequency of one normalized title token
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// TokenFrequency is ordered by count, descending
type TokenFrequency struct {
	Tokens      []TokenCount `json:"tokens"`
	TotalTokens int          `json:"total_tokens"`
	Distinct    int          `json:"distinct"`
}

// HistogramBin is the count of values in [Low, High); the last bin is closed
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram is an equal-width binning of a numeric column
type Histogram struct {
	Column  string         `json:"column"`
	Bins    []HistogramBin `json:"bins"`
	Count   int            `json:"count"`
	Missing int            `json:"missing"`
}

// YearBounds is the domain of the year range control
type YearBounds struct {
	Min int  `json:"min"`
	Max int  `json:"max"`
	OK  bool `json:"ok"`
}

// FilteredView is the projected, capped set of rows whose year lies in [Low, High]
type FilteredView struct {
	Low     int          `json:"low"`
	High    int          `json:"high"`
	Matched int          `json:"matched"`
	Limit   int          `json:"limit"`
	Table   *table.Table `json:"-"`
}
