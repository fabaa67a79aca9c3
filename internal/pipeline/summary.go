package pipeline

import (
	"math"
	"sort"

	"cordex/domain/stats"
	"cordex/domain/table"

	mstats "github.com/montanaflynn/stats"
)

// DefaultMissingLimit is how many columns the missingness summary keeps
const DefaultMissingLimit = 10

// MissingValueSummary counts missing cells per column and keeps the limit columns
// with the highest counts. Ties keep the original column order.
func MissingValueSummary(t *table.Table, limit int) stats.MissingnessSummary {
	entries := make([]stats.MissingEntry, 0, t.NumColumns())
	for _, col := range t.Columns() {
		entries = append(entries, stats.MissingEntry{Column: col.Name, Count: col.MissingCount()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return stats.MissingnessSummary{TotalRows: t.NumRows(), Entries: entries}
}

// Describe computes count, mean, sample std, min, quartiles and max for every numeric
// column. Text and timestamp columns are left out entirely.
func Describe(t *table.Table) stats.DescriptiveStats {
	var out stats.DescriptiveStats
	for _, col := range t.Columns() {
		if !col.Type.IsNumeric() {
			continue
		}
		out.Columns = append(out.Columns, describeColumn(col))
	}
	return out
}

func describeColumn(col *table.Column) stats.ColumnStats {
	data := make(mstats.Float64Data, 0, len(col.Values))
	for _, v := range col.Values {
		if f, ok := v.AsFloat64(); ok {
			data = append(data, f)
		}
	}

	nan := stats.Float(math.NaN())
	cs := stats.ColumnStats{
		Column: col.Name,
		Count:  len(data),
		Mean:   nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan,
	}
	if len(data) == 0 {
		return cs
	}

	if mean, err := mstats.Mean(data); err == nil {
		cs.Mean = stats.Float(mean)
	}
	if len(data) > 1 {
		if std, err := mstats.StandardDeviationSample(data); err == nil {
			cs.Std = stats.Float(std)
		}
	}
	if lo, err := mstats.Min(data); err == nil {
		cs.Min = stats.Float(lo)
	}
	if hi, err := mstats.Max(data); err == nil {
		cs.Max = stats.Float(hi)
	}
	if med, err := mstats.Median(data); err == nil {
		cs.P50 = stats.Float(med)
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	cs.P25 = stats.Float(quantile(sorted, 0.25))
	cs.P75 = stats.Float(quantile(sorted, 0.75))
	return cs
}

// quantile interpolates linearly between the closest ranks of sorted data
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
