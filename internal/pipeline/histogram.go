package pipeline

import (
	"math"
	"sort"

	"cordex/domain/stats"
	"cordex/domain/table"

	"gonum.org/v1/gonum/floats"
	gstat "gonum.org/v1/gonum/stat"
)

// DefaultHistogramBins is the bin count of the abstract length histogram
const DefaultHistogramBins = 20

// Histogram bins the non-missing values of a numeric column into equal-width bins
// spanning [min, max]. The last bin includes max.
func Histogram(t *table.Table, column string, bins int) (stats.Histogram, error) {
	col, err := t.Column(column)
	if err != nil {
		return stats.Histogram{}, err
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	h := stats.Histogram{Column: column, Bins: []stats.HistogramBin{}}
	x := make([]float64, 0, len(col.Values))
	for _, v := range col.Values {
		f, ok := v.AsFloat64()
		if !ok {
			h.Missing++
			continue
		}
		x = append(x, f)
	}
	h.Count = len(x)
	if len(x) == 0 {
		return h, nil
	}
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		hi = lo + 1
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	edges := make([]float64, len(dividers))
	copy(edges, dividers)
	// gonum treats the upper divider as exclusive
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := gstat.Histogram(nil, dividers, x, nil)
	h.Bins = make([]stats.HistogramBin, bins)
	for i := range h.Bins {
		h.Bins[i] = stats.HistogramBin{Low: edges[i], High: edges[i+1], Count: int(counts[i])}
	}
	return h, nil
}

// WordCountHistogram bins abstract_word_count of the derived table
func WordCountHistogram(derived *table.Table, bins int) (stats.Histogram, error) {
	return Histogram(derived, ColumnAbstractWordCount, bins)
}
