package pipeline

import (
	"cordex/domain/stats"
	"cordex/domain/table"
	"cordex/internal/errors"
)

// DefaultFilterLimit caps the rows of a filtered view
const DefaultFilterLimit = 20

// FilterColumns is the projection shown for a year range
var FilterColumns = []string{ColumnTitle, ColumnAuthors, ColumnJournal, ColumnYear}

// FilterByYearRange keeps the rows whose year lies in [low, high], projects them to
// FilterColumns and caps the view at limit rows. Matched counts every qualifying row.
// Rows with a missing year never qualify.
func FilterByYearRange(t *table.Table, low, high, limit int) (stats.FilteredView, error) {
	if low > high {
		return stats.FilteredView{}, errors.InvalidRange(low, high)
	}
	if limit <= 0 {
		limit = DefaultFilterLimit
	}

	years, err := t.Column(ColumnYear)
	if err != nil {
		return stats.FilteredView{}, err
	}
	projected, err := t.Select(FilterColumns...)
	if err != nil {
		return stats.FilteredView{}, err
	}

	view := stats.FilteredView{Low: low, High: high, Limit: limit}
	keep := make([]int, 0, limit)
	for i, v := range years.Values {
		y, ok := v.AsInt64()
		if !ok || y < int64(low) || y > int64(high) {
			continue
		}
		view.Matched++
		if len(keep) < limit {
			keep = append(keep, i)
		}
	}
	view.Table = projected.Take(keep)
	return view, nil
}

// ClampRange pulls a requested range into bounds. Bounds without any year leave the request untouched.
func ClampRange(low, high int, b stats.YearBounds) (int, int) {
	if !b.OK {
		return low, high
	}
	clamp := func(v int) int { return max(b.Min, min(v, b.Max)) }
	return clamp(low), clamp(high)
}
