package pipeline

import (
	"sort"

	"cordex/domain/stats"
	"cordex/domain/table"
)

// Order selects how CountBy sorts its entries
type Order int

const (
	// OrderByKey sorts ascending by key, numbers numerically
	OrderByKey Order = iota
	// OrderByCount sorts descending by count; ties keep first-encounter order
	OrderByCount
)

// DefaultTopN is the number of journals and sources the dashboard shows
const DefaultTopN = 10

// CountOptions configures CountBy. A Limit of zero keeps every entry.
type CountOptions struct {
	Order Order
	Limit int
}

// CountBy counts the occurrences of each distinct non-missing value of column.
func CountBy(t *table.Table, column string, opts CountOptions) (stats.Aggregate, error) {
	col, err := t.Column(column)
	if err != nil {
		return stats.Aggregate{}, err
	}

	agg := stats.Aggregate{Column: column, TotalRows: t.NumRows()}
	index := make(map[string]int)
	var entries []stats.CountEntry
	for _, v := range col.Values {
		if v.Missing() {
			agg.Missing++
			continue
		}
		key := v.String()
		if i, ok := index[key]; ok {
			entries[i].Count++
			continue
		}
		index[key] = len(entries)
		entries = append(entries, stats.CountEntry{Key: key, Count: 1, Value: v})
	}
	agg.Distinct = len(entries)

	switch opts.Order {
	case OrderByKey:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Value.Compare(entries[j].Value) < 0
		})
	case OrderByCount:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Count > entries[j].Count
		})
	}

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	if entries == nil {
		entries = []stats.CountEntry{}
	}
	agg.Entries = entries
	return agg, nil
}

// PublicationsPerYear counts papers per year, ascending by year
func PublicationsPerYear(derived *table.Table) (stats.Aggregate, error) {
	return CountBy(derived, ColumnYear, CountOptions{Order: OrderByKey})
}

// TopJournals returns the limit most frequent journals
func TopJournals(t *table.Table, limit int) (stats.Aggregate, error) {
	return CountBy(t, ColumnJournal, CountOptions{Order: OrderByCount, Limit: limit})
}

// TopSources returns the limit most frequent sources
func TopSources(t *table.Table, limit int) (stats.Aggregate, error) {
	return CountBy(t, ColumnSource, CountOptions{Order: OrderByCount, Limit: limit})
}

// YearBounds returns the smallest and largest non-missing year. OK is false when no row has one.
func YearBounds(derived *table.Table) (stats.YearBounds, error) {
	col, err := derived.Column(ColumnYear)
	if err != nil {
		return stats.YearBounds{}, err
	}
	var b stats.YearBounds
	for _, v := range col.Values {
		y, ok := v.AsInt64()
		if !ok {
			continue
		}
		if !b.OK {
			b = stats.YearBounds{Min: int(y), Max: int(y), OK: true}
			continue
		}
		b.Min = min(b.Min, int(y))
		b.Max = max(b.Max, int(y))
	}
	return b, nil
}
