package pipeline

import (
	"fmt"
	"testing"

	"cordex/domain/stats"
	"cordex/domain/table"
	"cordex/internal/errors"
	"cordex/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func derivedSample(t *testing.T) *table.Table {
	t.Helper()
	derived, err := NewDeriver(nil, "").Derive(testkit.Table(testkit.SamplePapers()))
	require.NoError(t, err)
	return derived
}

func keys(agg stats.Aggregate) []string {
	out := make([]string, len(agg.Entries))
	for i, e := range agg.Entries {
		out[i] = e.Key
	}
	return out
}

func TestPublicationsPerYear(t *testing.T) {
	agg, err := PublicationsPerYear(derivedSample(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"2019", "2020", "2021"}, keys(agg))
	assert.Equal(t, 2, agg.Missing)
	assert.Equal(t, 5, agg.TotalRows)
	assert.Equal(t, agg.TotalRows-agg.Missing, agg.Sum())
}

func TestCountByKeyOrderIsNumeric(t *testing.T) {
	values := []table.Value{table.NewIntegerValue(10), table.NewIntegerValue(9), table.NewIntegerValue(100), table.NewIntegerValue(9)}
	tbl := table.MustNew(&table.Column{Name: "n", Type: table.ColumnInteger, Values: values})

	agg, err := CountBy(tbl, "n", CountOptions{Order: OrderByKey})
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10", "100"}, keys(agg))
	assert.Equal(t, 2, agg.Entries[0].Count)
}

func TestTopJournals(t *testing.T) {
	agg, err := TopJournals(derivedSample(t), DefaultTopN)
	require.NoError(t, err)

	assert.Equal(t, []string{"BMJ", "Lancet", "Nature"}, keys(agg), "ties keep first-encounter order")
	assert.Equal(t, 2, agg.Entries[0].Count)
	assert.Equal(t, 1, agg.Missing)
}

func TestTopSources(t *testing.T) {
	agg, err := TopSources(derivedSample(t), DefaultTopN)
	require.NoError(t, err)
	assert.Equal(t, []string{"PMC", "Medline", "WHO"}, keys(agg))
	assert.Equal(t, 3, agg.Entries[0].Count)
}

func TestTopNCapsAtLimit(t *testing.T) {
	values := make([]table.Value, 0, 78)
	for i := 0; i < 12; i++ {
		for n := 0; n <= i; n++ {
			values = append(values, table.NewStringValue(fmt.Sprintf("j%02d", i)))
		}
	}
	tbl := table.MustNew(&table.Column{Name: ColumnJournal, Type: table.ColumnText, Values: values})

	agg, err := TopJournals(tbl, DefaultTopN)
	require.NoError(t, err)
	require.Len(t, agg.Entries, DefaultTopN)
	assert.Equal(t, 12, agg.Distinct)
	for i := 1; i < len(agg.Entries); i++ {
		assert.GreaterOrEqual(t, agg.Entries[i-1].Count, agg.Entries[i].Count)
	}
	assert.Equal(t, "j11", agg.Entries[0].Key)
	assert.Equal(t, "j02", agg.Entries[DefaultTopN-1].Key)
}

func TestCountByUnknownColumn(t *testing.T) {
	_, err := CountBy(derivedSample(t), "nope", CountOptions{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeColumnNotFound))
}

func TestYearBounds(t *testing.T) {
	b, err := YearBounds(derivedSample(t))
	require.NoError(t, err)
	assert.Equal(t, stats.YearBounds{Min: 2019, Max: 2021, OK: true}, b)

	empty := table.MustNew(&table.Column{Name: ColumnYear, Type: table.ColumnInteger, Values: []table.Value{table.NewMissingValue()}})
	b, err = YearBounds(empty)
	require.NoError(t, err)
	assert.False(t, b.OK)
}
