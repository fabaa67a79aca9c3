package pipeline

import (
	"testing"

	"cordex/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordCountHistogram(t *testing.T) {
	h, err := WordCountHistogram(derivedSample(t), 3)
	require.NoError(t, err)

	assert.Equal(t, 4, h.Count)
	assert.Equal(t, 1, h.Missing)
	require.Len(t, h.Bins, 3)
	assert.Equal(t, 1.0, h.Bins[0].Low)
	assert.Equal(t, 4.0, h.Bins[2].High)
	assert.Equal(t, []int{1, 1, 2}, []int{h.Bins[0].Count, h.Bins[1].Count, h.Bins[2].Count}, "max falls in the last bin")
}

func TestHistogramConstantColumn(t *testing.T) {
	values := []table.Value{table.NewIntegerValue(7), table.NewIntegerValue(7)}
	tbl := table.MustNew(&table.Column{Name: "n", Type: table.ColumnInteger, Values: values})

	h, err := Histogram(tbl, "n", 4)
	require.NoError(t, err)
	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	assert.Equal(t, 2, total)
}

func TestHistogramEmpty(t *testing.T) {
	tbl := table.MustNew(&table.Column{Name: "n", Type: table.ColumnInteger, Values: []table.Value{table.NewMissingValue()}})
	h, err := Histogram(tbl, "n", 4)
	require.NoError(t, err)
	assert.Empty(t, h.Bins)
	assert.Equal(t, 1, h.Missing)
}
