package table

import (
	"encoding/json"
	"testing"
	"time"

	"cordex/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textColumn(name string, values ...string) *Column {
	col := &Column{Name: name, Type: ColumnText}
	for _, v := range values {
		if v == "" {
			col.Values = append(col.Values, NewMissingValue())
			continue
		}
		col.Values = append(col.Values, NewStringValue(v))
	}
	return col
}

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		textColumn("title", "A", "B", ""),
		textColumn("journal", "Lancet", "", "BMJ"),
		&Column{Name: "mag_id", Type: ColumnNumeric, Values: []Value{NewMissingValue(), NewMissingValue(), NewMissingValue()}},
	)
	require.NoError(t, err)
	return tbl
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New(textColumn("a", "x", "y"), textColumn("b", "x"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))

	_, err = New(textColumn("a", "x"), textColumn("a", "y"))
	require.Error(t, err)
}

func TestDropIsStrict(t *testing.T) {
	tbl := sampleTable(t)

	dropped, err := tbl.Drop("mag_id")
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "journal"}, dropped.ColumnNames())
	assert.Equal(t, 3, dropped.NumRows())
	assert.True(t, tbl.Has("mag_id"), "source table must be untouched")

	_, err = dropped.Drop("mag_id")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeColumnNotFound))
}

func TestSelectTakeHead(t *testing.T) {
	tbl := sampleTable(t)

	proj, err := tbl.Select("journal", "title")
	require.NoError(t, err)
	assert.Equal(t, []string{"journal", "title"}, proj.ColumnNames())

	_, err = tbl.Select("authors")
	assert.True(t, errors.HasCode(err, errors.CodeColumnNotFound))

	taken := tbl.Take([]int{2, 0})
	require.Equal(t, 2, taken.NumRows())
	title, _ := taken.Column("title")
	assert.True(t, title.Values[0].Missing())
	assert.Equal(t, "A", title.Values[1].AsString())

	assert.Equal(t, 2, tbl.Head(2).NumRows())
	assert.Equal(t, 3, tbl.Head(50).NumRows())
	assert.Equal(t, 0, tbl.Head(-1).NumRows())
}

func TestWithColumnReplacesInPlace(t *testing.T) {
	tbl := sampleTable(t)

	replaced, err := tbl.WithColumn(textColumn("journal", "x", "y", "z"))
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "journal", "mag_id"}, replaced.ColumnNames())

	appended, err := tbl.WithColumn(textColumn("authors", "a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, "authors", appended.ColumnNames()[3])

	_, err = tbl.WithColumn(textColumn("short", "a"))
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	info := sampleTable(t).Info()

	assert.Contains(t, info, "RangeIndex: 3 entries, 0 to 2")
	assert.Contains(t, info, "Data columns (total 3 columns):")
	assert.Contains(t, info, "title")
	assert.Contains(t, info, "2 non-null")
	assert.Contains(t, info, "0 non-null")
	assert.Contains(t, info, "types: numeric(1), text(2)")
}

func TestMissingCount(t *testing.T) {
	tbl := sampleTable(t)
	col, err := tbl.Column("mag_id")
	require.NoError(t, err)
	assert.Equal(t, 3, col.MissingCount())
}

func TestValueCompare(t *testing.T) {
	assert.Equal(t, -1, NewIntegerValue(2019).Compare(NewIntegerValue(2020)))
	assert.Equal(t, 0, NewIntegerValue(3).Compare(NewNumericValue(3)))
	assert.Equal(t, -1, NewMissingValue().Compare(NewIntegerValue(0)))
	assert.Equal(t, 1, NewStringValue("b").Compare(NewStringValue("a")))

	early := NewTimestampValue(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))
	late := NewTimestampValue(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, -1, early.Compare(late))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "2020", NewIntegerValue(2020).String())
	assert.Equal(t, "1.5", NewNumericValue(1.5).String())
	assert.Equal(t, "2020-03-01", NewTimestampValue(time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)).String())
	assert.Equal(t, "", NewMissingValue().String())
	assert.True(t, Value{}.Missing())
}

func TestCellJSON(t *testing.T) {
	out, err := json.Marshal([]Cell{Cell(NewStringValue("x")), Cell(NewMissingValue()), Cell(NewIntegerValue(7))})
	require.NoError(t, err)
	assert.JSONEq(t, `["x", null, 7]`, string(out))
}
