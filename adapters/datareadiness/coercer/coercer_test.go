package coercer

import (
	"testing"
	"time"

	"cordex/domain/table"

	"github.com/stretchr/testify/assert"
)

func TestTimestampCoercion(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name     string
		raw      string
		wantYear int
		missing  bool
	}{
		{name: "iso date", raw: "2020-03-01", wantYear: 2020},
		{name: "year only", raw: "2019", wantYear: 2019},
		{name: "year and month name", raw: "2004 Sep", wantYear: 2004},
		{name: "rfc3339", raw: "2021-06-10T08:00:00Z", wantYear: 2021},
		{name: "compact date", raw: "20200115", wantYear: 2020},
		{name: "permissive long form", raw: "March 5, 2020", wantYear: 2020},
		{name: "garbage", raw: "bad-date", missing: true},
		{name: "empty", raw: "", missing: true},
		{name: "missing token", raw: "NaN", missing: true},
		{name: "id-like integer", raw: "1332151919", missing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.CoerceTimestamp(tt.raw)
			if tt.missing {
				assert.True(t, v.Missing(), "expected %q to coerce to missing, got %v", tt.raw, v)
				return
			}
			ts, ok := v.AsTime()
			if assert.True(t, ok, "expected timestamp for %q", tt.raw) {
				assert.Equal(t, tt.wantYear, ts.Year())
			}
		})
	}
}

func TestParseTimestampValue(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	ts := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, ts, *c.ParseTimestampValue(table.NewTimestampValue(ts)).TimestampVal)

	fromString := c.ParseTimestampValue(table.NewStringValue("2020-01-02"))
	got, ok := fromString.AsTime()
	assert.True(t, ok)
	assert.Equal(t, ts, got)

	fromNumber := c.ParseTimestampValue(table.NewNumericValue(2018))
	got, ok = fromNumber.AsTime()
	assert.True(t, ok)
	assert.Equal(t, 2018, got.Year())

	assert.True(t, c.ParseTimestampValue(table.NewMissingValue()).Missing())
	assert.True(t, c.ParseTimestampValue(table.NewNumericValue(2018.5)).Missing())
}

func TestNumericCoercion(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	v := c.CoerceNumeric(" 32109.0 ")
	f, ok := v.AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, 32109.0, f)

	assert.True(t, c.CoerceNumeric("1e3").IsNumeric())
	assert.True(t, c.CoerceNumeric("abc").Missing())
	assert.True(t, c.CoerceNumeric("1,234").Missing())
	assert.True(t, c.CoerceNumeric("Inf").Missing())
	assert.True(t, c.CoerceNumeric("nan").Missing())
}

func TestTextCoercion(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.Equal(t, "Hello world", c.CoerceText("  Hello world ").AsString())
	for _, tok := range []string{"", "  ", "NA", "N/A", "null", "None", "<NA>"} {
		assert.True(t, c.CoerceText(tok).Missing(), "token %q", tok)
	}
}

func TestInferColumnType(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name string
		raw  []string
		want table.ColumnType
	}{
		{name: "all numbers", raw: []string{"1", "2.5", "3"}, want: table.ColumnNumeric},
		{name: "majority numbers", raw: []string{"1", "2", "x", ""}, want: table.ColumnNumeric},
		{name: "tie is text", raw: []string{"1", "x"}, want: table.ColumnText},
		{name: "years mixed with dates", raw: []string{"2020", "2021", "2019", "2020-03-01"}, want: table.ColumnText},
		{name: "words", raw: []string{"PMC", "Medline", "WHO"}, want: table.ColumnText},
		{name: "all missing", raw: []string{"", "NaN", ""}, want: table.ColumnNumeric},
		{name: "empty column", raw: nil, want: table.ColumnNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, analysis := c.InferColumnType(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.raw), analysis.TotalCount)
		})
	}
}

func TestCoerceAs(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.True(t, c.CoerceAs("x", table.ColumnNumeric).Missing())
	assert.True(t, c.CoerceAs("12", table.ColumnInteger).IsInteger())
	assert.True(t, c.CoerceAs("2020-01-01", table.ColumnTimestamp).IsTimestamp())
	assert.True(t, c.CoerceAs("12", table.ColumnText).IsString())
}

func TestOrMissing(t *testing.T) {
	never := func(string) (table.Value, bool) { return table.Value{}, false }
	always := func(s string) (table.Value, bool) { return table.NewStringValue(s), true }

	assert.True(t, OrMissing("x", never).Missing())
	assert.Equal(t, "x", OrMissing("x", always).AsString())
}
