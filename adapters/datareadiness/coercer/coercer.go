package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"cordex/domain/table"

	"github.com/araddon/dateparse"
)

// TypeCoercer converts raw cell text into typed values. Anything that does not parse
// becomes a missing value; coercion never returns an error.
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]struct{}
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of non-missing cells that must parse as numbers
	MissingTokens    []string `json:"missing_tokens"`    // cell texts read as missing
	TimeLayouts      []string `json:"time_layouts"`      // tried in order before the permissive parser
	Permissive       bool     `json:"permissive"`        // fall back to dateparse when no layout matches
	Location         *time.Location
}

// DefaultMissingTokens mirrors the NA vocabulary of common dataframe CSV readers.
var DefaultMissingTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// DefaultTimeLayouts covers the shapes publish dates take in the metadata export.
var DefaultTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"2006 Jan 2",
	"2006 Jan",
	"2006-01",
	"20060102",
	"2006",
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 0.5,
		MissingTokens:    DefaultMissingTokens,
		TimeLayouts:      DefaultTimeLayouts,
		Permissive:       true,
		Location:         time.UTC,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.Location == nil {
		config.Location = time.UTC
	}
	missing := make(map[string]struct{}, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = struct{}{}
	}
	return &TypeCoercer{config: config, missing: missing}
}

// OrMissing runs parse over raw and substitutes the missing value on failure.
// Every derivation point goes through it so the coercion policy lives in one place.
func OrMissing[T any](raw T, parse func(T) (table.Value, bool)) table.Value {
	if v, ok := parse(raw); ok {
		return v
	}
	return table.NewMissingValue()
}

// IsMissingToken reports whether raw reads as an absent cell
func (c *TypeCoercer) IsMissingToken(raw string) bool {
	_, ok := c.missing[strings.TrimSpace(raw)]
	return ok
}

// CoerceText keeps raw as a string value unless it is a missing token
func (c *TypeCoercer) CoerceText(raw string) table.Value {
	return OrMissing(raw, c.tryParseText)
}

// CoerceNumeric parses raw as a float, missing on failure
func (c *TypeCoercer) CoerceNumeric(raw string) table.Value {
	return OrMissing(raw, c.tryParseNumeric)
}

// CoerceTimestamp parses raw as a date, missing on failure
func (c *TypeCoercer) CoerceTimestamp(raw string) table.Value {
	return OrMissing(raw, c.tryParseTimestamp)
}

// CoerceAs converts raw under the given column type
func (c *TypeCoercer) CoerceAs(raw string, typ table.ColumnType) table.Value {
	switch typ {
	case table.ColumnNumeric:
		return c.CoerceNumeric(raw)
	case table.ColumnInteger:
		return OrMissing(raw, c.tryParseInteger)
	case table.ColumnTimestamp:
		return c.CoerceTimestamp(raw)
	default:
		return c.CoerceText(raw)
	}
}

// ParseTimestampValue coerces an already loaded cell into a timestamp.
// Timestamps pass through; strings are parsed; everything else is missing.
func (c *TypeCoercer) ParseTimestampValue(v table.Value) table.Value {
	return OrMissing(v, func(v table.Value) (table.Value, bool) {
		switch {
		case v.IsTimestamp():
			return v, true
		case v.IsString():
			return c.tryParseTimestamp(v.AsString())
		case v.IsInteger():
			return c.tryParseTimestamp(v.String())
		case v.IsNumeric():
			f, _ := v.AsFloat64()
			if f == math.Trunc(f) {
				return c.tryParseTimestamp(strconv.FormatInt(int64(f), 10))
			}
		}
		return table.Value{}, false
	})
}

func (c *TypeCoercer) tryParseText(raw string) (table.Value, bool) {
	if c.IsMissingToken(raw) {
		return table.Value{}, false
	}
	return table.NewStringValue(strings.TrimSpace(raw)), true
}

// tryParseNumeric accepts plain decimal and scientific notation only; thousands
// separators and currency marks are left to the text type.
func (c *TypeCoercer) tryParseNumeric(raw string) (table.Value, bool) {
	if c.IsMissingToken(raw) {
		return table.Value{}, false
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return table.Value{}, false
	}
	return table.NewNumericValue(val), true
}

func (c *TypeCoercer) tryParseInteger(raw string) (table.Value, bool) {
	if c.IsMissingToken(raw) {
		return table.Value{}, false
	}
	val, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return table.Value{}, false
	}
	return table.NewIntegerValue(val), true
}

// tryParseTimestamp attempts the fixed layouts first, then the permissive parser
func (c *TypeCoercer) tryParseTimestamp(raw string) (table.Value, bool) {
	if c.IsMissingToken(raw) {
		return table.Value{}, false
	}
	s := strings.TrimSpace(raw)

	for _, layout := range c.config.TimeLayouts {
		if t, err := time.ParseInLocation(layout, s, c.config.Location); err == nil {
			return table.NewTimestampValue(t), true
		}
	}

	if !c.config.Permissive {
		return table.Value{}, false
	}
	// Bare integers other than a year are ids, not epochs.
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return table.Value{}, false
	}
	t, err := dateparse.ParseIn(s, c.config.Location)
	if err != nil {
		return table.Value{}, false
	}
	return table.NewTimestampValue(t), true
}

// InferColumnType picks the column type from every raw cell of a column.
// A strict majority of numeric cells makes the column numeric; a column with
// no data at all is numeric too, the way an all-NaN column loads as float.
// A column whose non-numeric cells include a date stays text, so bare years
// mixed with full dates survive until derivation.
func (c *TypeCoercer) InferColumnType(raw []string) (table.ColumnType, TypeAnalysis) {
	analysis := TypeAnalysis{TotalCount: len(raw)}
	var rest []string
	for _, cell := range raw {
		if c.IsMissingToken(cell) {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.tryParseNumeric(cell); ok {
			analysis.NumericCount++
		} else {
			rest = append(rest, cell)
		}
	}

	if analysis.ValidCount == 0 {
		analysis.RecommendedType = table.ColumnNumeric
		return analysis.RecommendedType, analysis
	}

	analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	analysis.RecommendedType = table.ColumnText
	if analysis.NumericRatio > c.config.NumericThreshold {
		for _, cell := range rest {
			if _, ok := c.tryParseTimestamp(cell); ok {
				analysis.DateCount++
			}
		}
		if analysis.DateCount == 0 {
			analysis.RecommendedType = table.ColumnNumeric
		}
	}
	return analysis.RecommendedType, analysis
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int              `json:"total_count"`
	ValidCount      int              `json:"valid_count"`
	NumericCount    int              `json:"numeric_count"`
	NumericRatio    float64          `json:"numeric_ratio"`
	DateCount       int              `json:"date_count"`
	RecommendedType table.ColumnType `json:"recommended_type"`
}
