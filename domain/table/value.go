package table

import (
	"encoding/json"
	"strconv"
	"time"
)

// Value represents a single typed cell
type Value struct {
	Type         ValueType  `json:"type"`
	StringVal    *string    `json:"string_val,omitempty"`
	NumericVal   *float64   `json:"numeric_val,omitempty"`
	IntegerVal   *int64     `json:"integer_val,omitempty"`
	TimestampVal *time.Time `json:"timestamp_val,omitempty"`
	IsMissing    bool       `json:"is_missing"`
}

// ValueType defines the storage type for values
type ValueType string

const (
	ValueTypeString    ValueType = "string"
	ValueTypeNumeric   ValueType = "numeric"
	ValueTypeInteger   ValueType = "integer"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeMissing   ValueType = "missing"
)

// NewStringValue creates a string value. The empty string is kept as a valid value;
// deciding what counts as missing is the coercer's job.
func NewStringValue(s string) Value {
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewIntegerValue creates an integer value
func NewIntegerValue(n int64) Value {
	return Value{Type: ValueTypeInteger, IntegerVal: &n}
}

// NewTimestampValue creates a timestamp value
func NewTimestampValue(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, TimestampVal: &t}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// Missing reports whether the cell holds no data.
func (v Value) Missing() bool {
	return v.IsMissing || v.Type == ValueTypeMissing || v.Type == ""
}

// String returns the display form of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			return strconv.FormatFloat(*v.NumericVal, 'f', -1, 64)
		}
	case ValueTypeInteger:
		if v.IntegerVal != nil {
			return strconv.FormatInt(*v.IntegerVal, 10)
		}
	case ValueTypeTimestamp:
		if v.TimestampVal != nil {
			if v.TimestampVal.Hour() == 0 && v.TimestampVal.Minute() == 0 && v.TimestampVal.Second() == 0 {
				return v.TimestampVal.Format("2006-01-02")
			}
			return v.TimestampVal.Format(time.RFC3339)
		}
	case ValueTypeMissing, "":
		return ""
	}
	return ""
}

// IsNumeric returns true if the value represents a valid float
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && v.NumericVal != nil
}

// IsInteger returns true if the value represents a valid integer
func (v Value) IsInteger() bool {
	return v.Type == ValueTypeInteger && v.IntegerVal != nil
}

// IsString returns true if the value represents a valid string
func (v Value) IsString() bool {
	return v.Type == ValueTypeString && v.StringVal != nil
}

// IsTimestamp returns true if the value represents a valid timestamp
func (v Value) IsTimestamp() bool {
	return v.Type == ValueTypeTimestamp && v.TimestampVal != nil
}

// AsFloat64 returns the numeric value as float64. Integers are widened.
// The second result is false for non-numeric values.
func (v Value) AsFloat64() (float64, bool) {
	switch {
	case v.IsNumeric():
		return *v.NumericVal, true
	case v.IsInteger():
		return float64(*v.IntegerVal), true
	}
	return 0, false
}

// AsInt64 returns the integer value, or false if the value is not an integer
func (v Value) AsInt64() (int64, bool) {
	if v.IsInteger() {
		return *v.IntegerVal, true
	}
	return 0, false
}

// AsString returns the string value, or empty string if not a string
func (v Value) AsString() string {
	if v.StringVal != nil {
		return *v.StringVal
	}
	return ""
}

// AsTime returns the timestamp value, or false if not a timestamp
func (v Value) AsTime() (time.Time, bool) {
	if v.IsTimestamp() {
		return *v.TimestampVal, true
	}
	return time.Time{}, false
}

// Compare orders two values: missing first, then numbers, timestamps and strings.
// Numbers of either type compare by magnitude.
func (v Value) Compare(o Value) int {
	rv, ro := v.rank(), o.rank()
	if rv != ro {
		return cmpInt(rv, ro)
	}
	switch rv {
	case 1:
		a, _ := v.AsFloat64()
		b, _ := o.AsFloat64()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case 2:
		return v.TimestampVal.Compare(*o.TimestampVal)
	case 3:
		a, b := v.AsString(), o.AsString()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

func (v Value) rank() int {
	switch {
	case v.Missing():
		return 0
	case v.IsNumeric(), v.IsInteger():
		return 1
	case v.IsTimestamp():
		return 2
	}
	return 3
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Interface returns the plain Go value, nil for missing.
func (v Value) Interface() interface{} {
	switch {
	case v.Missing():
		return nil
	case v.IsString():
		return *v.StringVal
	case v.IsNumeric():
		return *v.NumericVal
	case v.IsInteger():
		return *v.IntegerVal
	case v.IsTimestamp():
		return v.String()
	}
	return nil
}

// Cell is a Value that encodes as its plain JSON scalar, null when missing.
type Cell Value

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(Value(c).Interface())
}
