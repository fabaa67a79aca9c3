package excel

import (
	"cordex/adapters/datareadiness/coercer"
)

// ReaderConfig holds configuration for the file data source
type ReaderConfig struct {
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
	Delimiter      rune                   `json:"delimiter"` // 0 means comma
	Sheet          string                 `json:"sheet"`     // empty means the first sheet
}

// DefaultReaderConfig returns sensible defaults for CSV and Excel processing
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
