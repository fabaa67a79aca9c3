package config

import (
	"testing"

	"cordex/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CORDEX_DATA_FILE", "CORDEX_DROP_COLUMN", "CORDEX_TOP_N", "PORT", "LOG_FORMAT", "CORDEX_WATCH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDataFile, cfg.Data.File)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, "mag_id", cfg.Pipeline.DropColumn)
	assert.Equal(t, 10, cfg.Pipeline.TopN)
	assert.Equal(t, 20, cfg.Pipeline.FilterLimit)
	assert.Equal(t, 2020, cfg.Pipeline.DefaultLowYear)
	assert.Equal(t, 2021, cfg.Pipeline.DefaultHighYear)
	assert.Equal(t, "8501", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CORDEX_DATA_FILE", "data/other.csv")
	t.Setenv("CORDEX_TOP_N", " 5 ")
	t.Setenv("CORDEX_WATCH", "false")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORDEX_MAX_WORDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/other.csv", cfg.Data.File)
	assert.Equal(t, 5, cfg.Pipeline.TopN)
	assert.False(t, cfg.Data.Watch)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 200, cfg.Pipeline.MaxWords, "unparseable values fall back to the default")
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string][2]string{
		"top n":        {"CORDEX_TOP_N", "0"},
		"filter limit": {"CORDEX_FILTER_LIMIT", "-3"},
		"log format":   {"LOG_FORMAT", "xml"},
		"year range":   {"CORDEX_YEAR_LOW", "2030"},
	}

	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
		})
	}
}
