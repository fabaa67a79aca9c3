package ui

import (
	"fmt"
	"strconv"
	"strings"

	"cordex/domain/stats"
	"cordex/internal/errors"
	"cordex/internal/pipeline"

	"github.com/gin-gonic/gin"
)

// yearRange reads low and high from the query, falling back to the configured
// defaults. An inverted request is rejected before the result is clamped into bounds.
func yearRange(c *gin.Context, bounds stats.YearBounds, defLow, defHigh int) (int, int, error) {
	low, err := queryInt(c, "low", defLow)
	if err != nil {
		return 0, 0, err
	}
	high, err := queryInt(c, "high", defHigh)
	if err != nil {
		return 0, 0, err
	}
	if low > high {
		return 0, 0, errors.InvalidRange(low, high)
	}
	low, high = pipeline.ClampRange(low, high, bounds)
	return low, high, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(fmt.Sprintf("%s must be an integer year, got %q", key, raw))
	}
	return v, nil
}
