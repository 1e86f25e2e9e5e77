package ruleset

import (
	"fmt"
	"strconv"
	"strings"
)

// CacheKey returns the canonical cache key for spec, used by the indicator
// planner (internal/backtest) to collapse structurally identical requests
// onto a single precomputed series. Two specs that are equal field-for-field
// produce identical keys regardless of where in the rule set they appear.
func (spec IndicatorSpec) CacheKey() string {
	parts := []string{
		string(spec.Kind),
		strconv.Itoa(spec.Period),
		strconv.Itoa(spec.FastPeriod),
		strconv.Itoa(spec.SlowPeriod),
		strconv.Itoa(spec.SignalPeriod),
		formatStdDev(spec.StdDev),
		string(spec.Source),
	}
	return strings.Join(parts, "|")
}

func formatStdDev(v float64) string {
	return fmt.Sprintf("%g", v)
}
