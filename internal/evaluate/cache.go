// Package evaluate resolves rule-set operands against precomputed indicator
// series and open-position state, and evaluates conditions and condition
// groups against them (spec §4). It is pure and synchronous: every function
// here is a deterministic function of its arguments, with no goroutines,
// no shared mutable state and no wall-clock or random input.
package evaluate

import (
	"github.com/vaibhavblayer/cryptobacktest/internal/indicators"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

// Cache holds every candle-scope indicator series a rule set references,
// keyed by IndicatorSpec.CacheKey so structurally identical specs collapse
// onto one precomputed series. internal/backtest populates it once per run.
type Cache map[string]indicators.Series

// Get returns the series for spec, or nil if it was never precomputed
// (callers treat a nil/out-of-range lookup as Missing).
func (c Cache) Get(spec ruleset.IndicatorSpec) indicators.Series {
	return c[spec.CacheKey()]
}

// Put stores series under spec's canonical cache key.
func (c Cache) Put(spec ruleset.IndicatorSpec, series indicators.Series) {
	c[spec.CacheKey()] = series
}

// valueAt returns series[i], or Missing if i is out of range.
func valueAt(series indicators.Series, i int) indicators.Value {
	if i < 0 || i >= len(series) {
		return indicators.Missing()
	}
	return series[i]
}
