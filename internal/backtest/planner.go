package backtest

import (
	"github.com/vaibhavblayer/cryptobacktest/internal/evaluate"
	"github.com/vaibhavblayer/cryptobacktest/internal/indicators"
	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

// collectSpecs walks a rule set's entry and exit groups and returns the
// distinct (by canonical cache key) candle-scope indicator specs they
// reference. Position-scope indicators and literal-number operands are
// never collected: they carry no warm-up and are resolved lazily.
func collectSpecs(rs ruleset.StrategyRuleSet) []ruleset.IndicatorSpec {
	seen := make(map[string]ruleset.IndicatorSpec)
	order := make([]string, 0)

	collectFromGroup := func(g ruleset.ConditionGroup) {
		for _, c := range g.Conditions {
			for _, op := range []ruleset.Operand{c.Left, c.Right} {
				if !op.IsIndicator() || op.Indicator.Kind.IsPositionScope() {
					continue
				}
				key := op.Indicator.CacheKey()
				if _, ok := seen[key]; !ok {
					seen[key] = *op.Indicator
					order = append(order, key)
				}
			}
		}
	}
	collectFromGroup(rs.Entry)
	collectFromGroup(rs.Exit)

	specs := make([]ruleset.IndicatorSpec, len(order))
	for i, key := range order {
		specs[i] = seen[key]
	}
	return specs
}

// maxWarmup returns the largest warm-up requirement across specs, 0 if
// specs is empty.
func maxWarmup(specs []ruleset.IndicatorSpec) int {
	max := 0
	for _, spec := range specs {
		if w := indicators.Warmup(spec); w > max {
			max = w
		}
	}
	return max
}

// buildCache precomputes every spec's series over the full candle
// sequence, once, keyed by canonical cache key.
func buildCache(specs []ruleset.IndicatorSpec, candles []models.Candle) evaluate.Cache {
	cache := make(evaluate.Cache, len(specs))
	for _, spec := range specs {
		cache.Put(spec, computeSeries(spec, candles))
	}
	return cache
}

func computeSeries(spec ruleset.IndicatorSpec, candles []models.Candle) indicators.Series {
	switch spec.Kind {
	case ruleset.KindPriceClose:
		return toSeries(indicators.SourceSeries(candles, ruleset.SourceClose))
	case ruleset.KindPriceOpen:
		return toSeries(indicators.SourceSeries(candles, ruleset.SourceOpen))
	case ruleset.KindPriceHigh:
		return toSeries(indicators.SourceSeries(candles, ruleset.SourceHigh))
	case ruleset.KindPriceLow:
		return toSeries(indicators.SourceSeries(candles, ruleset.SourceLow))
	case ruleset.KindVolume:
		return toSeries(indicators.SourceSeries(candles, ruleset.SourceVolume))
	case ruleset.KindSMA:
		return indicators.SMA(indicators.SourceSeries(candles, spec.Source), spec.Period)
	case ruleset.KindEMA:
		return indicators.EMA(indicators.SourceSeries(candles, spec.Source), spec.Period)
	case ruleset.KindRSI:
		return indicators.RSI(indicators.SourceSeries(candles, spec.Source), spec.Period)
	case ruleset.KindPctChange:
		return indicators.PctChange(indicators.SourceSeries(candles, spec.Source), spec.Period)
	case ruleset.KindATR:
		return indicators.ATR(candles, spec.Period)
	case ruleset.KindMACDLine:
		line, _, _ := indicators.MACD(indicators.SourceSeries(candles, spec.Source), spec.FastPeriod, spec.SlowPeriod, spec.SignalPeriod)
		return line
	case ruleset.KindMACDSignal:
		_, signal, _ := indicators.MACD(indicators.SourceSeries(candles, spec.Source), spec.FastPeriod, spec.SlowPeriod, spec.SignalPeriod)
		return signal
	case ruleset.KindMACDHist:
		_, _, hist := indicators.MACD(indicators.SourceSeries(candles, spec.Source), spec.FastPeriod, spec.SlowPeriod, spec.SignalPeriod)
		return hist
	case ruleset.KindBBUpper:
		upper, _, _ := indicators.BollingerBands(indicators.SourceSeries(candles, spec.Source), spec.Period, spec.StdDev)
		return upper
	case ruleset.KindBBMiddle:
		_, middle, _ := indicators.BollingerBands(indicators.SourceSeries(candles, spec.Source), spec.Period, spec.StdDev)
		return middle
	case ruleset.KindBBLower:
		_, _, lower := indicators.BollingerBands(indicators.SourceSeries(candles, spec.Source), spec.Period, spec.StdDev)
		return lower
	default:
		return make(indicators.Series, len(candles))
	}
}

func toSeries(values []float64) indicators.Series {
	out := make(indicators.Series, len(values))
	for i, v := range values {
		out[i] = indicators.Of(v)
	}
	return out
}
