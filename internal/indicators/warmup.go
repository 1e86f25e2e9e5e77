package indicators

import "github.com/vaibhavblayer/cryptobacktest/internal/ruleset"

// Warmup returns the number of leading candles that must elapse before
// spec's indicator produces its first defined value. Price fields and
// position-scope indicators need no warm-up.
func Warmup(spec ruleset.IndicatorSpec) int {
	switch spec.Kind {
	case ruleset.KindSMA, ruleset.KindBBUpper, ruleset.KindBBMiddle, ruleset.KindBBLower:
		return spec.Period - 1
	case ruleset.KindEMA:
		return spec.Period - 1
	case ruleset.KindRSI, ruleset.KindATR:
		return spec.Period
	case ruleset.KindMACDLine:
		return spec.SlowPeriod - 1
	case ruleset.KindMACDSignal, ruleset.KindMACDHist:
		return MACDWarmup(spec.FastPeriod, spec.SlowPeriod, spec.SignalPeriod)
	case ruleset.KindPctChange:
		return spec.Period
	default:
		return 0
	}
}
