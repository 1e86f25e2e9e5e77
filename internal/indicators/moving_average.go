package indicators

// SMA computes the simple moving average of values over period, Missing
// for the first period-1 positions.
func SMA(values []float64, period int) Series {
	out := newSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = Of(mean(values[i-period+1 : i+1]))
	}
	return out
}

// EMA computes the exponential moving average of values over period,
// seeded by the SMA of the first period values.
func EMA(values []float64, period int) Series {
	out := newSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	multiplier := 2.0 / float64(period+1)
	seed := mean(values[:period])
	out[period-1] = Of(seed)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*multiplier + prev
		out[i] = Of(prev)
	}
	return out
}

// emaRaw is EMA without the Value wrapper, for indicators built on top of
// another EMA pass (MACD's signal line over the MACD line).
func emaRaw(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	multiplier := 2.0 / float64(period+1)
	seed := mean(values[:period])
	out[period-1] = seed
	for i := period; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// MACDWarmup returns the first index at which the MACD histogram becomes
// defined, per MACD's dependency on both the slow EMA and the signal EMA.
func MACDWarmup(fast, slow, signal int) int {
	return slow + signal - 2
}

// MACD computes the MACD line, signal line and histogram over values.
func MACD(values []float64, fast, slow, signal int) (line, sig, hist Series) {
	n := len(values)
	line, sig, hist = newSeries(n), newSeries(n), newSeries(n)
	if fast <= 0 || slow <= 0 || signal <= 0 || n < slow {
		return
	}

	fastEMA := emaRaw(values, fast)
	slowEMA := emaRaw(values, slow)

	macdRaw := make([]float64, n)
	for i := slow - 1; i < n; i++ {
		macdRaw[i] = fastEMA[i] - slowEMA[i]
		line[i] = Of(macdRaw[i])
	}

	startIdx := slow - 1
	signalRaw := emaRaw(macdRaw[startIdx:], signal)
	for i, v := range signalRaw {
		if i < signal-1 {
			continue
		}
		idx := startIdx + i
		sig[idx] = Of(v)
		hist[idx] = Of(macdRaw[idx] - v)
	}
	return
}
