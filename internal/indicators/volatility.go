package indicators

import "github.com/vaibhavblayer/cryptobacktest/internal/models"

// ATR computes the Average True Range over period using Wilder smoothing.
// It is always non-negative: true range is a max over three non-negative
// terms, and Wilder smoothing is a convex combination of non-negative values.
func ATR(candles []models.Candle, period int) Series {
	n := len(candles)
	out := newSeries(n)
	if period <= 0 || n < period+1 {
		return out
	}

	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		tr[i] = trueRange(candles[i], candles[i-1])
	}

	seed := mean(tr[1 : period+1])
	out[period] = Of(seed)
	prev := seed
	for i := period + 1; i < n; i++ {
		prev = (prev*float64(period-1) + tr[i]) / float64(period)
		out[i] = Of(prev)
	}
	return out
}

// BollingerBands computes the upper, middle (SMA) and lower bands over
// period at stdDevMul standard deviations. Upper and lower are always
// equidistant from middle by construction.
func BollingerBands(values []float64, period int, stdDevMul float64) (upper, middle, lower Series) {
	n := len(values)
	upper, middle, lower = newSeries(n), newSeries(n), newSeries(n)
	if period <= 0 || n < period {
		return
	}
	for i := period - 1; i < n; i++ {
		window := values[i-period+1 : i+1]
		sma := mean(window)
		sd := stdDev(window)
		middle[i] = Of(sma)
		upper[i] = Of(sma + stdDevMul*sd)
		lower[i] = Of(sma - stdDevMul*sd)
	}
	return
}
