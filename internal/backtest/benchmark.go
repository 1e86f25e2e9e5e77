package backtest

import "github.com/vaibhavblayer/cryptobacktest/internal/models"

// computeBenchmark simulates buying and holding one notional from the
// first tradable candle under the same cost assumptions as the strategy
// (spec §4.6), returning a parallel equity series indexed like candles.
func computeBenchmark(candles []models.Candle, initialCapital, feeBps, slippageBps float64) (benchmark BenchmarkResult, series []float64, drawdowns []float64) {
	if len(candles) == 0 {
		return BenchmarkResult{}, nil, nil
	}

	slippageFrac := slippageBps / 10000
	feeFrac := feeBps / 10000

	entryPrice := candles[0].Open * (1 + slippageFrac)
	entryFee := initialCapital * feeFrac
	units := (initialCapital - entryFee) / entryPrice

	series = make([]float64, len(candles))
	drawdowns = make([]float64, len(candles))
	peak := initialCapital

	for i, c := range candles {
		var equity float64
		if i == len(candles)-1 {
			exitPrice := c.Close * (1 - slippageFrac)
			gross := exitPrice * units
			exitFee := gross * feeFrac
			equity = gross - exitFee
		} else {
			equity = units * c.Close
		}
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			drawdowns[i] = (equity - peak) / peak * 100
		}
		series[i] = equity
	}

	totalReturn := 0.0
	if initialCapital != 0 {
		totalReturn = (series[len(series)-1]/initialCapital - 1) * 100
	}

	return BenchmarkResult{EntryPrice: entryPrice, Units: units, TotalReturn: totalReturn}, series, drawdowns
}
