// Package metrics computes the fifteen performance statistics the engine
// reports for a finished backtest (spec §4.7), from the final trade list
// and equity curve alone. Every division that could be undefined has a
// specified outcome — 0 or +Inf — so no metric is ever NaN.
package metrics

import (
	"math"

	"github.com/vaibhavblayer/cryptobacktest/internal/models"
)

// TradeInput is the subset of a completed trade this package consumes.
type TradeInput struct {
	PnLAbs      float64
	PnLPct      float64
	HoldingDays int
}

// EquitySample is one date/equity point, in chronological order.
type EquitySample struct {
	Date   string
	Equity float64
}

// PerformanceMetrics is the full set of backtest performance statistics.
type PerformanceMetrics struct {
	TotalReturn             float64
	CAGR                    float64
	SharpeRatio             float64
	SortinoRatio            float64
	MaxDrawdown             float64
	MaxDrawdownDurationDays int
	WinRate                 float64
	ProfitFactor            float64
	AvgWinPct               float64
	AvgLossPct              float64
	BestTradePct            float64
	WorstTradePct           float64
	AvgHoldingDays          float64
	ExposureTimePct         float64
	TotalTrades             int
}

const annualizationFactor = 365

// Compute derives PerformanceMetrics from trades, the equity curve,
// initialCapital and the total count of tradable candles.
func Compute(trades []TradeInput, equity []EquitySample, initialCapital float64, totalCandles int) PerformanceMetrics {
	m := PerformanceMetrics{TotalTrades: len(trades)}

	if len(equity) > 0 && initialCapital != 0 {
		last := equity[len(equity)-1].Equity
		m.TotalReturn = (last/initialCapital - 1) * 100
		m.CAGR = computeCAGR(equity, initialCapital, last)
	}

	dailyReturns := computeDailyReturns(equity)
	m.SharpeRatio = computeSharpe(dailyReturns)
	m.SortinoRatio = computeSortino(dailyReturns)

	drawdowns := computeDrawdowns(equity)
	m.MaxDrawdown = minDrawdown(drawdowns)
	m.MaxDrawdownDurationDays = maxDrawdownDuration(equity, drawdowns)

	computeTradeStats(&m, trades)
	m.ExposureTimePct = computeExposure(trades, totalCandles)

	return m
}

func computeCAGR(equity []EquitySample, initialCapital, last float64) float64 {
	if len(equity) < 2 || last <= 0 {
		return 0
	}
	start, errStart := models.ParseDate(equity[0].Date)
	end, errEnd := models.ParseDate(equity[len(equity)-1].Date)
	if errStart != nil || errEnd != nil {
		return 0
	}
	days := end.Sub(start).Hours() / 24
	if days <= 0 {
		return 0
	}
	years := days / annualizationFactor
	return (math.Pow(last/initialCapital, 1/years) - 1) * 100
}

func computeDailyReturns(equity []EquitySample) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (equity[i].Equity-prev)/prev)
	}
	return returns
}

func computeSharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	m := meanOf(returns)
	sigma := popStdDev(returns, m)
	if sigma == 0 || sigma < math.Abs(m)*1e-10 {
		return 0
	}
	return m / sigma * math.Sqrt(annualizationFactor)
}

func computeSortino(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	m := meanOf(returns)

	var downsideSumSq float64
	hasNegative := false
	for _, r := range returns {
		if r < 0 {
			downsideSumSq += r * r
			hasNegative = true
		}
	}
	if !hasNegative && m >= 0 {
		return math.Inf(1)
	}
	downsideSigma := math.Sqrt(downsideSumSq / float64(len(returns)))
	if downsideSigma == 0 && m < 0 {
		return 0
	}
	if downsideSigma == 0 {
		return 0
	}
	return m / downsideSigma * math.Sqrt(annualizationFactor)
}

// computeDrawdowns returns the running drawdown_pct series, always <= 0.
func computeDrawdowns(equity []EquitySample) []float64 {
	out := make([]float64, len(equity))
	peak := math.Inf(-1)
	for i, e := range equity {
		if e.Equity > peak {
			peak = e.Equity
		}
		if peak <= 0 {
			out[i] = 0
			continue
		}
		out[i] = (e.Equity - peak) / peak * 100
	}
	return out
}

func minDrawdown(drawdowns []float64) float64 {
	min := 0.0
	for _, d := range drawdowns {
		if d < min {
			min = d
		}
	}
	return min
}

// maxDrawdownDuration finds the longest calendar-day span during which
// equity remains strictly below a prior peak. The span starts at the peak
// date (the candle before the first dip) and ends at the recovery candle;
// an unrecovered dip at series end uses the last date.
func maxDrawdownDuration(equity []EquitySample, drawdowns []float64) int {
	if len(equity) == 0 {
		return 0
	}

	maxDays := 0
	inDrawdown := false
	peakDate := equity[0].Date

	for i := 0; i < len(equity); i++ {
		if drawdowns[i] < 0 {
			if !inDrawdown {
				inDrawdown = true
				if i > 0 {
					peakDate = equity[i-1].Date
				} else {
					peakDate = equity[i].Date
				}
			}
			continue
		}
		if inDrawdown {
			days := daysBetween(peakDate, equity[i].Date)
			if days > maxDays {
				maxDays = days
			}
			inDrawdown = false
		}
	}

	if inDrawdown {
		days := daysBetween(peakDate, equity[len(equity)-1].Date)
		if days > maxDays {
			maxDays = days
		}
	}

	return maxDays
}

func daysBetween(from, to string) int {
	start, err1 := models.ParseDate(from)
	end, err2 := models.ParseDate(to)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

func computeTradeStats(m *PerformanceMetrics, trades []TradeInput) {
	if len(trades) == 0 {
		return
	}

	var wins, losses int
	var grossProfit, grossLoss float64
	var sumWinPct, sumLossPct, sumHoldingDays float64
	best := math.Inf(-1)
	worst := math.Inf(1)

	for _, t := range trades {
		if t.PnLPct > best {
			best = t.PnLPct
		}
		if t.PnLPct < worst {
			worst = t.PnLPct
		}
		sumHoldingDays += float64(t.HoldingDays)

		if t.PnLPct >= 0 {
			wins++
			sumWinPct += t.PnLPct
		} else {
			losses++
			sumLossPct += t.PnLPct
		}

		if t.PnLAbs > 0 {
			grossProfit += t.PnLAbs
		} else if t.PnLAbs < 0 {
			grossLoss += t.PnLAbs
		}
	}

	m.WinRate = float64(wins) / float64(len(trades)) * 100
	m.BestTradePct = best
	m.WorstTradePct = worst
	m.AvgHoldingDays = sumHoldingDays / float64(len(trades))

	if wins > 0 {
		m.AvgWinPct = sumWinPct / float64(wins)
	}
	if losses > 0 {
		m.AvgLossPct = sumLossPct / float64(losses)
	}

	switch {
	case grossProfit == 0:
		m.ProfitFactor = 0
	case grossLoss == 0:
		m.ProfitFactor = math.Inf(1)
	default:
		m.ProfitFactor = grossProfit / math.Abs(grossLoss)
	}
}

func computeExposure(trades []TradeInput, totalCandles int) float64 {
	if totalCandles == 0 {
		return 0
	}
	var sum float64
	for _, t := range trades {
		sum += float64(t.HoldingDays)
	}
	return sum / float64(totalCandles) * 100
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func popStdDev(values []float64, mean float64) float64 {
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}
