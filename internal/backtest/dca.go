package backtest

import (
	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

type dcaEntry struct {
	index    int
	date     string
	fill     float64
	units    float64
	invested float64
}

// runDCA executes the periodic dollar-cost-averaging branch (spec §4.5.b).
// There are no indicators and no warm-up: every candle is a potential buy
// day, gated purely by the interval and remaining cash.
func runDCA(cfg ruleset.BacktestConfig, candles []models.Candle) (trades []Trade, equityCurve []EquityPoint, dcaBudgetExhaustedDate string) {
	dca := cfg.Rules.Mode.DCA
	slippageFrac := cfg.SlippageBps / 10000
	feeFrac := cfg.FeeBps / 10000

	remainingCash := cfg.InitialCapital
	var totalUnits float64
	peak := cfg.InitialCapital
	var entries []dcaEntry

	for i, c := range candles {
		if i%dca.IntervalDays == 0 {
			fill := c.Close * (1 + slippageFrac)
			fee := dca.AmountUSD * feeFrac
			totalCost := dca.AmountUSD + fee

			switch {
			case remainingCash >= totalCost:
				units := dca.AmountUSD / fill
				entries = append(entries, dcaEntry{index: i, date: c.Date(), fill: fill, units: units, invested: totalCost})
				totalUnits += units
				remainingCash -= totalCost
			case remainingCash > fee:
				investable := remainingCash - fee
				units := investable / fill
				entries = append(entries, dcaEntry{index: i, date: c.Date(), fill: fill, units: units, invested: remainingCash})
				totalUnits += units
				remainingCash = 0
			}
		}

		equity := totalUnits*c.Close + remainingCash
		if equity > peak {
			peak = equity
		}
		drawdown := 0.0
		if peak > 0 {
			drawdown = (equity - peak) / peak * 100
		}
		equityCurve = append(equityCurve, EquityPoint{Date: c.Date(), Equity: equity, DrawdownPct: drawdown})
	}

	// Each buy becomes one "DCA hold" trade closed at the last candle's close
	// with no exit slippage and no exit fee (a plain mark-to-market unwind),
	// unlike the benchmark, which pays both on its final close.
	if len(entries) > 0 {
		last := candles[len(candles)-1]
		for id, e := range entries {
			pnlAbs := (last.Close - e.fill) * e.units
			pnlPct := 0.0
			if e.fill != 0 {
				pnlPct = (last.Close - e.fill) / e.fill * 100
			}
			trades = append(trades, Trade{
				ID:           id + 1,
				EntryDate:    e.date,
				EntryPrice:   e.fill,
				ExitDate:     last.Date(),
				ExitPrice:    last.Close,
				PnLAbs:       pnlAbs,
				PnLPct:       pnlPct,
				HoldingDays:  daysBetween(e.date, last.Date()),
				ExitReason:   exitReasonDCAHold,
				PositionSize: e.invested,
			})
		}

		if remainingCash <= dca.AmountUSD*feeFrac {
			dcaBudgetExhaustedDate = entries[len(entries)-1].date
		}
	}

	return trades, equityCurve, dcaBudgetExhaustedDate
}
