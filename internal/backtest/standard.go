package backtest

import (
	"math"

	"github.com/vaibhavblayer/cryptobacktest/internal/evaluate"
	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

// runStandard executes the signal-driven simulation loop (spec §4.5.a).
// Signals evaluate on candle i's closing information; fills execute at
// open[i+1]. The loop never looks beyond index i when deciding an action —
// the no-look-ahead invariant follows directly from that index discipline.
func runStandard(cfg ruleset.BacktestConfig, candles []models.Candle) (trades []Trade, equityCurve []EquityPoint, warmup int, insufficientData bool) {
	specs := collectSpecs(cfg.Rules)
	warmup = maxWarmup(specs)
	if warmup >= len(candles) {
		return nil, nil, warmup, true
	}

	cache := buildCache(specs, candles)

	slippageFrac := cfg.SlippageBps / 10000
	feeFrac := cfg.FeeBps / 10000

	capital := cfg.InitialCapital
	peak := cfg.InitialCapital
	nextTradeID := 1
	var pos position

	for i := warmup; i < len(candles); i++ {
		currentPos := evaluate.Position{IsOpen: pos.open, EntryPrice: pos.entryPrice, EntryIndex: pos.entryIndex}

		if !pos.open {
			if evaluate.EvalGroup(cfg.Rules.Entry, cache, candles, i, currentPos) && i+1 < len(candles) {
				fillIdx := i + 1
				fill := candles[fillIdx].Open * (1 + slippageFrac)
				size := sizeEntry(cfg.Rules.Sizing, capital)
				fee := size * feeFrac
				units := (size - fee) / fill

				capital -= size
				pos = position{
					open:         true,
					entryPrice:   fill,
					entryIndex:   fillIdx,
					entryDate:    candles[fillIdx].Date(),
					units:        units,
					positionSize: size,
					costBasis:    size,
				}
			}
		} else {
			if evaluate.EvalGroup(cfg.Rules.Exit, cache, candles, i, currentPos) && i+1 < len(candles) {
				fillIdx := i + 1
				fill := candles[fillIdx].Open * (1 - slippageFrac)
				gross := fill * pos.units
				exitFee := gross * feeFrac
				net := gross - exitFee
				pnlAbs := net - pos.costBasis
				pnlPct := 0.0
				if pos.costBasis != 0 {
					pnlPct = pnlAbs / pos.costBasis * 100
				}
				holdingDays := daysBetween(pos.entryDate, candles[fillIdx].Date())

				trades = append(trades, Trade{
					ID:           nextTradeID,
					EntryDate:    pos.entryDate,
					EntryPrice:   pos.entryPrice,
					ExitDate:     candles[fillIdx].Date(),
					ExitPrice:    fill,
					PnLAbs:       pnlAbs,
					PnLPct:       pnlPct,
					HoldingDays:  holdingDays,
					ExitReason:   exitReasonSignal,
					PositionSize: pos.positionSize,
				})
				nextTradeID++
				capital += net
				pos = position{}
			}
		}

		equity := capital
		if pos.open {
			equity += pos.units * candles[i].Close
		}
		if equity > peak {
			peak = equity
		}
		drawdown := 0.0
		if peak > 0 {
			drawdown = (equity - peak) / peak * 100
		}
		equityCurve = append(equityCurve, EquityPoint{
			Date:        candles[i].Date(),
			Equity:      equity,
			DrawdownPct: drawdown,
		})
	}

	if pos.open {
		last := candles[len(candles)-1]
		fill := last.Close * (1 - slippageFrac)
		gross := fill * pos.units
		exitFee := gross * feeFrac
		net := gross - exitFee
		pnlAbs := net - pos.costBasis
		pnlPct := 0.0
		if pos.costBasis != 0 {
			pnlPct = pnlAbs / pos.costBasis * 100
		}
		holdingDays := daysBetween(pos.entryDate, last.Date())

		trades = append(trades, Trade{
			ID:           nextTradeID,
			EntryDate:    pos.entryDate,
			EntryPrice:   pos.entryPrice,
			ExitDate:     last.Date(),
			ExitPrice:    fill,
			PnLAbs:       pnlAbs,
			PnLPct:       pnlPct,
			HoldingDays:  holdingDays,
			ExitReason:   exitReasonForceClose,
			PositionSize: pos.positionSize,
		})

		capital += net
		if len(equityCurve) > 0 {
			last := len(equityCurve) - 1
			equityCurve[last].Equity = capital
			if capital > peak {
				peak = capital
			}
			if peak > 0 {
				equityCurve[last].DrawdownPct = (capital - peak) / peak * 100
			}
		}
	}

	return trades, equityCurve, warmup, false
}

func sizeEntry(sizing ruleset.PositionSizing, capital float64) float64 {
	switch sizing.Kind {
	case ruleset.SizingFixedAmount:
		return math.Min(sizing.USD, capital)
	default: // percent_equity
		return capital * sizing.Pct / 100
	}
}

func daysBetween(entryDate, exitDate string) int {
	entry, err1 := models.ParseDate(entryDate)
	exit, err2 := models.ParseDate(exitDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	d := int(exit.Sub(entry).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
