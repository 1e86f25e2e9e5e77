package evaluate

import (
	"github.com/vaibhavblayer/cryptobacktest/internal/indicators"
	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

// Position is the open-position state needed to resolve position-scope
// operands (pnl_pct, bars_in_trade). IsOpen false means no position: any
// position-scope operand resolves Missing and any position-scope condition
// is false.
type Position struct {
	IsOpen     bool
	EntryPrice float64
	EntryIndex int
}

// ResolveOperand returns op's value at candle index i, given the precomputed
// candle-scope cache and the current open-position state.
func ResolveOperand(op ruleset.Operand, cache Cache, candles []models.Candle, i int, pos Position) indicators.Value {
	if !op.IsIndicator() {
		return indicators.Of(op.Number)
	}

	spec := *op.Indicator
	if spec.Kind.IsPositionScope() {
		return resolvePositionScope(spec.Kind, candles, i, pos)
	}
	return valueAt(cache.Get(spec), i)
}

func resolvePositionScope(kind ruleset.IndicatorKind, candles []models.Candle, i int, pos Position) indicators.Value {
	if !pos.IsOpen {
		return indicators.Missing()
	}
	switch kind {
	case ruleset.KindPnLPct:
		if pos.EntryPrice == 0 {
			return indicators.Missing()
		}
		close := candles[i].Close
		return indicators.Of((close - pos.EntryPrice) / pos.EntryPrice * 100)
	case ruleset.KindBarsInTrade:
		return indicators.Of(float64(i - pos.EntryIndex))
	default:
		return indicators.Missing()
	}
}
