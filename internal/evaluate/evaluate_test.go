package evaluate

import (
	"testing"
	"time"

	"github.com/vaibhavblayer/cryptobacktest/internal/indicators"
	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

func makeCandles(closes []float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = models.Candle{Timestamp: base.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return out
}

func TestEvalComparisonMissingOperandIsFalse(t *testing.T) {
	candles := makeCandles([]float64{1, 2, 3})
	cache := Cache{}
	spec := ruleset.IndicatorSpec{Kind: ruleset.KindSMA, Period: 10}
	cache.Put(spec, indicators.Series{indicators.Missing(), indicators.Missing(), indicators.Missing()})

	c := ruleset.Condition{
		Scope: ruleset.ScopeCandle,
		Left:  ruleset.IndicatorOperand(spec),
		Op:    ruleset.OpGT,
		Right: ruleset.NumberOperand(0),
	}
	if EvalCondition(c, cache, candles, 2, Position{}) {
		t.Fatal("expected false: left operand missing during warmup")
	}
}

func TestEvalCrossesAbove(t *testing.T) {
	candles := makeCandles([]float64{1, 2, 3, 4})
	cache := Cache{}
	fast := ruleset.IndicatorSpec{Kind: ruleset.KindSMA, Period: 2}
	slow := ruleset.IndicatorSpec{Kind: ruleset.KindSMA, Period: 3}
	// fast below slow at i-1, fast above slow at i
	cache.Put(fast, indicators.Series{indicators.Missing(), indicators.Of(5), indicators.Of(9), indicators.Of(20)})
	cache.Put(slow, indicators.Series{indicators.Missing(), indicators.Missing(), indicators.Of(10), indicators.Of(11)})

	c := ruleset.Condition{
		Scope: ruleset.ScopeCandle,
		Left:  ruleset.IndicatorOperand(fast),
		Op:    ruleset.OpCrossesAbove,
		Right: ruleset.IndicatorOperand(slow),
	}
	if !EvalCondition(c, cache, candles, 3, Position{}) {
		t.Fatal("expected crosses_above to fire: 9<=10 then 20>11")
	}
	if EvalCondition(c, cache, candles, 2, Position{}) {
		t.Fatal("index 2 has no valid prior value, should not fire")
	}
}

func TestEvalCrossAtIndexZeroIsFalse(t *testing.T) {
	candles := makeCandles([]float64{1})
	cache := Cache{}
	c := ruleset.Condition{
		Op:    ruleset.OpCrossesAbove,
		Left:  ruleset.NumberOperand(1),
		Right: ruleset.NumberOperand(0),
	}
	if EvalCondition(c, cache, candles, 0, Position{}) {
		t.Fatal("expected false: no prior candle at index 0")
	}
}

func TestEvalPositionScopeRequiresOpenPosition(t *testing.T) {
	candles := makeCandles([]float64{100, 110, 120})
	cache := Cache{}
	c := ruleset.Condition{
		Scope: ruleset.ScopePosition,
		Left:  ruleset.IndicatorOperand(ruleset.IndicatorSpec{Kind: ruleset.KindPnLPct}),
		Op:    ruleset.OpGTE,
		Right: ruleset.NumberOperand(5),
	}
	if EvalCondition(c, cache, candles, 1, Position{IsOpen: false}) {
		t.Fatal("expected false: no open position")
	}
	if !EvalCondition(c, cache, candles, 1, Position{IsOpen: true, EntryPrice: 100, EntryIndex: 0}) {
		t.Fatal("expected true: pnl_pct = 10 >= 5")
	}
}

func TestEvalBarsInTrade(t *testing.T) {
	candles := makeCandles([]float64{100, 101, 102, 103})
	cache := Cache{}
	c := ruleset.Condition{
		Scope: ruleset.ScopePosition,
		Left:  ruleset.IndicatorOperand(ruleset.IndicatorSpec{Kind: ruleset.KindBarsInTrade}),
		Op:    ruleset.OpGTE,
		Right: ruleset.NumberOperand(3),
	}
	pos := Position{IsOpen: true, EntryPrice: 100, EntryIndex: 0}
	if EvalCondition(c, cache, candles, 2, pos) {
		t.Fatal("expected false: only 2 bars elapsed")
	}
	if !EvalCondition(c, cache, candles, 3, pos) {
		t.Fatal("expected true: 3 bars elapsed")
	}
}

func TestEvalGroupEmptyANDTrueEmptyORFalse(t *testing.T) {
	candles := makeCandles([]float64{1})
	cache := Cache{}
	if !EvalGroup(ruleset.ConditionGroup{Op: ruleset.GroupAND}, cache, candles, 0, Position{}) {
		t.Fatal("empty AND group should be vacuously true")
	}
	if EvalGroup(ruleset.ConditionGroup{Op: ruleset.GroupOR}, cache, candles, 0, Position{}) {
		t.Fatal("empty OR group should be vacuously false")
	}
}

func TestEvalGroupANDRequiresAll(t *testing.T) {
	candles := makeCandles([]float64{10})
	cache := Cache{}
	g := ruleset.ConditionGroup{
		Op: ruleset.GroupAND,
		Conditions: []ruleset.Condition{
			{Left: ruleset.NumberOperand(1), Op: ruleset.OpLT, Right: ruleset.NumberOperand(2)},
			{Left: ruleset.NumberOperand(5), Op: ruleset.OpLT, Right: ruleset.NumberOperand(2)},
		},
	}
	if EvalGroup(g, cache, candles, 0, Position{}) {
		t.Fatal("expected false: second condition fails")
	}
}

func TestEvalEQIsExact(t *testing.T) {
	candles := makeCandles([]float64{1})
	cache := Cache{}
	c := ruleset.Condition{Left: ruleset.NumberOperand(1.5), Op: ruleset.OpEQ, Right: ruleset.NumberOperand(1.5)}
	if !EvalCondition(c, cache, candles, 0, Position{}) {
		t.Fatal("expected exact equality to hold")
	}
	c.Right = ruleset.NumberOperand(1.5000001)
	if EvalCondition(c, cache, candles, 0, Position{}) {
		t.Fatal("expected exact equality to fail for unequal floats, no epsilon tolerance")
	}
}
