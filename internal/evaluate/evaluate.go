package evaluate

import (
	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

// EvalCondition evaluates a single condition at candle index i. Missing operands
// always evaluate false — a condition never fires on undefined data, the
// same rule that governs warm-up and position-scope gating.
func EvalCondition(c ruleset.Condition, cache Cache, candles []models.Candle, i int, pos Position) bool {
	if c.Scope == ruleset.ScopePosition && !pos.IsOpen {
		return false
	}

	if c.Op.IsCross() {
		return evalCross(c, cache, candles, i, pos)
	}
	return evalComparison(c, cache, candles, i, pos)
}

func evalComparison(c ruleset.Condition, cache Cache, candles []models.Candle, i int, pos Position) bool {
	left := ResolveOperand(c.Left, cache, candles, i, pos)
	right := ResolveOperand(c.Right, cache, candles, i, pos)
	if !left.Valid || !right.Valid {
		return false
	}

	switch c.Op {
	case ruleset.OpLT:
		return left.V < right.V
	case ruleset.OpLTE:
		return left.V <= right.V
	case ruleset.OpGT:
		return left.V > right.V
	case ruleset.OpGTE:
		return left.V >= right.V
	case ruleset.OpEQ:
		return left.V == right.V
	default:
		return false
	}
}

// evalCross consults candle index i-1 in addition to i: crosses_above fires
// when left was at-or-below right on the prior candle and strictly above it
// on the current one (crosses_below is the mirror image). At i == 0 there is
// no prior candle, so the condition cannot yet have crossed.
func evalCross(c ruleset.Condition, cache Cache, candles []models.Candle, i int, pos Position) bool {
	if i == 0 {
		return false
	}

	left := ResolveOperand(c.Left, cache, candles, i, pos)
	right := ResolveOperand(c.Right, cache, candles, i, pos)
	prevLeft := ResolveOperand(c.Left, cache, candles, i-1, pos)
	prevRight := ResolveOperand(c.Right, cache, candles, i-1, pos)
	if !left.Valid || !right.Valid || !prevLeft.Valid || !prevRight.Valid {
		return false
	}

	switch c.Op {
	case ruleset.OpCrossesAbove:
		return prevLeft.V <= prevRight.V && left.V > right.V
	case ruleset.OpCrossesBelow:
		return prevLeft.V >= prevRight.V && left.V < right.V
	default:
		return false
	}
}

// EvalGroup evaluates an entire condition group at candle index i. An empty
// AND group is vacuously true; an empty OR group is vacuously false.
func EvalGroup(g ruleset.ConditionGroup, cache Cache, candles []models.Candle, i int, pos Position) bool {
	if len(g.Conditions) == 0 {
		return g.Op == ruleset.GroupAND
	}

	switch g.Op {
	case ruleset.GroupOR:
		for _, c := range g.Conditions {
			if EvalCondition(c, cache, candles, i, pos) {
				return true
			}
		}
		return false
	default: // GroupAND
		for _, c := range g.Conditions {
			if !EvalCondition(c, cache, candles, i, pos) {
				return false
			}
		}
		return true
	}
}
