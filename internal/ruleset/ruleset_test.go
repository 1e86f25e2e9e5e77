package ruleset

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func standardRuleSet() StrategyRuleSet {
	return StrategyRuleSet{
		ID:   "rs-1",
		Name: "sma cross",
		Mode: StrategyMode{Kind: ModeStandard},
		Entry: ConditionGroup{
			Op: GroupAND,
			Conditions: []Condition{
				{
					ID:    "c1",
					Scope: ScopeCandle,
					Left:  IndicatorOperand(IndicatorSpec{Kind: KindSMA, Period: 10}),
					Op:    OpCrossesAbove,
					Right: IndicatorOperand(IndicatorSpec{Kind: KindSMA, Period: 20}),
				},
			},
		},
		Exit: ConditionGroup{
			Op: GroupOR,
			Conditions: []Condition{
				{
					ID:    "c2",
					Scope: ScopeCandle,
					Left:  IndicatorOperand(IndicatorSpec{Kind: KindSMA, Period: 10}),
					Op:    OpCrossesBelow,
					Right: IndicatorOperand(IndicatorSpec{Kind: KindSMA, Period: 20}),
				},
			},
		},
		Sizing: PositionSizing{Kind: SizingPercentEquity, Pct: 100},
	}
}

func TestValidateStandardOK(t *testing.T) {
	warnings, err := Validate(standardRuleSet())
	if err != nil {
		t.Fatalf("expected valid rule set, got %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestValidateStandardEmptyEntry(t *testing.T) {
	rs := standardRuleSet()
	rs.Entry.Conditions = nil
	_, err := Validate(rs)
	if err == nil {
		t.Fatal("expected error for empty entry conditions")
	}
}

func TestValidateStandardEmptyExitWarns(t *testing.T) {
	rs := standardRuleSet()
	rs.Exit.Conditions = nil
	warnings, err := Validate(rs)
	if err != nil {
		t.Fatalf("empty exit should only warn, got error %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestValidateDCARejectsConditions(t *testing.T) {
	rs := standardRuleSet()
	rs.Mode = StrategyMode{Kind: ModeDCA, DCA: &DCAParams{IntervalDays: 7, AmountUSD: 100}}
	_, err := Validate(rs)
	if err == nil {
		t.Fatal("expected error: dca mode forbids entry/exit conditions")
	}
}

func TestValidateDCAOK(t *testing.T) {
	rs := StrategyRuleSet{
		ID:     "rs-dca",
		Name:   "weekly dca",
		Mode:   StrategyMode{Kind: ModeDCA, DCA: &DCAParams{IntervalDays: 7, AmountUSD: 100}},
		Sizing: PositionSizing{Kind: SizingFixedAmount, USD: 100},
	}
	_, err := Validate(rs)
	if err != nil {
		t.Fatalf("expected valid dca rule set, got %v", err)
	}
}

func TestValidateDCAInvalidInterval(t *testing.T) {
	rs := StrategyRuleSet{
		ID:     "rs-dca",
		Mode:   StrategyMode{Kind: ModeDCA, DCA: &DCAParams{IntervalDays: 0, AmountUSD: 100}},
		Sizing: PositionSizing{Kind: SizingFixedAmount, USD: 100},
	}
	_, err := Validate(rs)
	if err == nil {
		t.Fatal("expected error for interval_days < 1")
	}
}

func TestValidateCrossRequiresIndicatorOperands(t *testing.T) {
	rs := standardRuleSet()
	rs.Entry.Conditions[0].Right = NumberOperand(42)
	_, err := Validate(rs)
	if err == nil {
		t.Fatal("expected error: crosses_above requires indicator operands on both sides")
	}
}

func TestValidatePositionScopeRequiresPositionIndicator(t *testing.T) {
	rs := standardRuleSet()
	rs.Exit.Conditions = []Condition{
		{
			ID:    "c3",
			Scope: ScopePosition,
			Left:  IndicatorOperand(IndicatorSpec{Kind: KindSMA, Period: 10}),
			Op:    OpGT,
			Right: NumberOperand(0),
		},
	}
	_, err := Validate(rs)
	if err == nil {
		t.Fatal("expected error: position scope requires a position-scope indicator")
	}
}

func TestValidatePositionScopeOK(t *testing.T) {
	rs := standardRuleSet()
	rs.Exit.Conditions = append(rs.Exit.Conditions, Condition{
		ID:    "c3",
		Scope: ScopePosition,
		Left:  IndicatorOperand(IndicatorSpec{Kind: KindPnLPct}),
		Op:    OpGTE,
		Right: NumberOperand(10),
	})
	_, err := Validate(rs)
	if err != nil {
		t.Fatalf("expected valid position-scope condition, got %v", err)
	}
}

func TestValidateSizingBounds(t *testing.T) {
	rs := standardRuleSet()
	rs.Sizing = PositionSizing{Kind: SizingPercentEquity, Pct: 0}
	if _, err := Validate(rs); err == nil {
		t.Fatal("expected error for pct below 1")
	}
	rs.Sizing = PositionSizing{Kind: SizingPercentEquity, Pct: 101}
	if _, err := Validate(rs); err == nil {
		t.Fatal("expected error for pct above 100")
	}
	rs.Sizing = PositionSizing{Kind: SizingFixedAmount, USD: 0}
	if _, err := Validate(rs); err == nil {
		t.Fatal("expected error for non-positive fixed amount")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	rs := standardRuleSet()
	rs.Entry.Conditions = nil
	rs.Sizing = PositionSizing{Kind: SizingPercentEquity, Pct: 0}
	_, err := Validate(rs)
	if err == nil {
		t.Fatal("expected error")
	}
	ve, ok := err.(interface{ Error() string })
	if !ok {
		t.Fatalf("expected error type supporting Error(), got %T", err)
	}
	if ve.Error() == "" {
		t.Fatal("expected joined error message")
	}
}

func TestCacheKeyIdentifiesStructurallyEqualSpecs(t *testing.T) {
	a := IndicatorSpec{Kind: KindSMA, Period: 20}
	b := IndicatorSpec{Kind: KindSMA, Period: 20}
	c := IndicatorSpec{Kind: KindSMA, Period: 21}
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("expected identical keys for structurally equal specs: %q vs %q", a.CacheKey(), b.CacheKey())
	}
	if a.CacheKey() == c.CacheKey() {
		t.Fatal("expected different keys for specs differing by period")
	}
}

func TestCacheKeyDistinguishesKind(t *testing.T) {
	a := IndicatorSpec{Kind: KindSMA, Period: 20}
	b := IndicatorSpec{Kind: KindEMA, Period: 20}
	if a.CacheKey() == b.CacheKey() {
		t.Fatal("expected different keys across indicator kinds")
	}
}

func TestRuleSetJSONRoundTrip(t *testing.T) {
	rs := standardRuleSet()
	data, err := json.Marshal(rs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out StrategyRuleSet
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != rs.ID || out.Mode.Kind != rs.Mode.Kind {
		t.Fatalf("round trip mismatch: got %+v", out)
	}
	if len(out.Entry.Conditions) != len(rs.Entry.Conditions) {
		t.Fatalf("round trip lost entry conditions: got %d want %d",
			len(out.Entry.Conditions), len(rs.Entry.Conditions))
	}
	if out.Entry.Conditions[0].Left.Indicator.Kind != rs.Entry.Conditions[0].Left.Indicator.Kind {
		t.Fatal("round trip lost nested indicator kind")
	}
}

// TestCacheKeyPropertyEqualSpecsAlwaysCollide checks the planner invariant
// that any two field-for-field equal specs produce the same cache key,
// regardless of period magnitude.
func TestCacheKeyPropertyEqualSpecsAlwaysCollide(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("equal specs collide", prop.ForAll(
		func(period int) bool {
			a := IndicatorSpec{Kind: KindSMA, Period: period}
			b := IndicatorSpec{Kind: KindSMA, Period: period}
			return a.CacheKey() == b.CacheKey()
		},
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}
