package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := t.TempDir() + "/test.db"
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close(); os.Remove(path) })
	return s
}

func TestCandleRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []models.Candle{
		{Timestamp: base, Open: 100, High: 110, Low: 95, Close: 105, Volume: 1000},
		{Timestamp: base.AddDate(0, 0, 1), Open: 105, High: 115, Low: 100, Close: 112, Volume: 1200},
	}

	if err := s.SaveCandles(ctx, "BTC-USD", candles); err != nil {
		t.Fatalf("SaveCandles: %v", err)
	}

	got, err := s.GetCandles(ctx, "BTC-USD", base, base.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(got))
	}
	if got[0].Close != 105 || got[1].Close != 112 {
		t.Fatalf("unexpected candle values: %+v", got)
	}

	fresh, err := s.GetCandlesFreshness(ctx, "BTC-USD")
	if err != nil {
		t.Fatalf("GetCandlesFreshness: %v", err)
	}
	if !fresh.Equal(base.AddDate(0, 0, 1)) {
		t.Fatalf("expected freshness == last candle timestamp, got %v", fresh)
	}
}

func TestCandleFreshnessEmptyAsset(t *testing.T) {
	s := newTestStore(t)
	fresh, err := s.GetCandlesFreshness(context.Background(), "NOPE-USD")
	if err != nil {
		t.Fatalf("GetCandlesFreshness: %v", err)
	}
	if !fresh.IsZero() {
		t.Fatalf("expected zero time for unknown asset, got %v", fresh)
	}
}

func TestRuleSetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rs := ruleset.StrategyRuleSet{
		ID:   "rs-1",
		Name: "sma-cross",
		Mode: ruleset.StrategyMode{Kind: ruleset.ModeStandard},
		Entry: ruleset.ConditionGroup{Op: ruleset.GroupAND, Conditions: []ruleset.Condition{
			{ID: "c1", Scope: ruleset.ScopeCandle, Left: ruleset.IndicatorOperand(ruleset.IndicatorSpec{Kind: ruleset.KindSMA, Period: 20}), Op: ruleset.OpGT, Right: ruleset.NumberOperand(0)},
		}},
		Sizing: ruleset.PositionSizing{Kind: ruleset.SizingPercentEquity, Pct: 100},
	}

	if err := s.SaveRuleSet(ctx, rs); err != nil {
		t.Fatalf("SaveRuleSet: %v", err)
	}

	got, err := s.GetRuleSet(ctx, "rs-1")
	if err != nil {
		t.Fatalf("GetRuleSet: %v", err)
	}
	if got == nil || got.Name != "sma-cross" {
		t.Fatalf("expected round-tripped rule set, got %+v", got)
	}

	list, err := s.ListRuleSets(ctx)
	if err != nil {
		t.Fatalf("ListRuleSets: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 rule set, got %d", len(list))
	}

	if err := s.DeleteRuleSet(ctx, "rs-1"); err != nil {
		t.Fatalf("DeleteRuleSet: %v", err)
	}
	got, err = s.GetRuleSet(ctx, "rs-1")
	if err != nil {
		t.Fatalf("GetRuleSet after delete: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil after delete")
	}
}

func TestGetRuleSetMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetRuleSet(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("GetRuleSet: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing rule set")
	}
}
