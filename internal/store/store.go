// Package store provides data persistence for candles and rule sets.
package store

import (
	"context"
	"time"

	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

// DataStore persists the two durable entities this engine deals with: the
// OHLCV candle history it backtests against, and the rule sets users save
// between runs.
type DataStore interface {
	SaveCandles(ctx context.Context, asset string, candles []models.Candle) error
	GetCandles(ctx context.Context, asset string, from, to time.Time) ([]models.Candle, error)
	GetCandlesFreshness(ctx context.Context, asset string) (time.Time, error)

	SaveRuleSet(ctx context.Context, rs ruleset.StrategyRuleSet) error
	GetRuleSet(ctx context.Context, id string) (*ruleset.StrategyRuleSet, error)
	ListRuleSets(ctx context.Context) ([]ruleset.StrategyRuleSet, error)
	DeleteRuleSet(ctx context.Context, id string) error

	Close() error
}
