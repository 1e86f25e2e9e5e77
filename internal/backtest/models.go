// Package backtest implements the deterministic simulation core (spec §4.5,
// §4.6): it walks a validated rule set over a candle series and produces a
// complete BacktestResult. Run is a pure function — same inputs, same
// output, no goroutines, no glob­al state, no wall-clock or random input.
package backtest

import (
	"github.com/vaibhavblayer/cryptobacktest/internal/indicators"
	"github.com/vaibhavblayer/cryptobacktest/internal/metrics"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

// Trade is one completed round trip: an entry fill paired with its exit
// fill. Prices are post-slippage fills.
type Trade struct {
	ID           int
	EntryDate    string
	EntryPrice   float64
	ExitDate     string
	ExitPrice    float64
	PnLAbs       float64
	PnLPct       float64
	HoldingDays  int
	ExitReason   string
	PositionSize float64
}

// EquityPoint is one mark-to-market sample of the strategy's and the
// buy-and-hold benchmark's equity, aligned by date.
type EquityPoint struct {
	Date                  string
	Equity                float64
	BenchmarkEquity       float64
	DrawdownPct           float64
	BenchmarkDrawdownPct  float64
}

// BenchmarkResult is the buy-and-hold comparator computed under identical
// cost assumptions (spec §4.6).
type BenchmarkResult struct {
	EntryPrice  float64
	Units       float64
	TotalReturn float64
}

// AuditInfo carries the verbatim labels spec §6.4 requires external
// dashboards to parse, plus the data-range bookkeeping needed to explain an
// empty result.
type AuditInfo struct {
	ExecutionModel         string
	AnnualizationFactor    int
	RiskFreeRate           float64
	BenchmarkModel         string
	PositionModel          string
	WarmupCount            int
	DataRangeStart         string
	DataRangeEnd           string
	CandleCount            int
	TradableCandleCount    int
	DCABudgetExhaustedDate string
	Description            string
}

const (
	executionModel       = "Signal on close[i], execute at open[i+1]"
	annualizationFactor  = 365
	riskFreeRate         = 0
	benchmarkModel       = "Buy & Hold: entered at first tradable candle open, same fees"
	positionModelStandard = "Long-only, single position, no pyramiding"
	positionModelDCA      = "DCA additive"

	exitReasonSignal    = "Exit signal"
	exitReasonForceClose = "Force-close at end of data"
	exitReasonDCAHold    = "DCA hold"
)

// BacktestResult is the complete output of one Run call.
type BacktestResult struct {
	Config        ruleset.BacktestConfig
	Trades        []Trade
	EquityCurve   []EquityPoint
	Metrics       metrics.PerformanceMetrics
	Benchmark     BenchmarkResult
	IndicatorData map[string]indicators.Series
	Audit         AuditInfo
}

// position is the open-position bookkeeping carried between candles in the
// standard-mode loop.
type position struct {
	open         bool
	entryPrice   float64
	entryIndex   int
	entryDate    string
	units        float64
	positionSize float64
	costBasis    float64
}
