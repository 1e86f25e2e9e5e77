package backtest

import (
	"sort"

	"github.com/vaibhavblayer/cryptobacktest/internal/indicators"
	"github.com/vaibhavblayer/cryptobacktest/internal/metrics"
	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

// Run executes a complete backtest (spec §6.2). It is a pure function: the
// same config and candle series always produce byte-identical results.
// Candles outside [start_date, end_date] are filtered before the engine
// ever sees them.
func Run(cfg ruleset.BacktestConfig, candles []models.Candle) BacktestResult {
	filtered := filterByDateRange(candles, cfg.StartDate, cfg.EndDate)

	if len(filtered) == 0 {
		return emptyResult(cfg, filtered, "no candles in the requested date range", 0)
	}

	if cfg.Rules.Mode.Kind == ruleset.ModeDCA {
		return runDCAResult(cfg, filtered)
	}
	return runStandardResult(cfg, filtered)
}

func runStandardResult(cfg ruleset.BacktestConfig, candles []models.Candle) BacktestResult {
	trades, equityCurve, warmup, insufficient := runStandard(cfg, candles)
	if insufficient {
		return emptyResult(cfg, candles, "Warmup exceeds data range", warmup)
	}

	benchmark, benchSeries, benchDrawdowns := computeBenchmark(candles[warmup:], cfg.InitialCapital, cfg.FeeBps, cfg.SlippageBps)
	for k := range equityCurve {
		if k < len(benchSeries) {
			equityCurve[k].BenchmarkEquity = benchSeries[k]
			equityCurve[k].BenchmarkDrawdownPct = benchDrawdowns[k]
		}
	}

	m := metrics.Compute(toTradeInputs(trades), toEquitySamples(equityCurve), cfg.InitialCapital, len(equityCurve))

	specs := collectSpecs(cfg.Rules)
	indicatorData := map[string]indicators.Series(buildCache(specs, candles))

	audit := AuditInfo{
		ExecutionModel:      executionModel,
		AnnualizationFactor: annualizationFactor,
		RiskFreeRate:        riskFreeRate,
		BenchmarkModel:      benchmarkModel,
		PositionModel:       positionModelStandard,
		WarmupCount:         warmup,
		DataRangeStart:      candles[0].Date(),
		DataRangeEnd:        candles[len(candles)-1].Date(),
		CandleCount:         len(candles),
		TradableCandleCount: len(equityCurve),
	}

	return BacktestResult{
		Config:        cfg,
		Trades:        trades,
		EquityCurve:   equityCurve,
		Metrics:       m,
		Benchmark:     benchmark,
		IndicatorData: indicatorData,
		Audit:         audit,
	}
}

func runDCAResult(cfg ruleset.BacktestConfig, candles []models.Candle) BacktestResult {
	trades, equityCurve, dcaBudgetExhaustedDate := runDCA(cfg, candles)

	benchmark, benchSeries, benchDrawdowns := computeBenchmark(candles, cfg.InitialCapital, cfg.FeeBps, cfg.SlippageBps)
	for k := range equityCurve {
		if k < len(benchSeries) {
			equityCurve[k].BenchmarkEquity = benchSeries[k]
			equityCurve[k].BenchmarkDrawdownPct = benchDrawdowns[k]
		}
	}

	m := metrics.Compute(toTradeInputs(trades), toEquitySamples(equityCurve), cfg.InitialCapital, len(candles))

	audit := AuditInfo{
		ExecutionModel:         executionModel,
		AnnualizationFactor:    annualizationFactor,
		RiskFreeRate:           riskFreeRate,
		BenchmarkModel:         benchmarkModel,
		PositionModel:          positionModelDCA,
		WarmupCount:            0,
		DataRangeStart:         candles[0].Date(),
		DataRangeEnd:           candles[len(candles)-1].Date(),
		CandleCount:            len(candles),
		TradableCandleCount:    len(equityCurve),
		DCABudgetExhaustedDate: dcaBudgetExhaustedDate,
	}

	return BacktestResult{
		Config:      cfg,
		Trades:      trades,
		EquityCurve: equityCurve,
		Metrics:     m,
		Benchmark:   benchmark,
		Audit:       audit,
	}
}

func emptyResult(cfg ruleset.BacktestConfig, candles []models.Candle, description string, warmup int) BacktestResult {
	positionModel := positionModelStandard
	if cfg.Rules.Mode.Kind == ruleset.ModeDCA {
		positionModel = positionModelDCA
	}
	audit := AuditInfo{
		ExecutionModel:      executionModel,
		AnnualizationFactor: annualizationFactor,
		RiskFreeRate:        riskFreeRate,
		BenchmarkModel:      benchmarkModel,
		PositionModel:       positionModel,
		WarmupCount:         warmup,
		CandleCount:         len(candles),
		TradableCandleCount: 0,
		Description:         description,
	}
	return BacktestResult{
		Config:  cfg,
		Metrics: metrics.Compute(nil, nil, cfg.InitialCapital, 0),
		Audit:   audit,
	}
}

// filterByDateRange keeps only candles within [start, end] (inclusive),
// tolerating unparseable bounds by passing every candle through.
func filterByDateRange(candles []models.Candle, start, end string) []models.Candle {
	startDate, errStart := models.ParseDate(start)
	endDate, errEnd := models.ParseDate(end)
	if errStart != nil || errEnd != nil {
		out := make([]models.Candle, len(candles))
		copy(out, candles)
		return out
	}

	out := make([]models.Candle, 0, len(candles))
	for _, c := range candles {
		if !c.Timestamp.Before(startDate) && !c.Timestamp.After(endDate) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func toTradeInputs(trades []Trade) []metrics.TradeInput {
	out := make([]metrics.TradeInput, len(trades))
	for i, t := range trades {
		out[i] = metrics.TradeInput{PnLAbs: t.PnLAbs, PnLPct: t.PnLPct, HoldingDays: t.HoldingDays}
	}
	return out
}

func toEquitySamples(equity []EquityPoint) []metrics.EquitySample {
	out := make([]metrics.EquitySample, len(equity))
	for i, e := range equity {
		out[i] = metrics.EquitySample{Date: e.Date, Equity: e.Equity}
	}
	return out
}
