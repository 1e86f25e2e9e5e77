package backtest

import "sort"

// StrategyComparison summarizes one named run for side-by-side comparison.
type StrategyComparison struct {
	Name             string
	TotalReturn      float64
	CAGR             float64
	SharpeRatio      float64
	SortinoRatio     float64
	MaxDrawdown      float64
	WinRate          float64
	ProfitFactor     float64
	TotalTrades      int
}

// CompareStrategies ranks a set of named results by Sharpe ratio descending,
// the metric the teacher corpus treats as the default tie-breaker for "which
// strategy wins".
func CompareStrategies(results map[string]BacktestResult) []StrategyComparison {
	comparisons := make([]StrategyComparison, 0, len(results))
	for name, result := range results {
		comparisons = append(comparisons, StrategyComparison{
			Name:         name,
			TotalReturn:  result.Metrics.TotalReturn,
			CAGR:         result.Metrics.CAGR,
			SharpeRatio:  result.Metrics.SharpeRatio,
			SortinoRatio: result.Metrics.SortinoRatio,
			MaxDrawdown:  result.Metrics.MaxDrawdown,
			WinRate:      result.Metrics.WinRate,
			ProfitFactor: result.Metrics.ProfitFactor,
			TotalTrades:  result.Metrics.TotalTrades,
		})
	}

	sort.Slice(comparisons, func(i, j int) bool {
		return comparisons[i].SharpeRatio > comparisons[j].SharpeRatio
	})

	return comparisons
}
