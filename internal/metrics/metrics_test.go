package metrics

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// TestComputeSharpeKnownEquity grounds scenario F: equity [100,102,101,104,103].
func TestComputeSharpeKnownEquity(t *testing.T) {
	equity := []float64{100, 102, 101, 104, 103}
	returns := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		returns[i-1] = (equity[i] - equity[i-1]) / equity[i-1]
	}

	m := meanOf(returns)
	sigma := popStdDev(returns, m)
	wantSharpe := m / sigma * math.Sqrt(365)

	got := computeSharpe(returns)
	if !almostEqual(got, wantSharpe, 1e-6) {
		t.Fatalf("sharpe = %v, want %v", got, wantSharpe)
	}
}

func TestComputeSortinoAllPositiveIsInf(t *testing.T) {
	returns := []float64{0.01, 0.02, 0.005}
	got := computeSortino(returns)
	if !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf sortino with no negative returns, got %v", got)
	}
}

func TestComputeSortinoZeroDownsideNegativeMeanIsZero(t *testing.T) {
	// The single negative return squares to 0 in float64 (1e-400 underflows),
	// so downside sigma is 0 while the mean stays negative.
	returns := []float64{-1e-200, 0, 0}
	got := computeSortino(returns)
	if got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestProfitFactorNoWinsIsZero(t *testing.T) {
	m := PerformanceMetrics{}
	computeTradeStats(&m, []TradeInput{{PnLAbs: -10, PnLPct: -5}})
	if m.ProfitFactor != 0 {
		t.Fatalf("expected 0 profit factor with no wins, got %v", m.ProfitFactor)
	}
}

func TestProfitFactorNoLossesIsInf(t *testing.T) {
	m := PerformanceMetrics{}
	computeTradeStats(&m, []TradeInput{{PnLAbs: 10, PnLPct: 5}})
	if !math.IsInf(m.ProfitFactor, 1) {
		t.Fatalf("expected +Inf profit factor with no losses, got %v", m.ProfitFactor)
	}
}

func TestWinRateZeroPnLCountsAsWin(t *testing.T) {
	m := PerformanceMetrics{}
	computeTradeStats(&m, []TradeInput{{PnLAbs: 0, PnLPct: 0}, {PnLAbs: -1, PnLPct: -1}})
	if m.WinRate != 50 {
		t.Fatalf("expected 50%% win rate, got %v", m.WinRate)
	}
}

func TestComputeEmptyTradesNoMetricsPanic(t *testing.T) {
	got := Compute(nil, nil, 10000, 0)
	if got.TotalTrades != 0 || got.TotalReturn != 0 || got.ExposureTimePct != 0 {
		t.Fatalf("expected zero-filled metrics for empty input, got %+v", got)
	}
}

func TestMaxDrawdownDurationUnrecoveredUsesLastDate(t *testing.T) {
	equity := []EquitySample{
		{Date: "2024-01-01", Equity: 100},
		{Date: "2024-01-02", Equity: 90},
		{Date: "2024-01-05", Equity: 80},
	}
	drawdowns := computeDrawdowns(equity)
	days := maxDrawdownDuration(equity, drawdowns)
	if days != 4 {
		t.Fatalf("expected 4 days (2024-01-01 to 2024-01-05), got %d", days)
	}
}

func TestMaxDrawdownDurationRecovers(t *testing.T) {
	equity := []EquitySample{
		{Date: "2024-01-01", Equity: 100},
		{Date: "2024-01-02", Equity: 90},
		{Date: "2024-01-03", Equity: 105},
	}
	drawdowns := computeDrawdowns(equity)
	days := maxDrawdownDuration(equity, drawdowns)
	if days != 2 {
		t.Fatalf("expected 2 days (peak 01-01 to recovery 01-03), got %d", days)
	}
}
