package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaibhavblayer/cryptobacktest/internal/backtest"
)

func newCompareCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run multiple rule sets against the same candles and rank them",
		Long:  "Accepts one --candles file and two or more --ruleset files, runs each, and ranks them by Sharpe ratio.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			candlesPath, _ := cmd.Flags().GetString("candles")
			cfgPaths, _ := cmd.Flags().GetStringArray("ruleset")
			if candlesPath == "" || len(cfgPaths) < 2 {
				return fmt.Errorf("--candles and at least two --ruleset flags are required")
			}

			candles, err := loadCandlesCSV(candlesPath)
			if err != nil {
				return err
			}

			results := make(map[string]backtest.BacktestResult, len(cfgPaths))
			for _, path := range cfgPaths {
				cfg, err := loadBacktestConfig(path)
				if err != nil {
					return fmt.Errorf("loading %s: %w", path, err)
				}
				results[cfg.Rules.ID] = backtest.Run(cfg, candles)
			}

			comparisons := backtest.CompareStrategies(results)
			app.Hub.PublishComparison(comparisons)

			if output.IsJSON() {
				return output.JSON(comparisons)
			}

			table := NewTable(output, "Rank", "Name", "Return", "CAGR", "Sharpe", "Sortino", "Max DD", "Win %", "Profit Factor", "Trades")
			for i, c := range comparisons {
				table.AddRow(
					fmt.Sprintf("%d", i+1),
					c.Name,
					output.FormatPercent(c.TotalReturn),
					output.FormatPercent(c.CAGR),
					fmt.Sprintf("%.2f", c.SharpeRatio),
					fmt.Sprintf("%.2f", c.SortinoRatio),
					output.FormatPercent(c.MaxDrawdown),
					fmt.Sprintf("%.1f%%", c.WinRate),
					fmt.Sprintf("%.2f", c.ProfitFactor),
					fmt.Sprintf("%d", c.TotalTrades),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("candles", "", "path to a daily OHLCV candle CSV file")
	cmd.Flags().StringArray("ruleset", nil, "path to a rule set / backtest config JSON file (repeatable)")
	return cmd
}
