package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaibhavblayer/cryptobacktest/internal/applog"
	"github.com/vaibhavblayer/cryptobacktest/internal/backtest"
	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

func loadBacktestConfig(path string) (ruleset.BacktestConfig, error) {
	var cfg ruleset.BacktestConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a backtest against a candle series",
		Long:  "Runs a rule set (from --ruleset) against a daily OHLCV CSV file (from --candles) and reports trades, equity curve, and metrics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			cfgPath, _ := cmd.Flags().GetString("ruleset")
			candlesPath, _ := cmd.Flags().GetString("candles")
			fromStore, _ := cmd.Flags().GetString("from-store")
			if cfgPath == "" || (candlesPath == "" && fromStore == "") {
				return fmt.Errorf("--ruleset and one of --candles or --from-store are required")
			}

			cfg, err := loadBacktestConfig(cfgPath)
			if err != nil {
				return err
			}

			warnings, err := ruleset.ValidateConfig(cfg)
			if err != nil {
				output.Error("Invalid rule set: %v", err)
				return err
			}
			for _, w := range warnings {
				output.Warning("%s", w)
				applog.LogWarning(app.Logger, cfg.Rules.ID, w)
			}

			var candles []models.Candle
			if fromStore != "" {
				from, err := models.ParseDate(cfg.StartDate)
				if err != nil {
					return fmt.Errorf("parsing start_date: %w", err)
				}
				to, err := models.ParseDate(cfg.EndDate)
				if err != nil {
					return fmt.Errorf("parsing end_date: %w", err)
				}
				candles, err = loadCandlesFromStore(app, fromStore, from, to)
				if err != nil {
					return fmt.Errorf("loading candles from store: %w", err)
				}
			} else {
				candles, err = loadCandlesCSV(candlesPath)
				if err != nil {
					return fmt.Errorf("loading candles: %w", err)
				}
			}

			applog.LogRun(app.Logger, cfg.Rules.ID, cfg.Asset, len(candles), 0, false)
			result := backtest.Run(cfg, candles)
			applog.LogRun(app.Logger, cfg.Rules.ID, cfg.Asset, len(candles), len(result.Trades), true)
			for _, tr := range result.Trades {
				applog.LogTradeExec(app.Logger, tr.EntryDate, tr.ExitDate, tr.ExitReason, tr.EntryPrice, tr.ExitPrice, tr.PnLAbs, tr.PnLPct)
			}
			app.Hub.PublishResult(result)

			if output.IsJSON() {
				return output.JSON(result)
			}
			printResult(output, result)
			return nil
		},
	}

	cmd.Flags().String("ruleset", "", "path to a rule set / backtest config JSON file")
	cmd.Flags().String("candles", "", "path to a daily OHLCV candle CSV file")
	cmd.Flags().String("from-store", "", "load candles from the local store under this asset instead of --candles")
	return cmd
}

func printResult(output *Output, result backtest.BacktestResult) {
	output.Printf("Asset:     %s\n", result.Config.Asset)
	output.Printf("Range:     %s to %s\n", result.Audit.DataRangeStart, result.Audit.DataRangeEnd)
	output.Printf("Trades:    %d\n", len(result.Trades))
	output.Println()

	output.Printf("Total Return:   %s\n", output.FormatPercent(result.Metrics.TotalReturn))
	output.Printf("CAGR:           %s\n", output.FormatPercent(result.Metrics.CAGR))
	output.Printf("Sharpe Ratio:   %.2f\n", result.Metrics.SharpeRatio)
	output.Printf("Sortino Ratio:  %.2f\n", result.Metrics.SortinoRatio)
	output.Printf("Max Drawdown:   %s\n", output.FormatPercent(result.Metrics.MaxDrawdown))
	output.Printf("Win Rate:       %.1f%%\n", result.Metrics.WinRate)
	output.Printf("Profit Factor:  %.2f\n", result.Metrics.ProfitFactor)
	output.Println()

	table := NewTable(output, "#", "Entry", "Exit", "P&L", "P&L %", "Reason")
	for _, tr := range result.Trades {
		table.AddRow(
			fmt.Sprintf("%d", tr.ID),
			tr.EntryDate,
			tr.ExitDate,
			output.FormatPnL(tr.PnLAbs),
			output.FormatPercent(tr.PnLPct),
			tr.ExitReason,
		)
	}
	table.Render()
}
