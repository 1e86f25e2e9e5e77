package cli

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/vaibhavblayer/cryptobacktest/internal/backtest"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a backtest's trade log or equity curve",
	}

	cmd.AddCommand(newExportTradesCmd())
	cmd.AddCommand(newExportResultCmd())
	return cmd
}

// newExportTradesCmd writes the trade log in the fixed column order
// spec.md §6.3 requires so external dashboards parse it without surprises.
func newExportTradesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Export a backtest's trade log to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			cfgPath, _ := cmd.Flags().GetString("ruleset")
			candlesPath, _ := cmd.Flags().GetString("candles")
			outPath, _ := cmd.Flags().GetString("output")
			if cfgPath == "" || candlesPath == "" || outPath == "" {
				return fmt.Errorf("--ruleset, --candles, and --output are all required")
			}

			cfg, err := loadBacktestConfig(cfgPath)
			if err != nil {
				return err
			}
			candles, err := loadCandlesCSV(candlesPath)
			if err != nil {
				return err
			}
			result := backtest.Run(cfg, candles)

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()

			w := csv.NewWriter(f)
			defer w.Flush()

			w.Write([]string{"ID", "Entry Date", "Entry Price", "Exit Date", "Exit Price", "P&L ($)", "P&L (%)", "Holding Days", "Exit Reason", "Position Size"})
			for _, tr := range result.Trades {
				w.Write([]string{
					fmt.Sprintf("%d", tr.ID),
					tr.EntryDate,
					fmt.Sprintf("%.2f", tr.EntryPrice),
					tr.ExitDate,
					fmt.Sprintf("%.2f", tr.ExitPrice),
					fmt.Sprintf("%.2f", tr.PnLAbs),
					fmt.Sprintf("%.2f", tr.PnLPct),
					fmt.Sprintf("%d", tr.HoldingDays),
					tr.ExitReason,
					fmt.Sprintf("%.2f", tr.PositionSize),
				})
			}

			output.Success("Exported %d trades to %s", len(result.Trades), outPath)
			return nil
		},
	}
	cmd.Flags().String("ruleset", "", "path to a rule set / backtest config JSON file")
	cmd.Flags().String("candles", "", "path to a daily OHLCV candle CSV file")
	cmd.Flags().String("output", "trades.csv", "output CSV path")
	return cmd
}

// exportEquityRow is the CSV row shape for a full equity-curve export,
// looser than the fixed trade-log format so gocsv's struct-tag marshaling
// fits it directly.
type exportEquityRow struct {
	Date                 string  `csv:"date"`
	Equity               float64 `csv:"equity"`
	BenchmarkEquity      float64 `csv:"benchmark_equity"`
	DrawdownPct          float64 `csv:"drawdown_pct"`
	BenchmarkDrawdownPct float64 `csv:"benchmark_drawdown_pct"`
}

// newExportResultCmd exports the full equity curve (strategy + benchmark)
// for downstream charting tools.
func newExportResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Export a backtest's equity curve to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			cfgPath, _ := cmd.Flags().GetString("ruleset")
			candlesPath, _ := cmd.Flags().GetString("candles")
			outPath, _ := cmd.Flags().GetString("output")
			if cfgPath == "" || candlesPath == "" || outPath == "" {
				return fmt.Errorf("--ruleset, --candles, and --output are all required")
			}

			cfg, err := loadBacktestConfig(cfgPath)
			if err != nil {
				return err
			}
			candles, err := loadCandlesCSV(candlesPath)
			if err != nil {
				return err
			}
			result := backtest.Run(cfg, candles)

			rows := make([]exportEquityRow, len(result.EquityCurve))
			for i, e := range result.EquityCurve {
				rows[i] = exportEquityRow{
					Date:                 e.Date,
					Equity:               e.Equity,
					BenchmarkEquity:      e.BenchmarkEquity,
					DrawdownPct:          e.DrawdownPct,
					BenchmarkDrawdownPct: e.BenchmarkDrawdownPct,
				}
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()

			if err := gocsv.MarshalFile(&rows, f); err != nil {
				return fmt.Errorf("writing equity curve: %w", err)
			}

			output.Success("Exported %d equity points to %s", len(rows), outPath)
			return nil
		},
	}
	cmd.Flags().String("ruleset", "", "path to a rule set / backtest config JSON file")
	cmd.Flags().String("candles", "", "path to a daily OHLCV candle CSV file")
	cmd.Flags().String("output", "result.csv", "output CSV path")
	return cmd
}
