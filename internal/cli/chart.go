package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaibhavblayer/cryptobacktest/internal/backtest"
)

func newChartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a backtest's equity curve as an ASCII chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("ruleset")
			candlesPath, _ := cmd.Flags().GetString("candles")
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			if cfgPath == "" || candlesPath == "" {
				return fmt.Errorf("--ruleset and --candles are both required")
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
			output := NewOutput(cmd)
			output.Println(backtest.GenerateEquityCurveASCII(result, width, height))
			return nil
		},
	}

	cmd.Flags().String("ruleset", "", "path to a rule set / backtest config JSON file")
	cmd.Flags().String("candles", "", "path to a daily OHLCV candle CSV file")
	cmd.Flags().Int("width", 80, "chart width in characters")
	cmd.Flags().Int("height", 20, "chart height in characters")
	return cmd
}
