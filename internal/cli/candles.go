package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/vaibhavblayer/cryptobacktest/internal/models"
)

// candleRecord is the CSV row shape accepted by --candles: one daily OHLCV
// bar per line, timestamp in RFC3339 or YYYY-MM-DD.
type candleRecord struct {
	Timestamp string  `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

// loadCandlesCSV reads a candle series from a CSV file using gocsv's
// struct-tag unmarshaling, then parses each row's timestamp.
func loadCandlesCSV(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []candleRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, err
	}

	candles := make([]models.Candle, len(records))
	for i, r := range records {
		ts, err := models.ParseDate(r.Timestamp)
		if err != nil {
			return nil, err
		}
		candles[i] = models.Candle{Timestamp: ts, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume}
	}
	return candles, nil
}

// newCandlesCmd groups commands that populate and inspect the local candle
// cache backing --from-store.
func newCandlesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candles",
		Short: "Import and inspect cached candle history",
	}

	importCmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Load a candle CSV into the local store under --asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not initialized")
			}
			asset, _ := cmd.Flags().GetString("asset")
			if asset == "" {
				return fmt.Errorf("--asset is required")
			}

			candles, err := loadCandlesCSV(args[0])
			if err != nil {
				return fmt.Errorf("loading candles: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := app.Store.SaveCandles(ctx, asset, candles); err != nil {
				return fmt.Errorf("saving candles: %w", err)
			}
			output.Success("Imported %d candles for %s", len(candles), asset)
			return nil
		},
	}
	importCmd.Flags().String("asset", "", "asset symbol to store the candles under")
	cmd.AddCommand(importCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "freshness <asset>",
		Short: "Show the timestamp of the most recent cached candle for an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not initialized")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			ts, err := app.Store.GetCandlesFreshness(ctx, args[0])
			if err != nil {
				return err
			}
			if ts.IsZero() {
				if output.IsJSON() {
					return output.JSON(map[string]interface{}{"asset": args[0], "cached": false})
				}
				output.Printf("No cached candles for %s\n", args[0])
				return nil
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"asset": args[0], "cached": true, "latest": ts})
			}
			output.Printf("Latest cached candle for %s: %s\n", args[0], ts.Format(time.RFC3339))
			return nil
		},
	})

	return cmd
}

// loadCandlesFromStore reads cached candles for asset within [from, to] from
// the store, erroring if the store is unavailable.
func loadCandlesFromStore(app *App, asset string, from, to time.Time) ([]models.Candle, error) {
	if app.Store == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return app.Store.GetCandles(ctx, asset, from, to)
}
