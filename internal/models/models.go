// Package models provides the shared domain types consumed throughout the
// backtesting engine.
package models

import "time"

// dateLayout is the canonical YYYY-MM-DD wire format for candle/trade dates.
const dateLayout = "2006-01-02"

// Candle represents one daily OHLCV bar. Inputs are assumed monotonically
// non-decreasing in Timestamp, one candle per calendar day.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Date formats the candle's timestamp as the canonical YYYY-MM-DD string
// used in every external-facing record (trades, equity points, audit).
func (c Candle) Date() string {
	return c.Timestamp.Format(dateLayout)
}

// ParseDate parses the canonical YYYY-MM-DD wire format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
