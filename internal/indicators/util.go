package indicators

import (
	"math"

	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var variance float64
	for _, v := range values {
		d := v - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func trueRange(current, previous models.Candle) float64 {
	highLow := current.High - current.Low
	highClose := abs(current.High - previous.Close)
	lowClose := abs(current.Low - previous.Close)
	return math.Max(highLow, math.Max(highClose, lowClose))
}

// SourceSeries extracts the raw float64 series named by field from candles.
// An empty field defaults to close, matching IndicatorSpec's zero value.
func SourceSeries(candles []models.Candle, field ruleset.SourceField) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		switch field {
		case ruleset.SourceOpen:
			out[i] = c.Open
		case ruleset.SourceHigh:
			out[i] = c.High
		case ruleset.SourceLow:
			out[i] = c.Low
		case ruleset.SourceVolume:
			out[i] = c.Volume
		default:
			out[i] = c.Close
		}
	}
	return out
}
