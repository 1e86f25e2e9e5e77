// Package indicators computes the closed set of technical indicators named
// by spec §3/§4: SMA, EMA, RSI, MACD, Bollinger Bands, ATR and pct_change.
// Every function returns a series the same length as its input, using Value
// to mark warm-up positions explicitly rather than overloading zero — a
// legitimately-zero indicator reading (a zero MACD histogram, a zero percent
// change) must never be mistaken for "not yet computable".
package indicators

// Value is an indicator reading that may be undefined during warm-up.
type Value struct {
	V     float64
	Valid bool
}

// Missing is the zero Value: undefined, e.g. during an indicator's warm-up.
func Missing() Value { return Value{} }

// Of wraps v as a defined Value.
func Of(v float64) Value { return Value{V: v, Valid: true} }

// Series is a same-length-as-input sequence of indicator readings.
type Series []Value

func newSeries(n int) Series { return make(Series, n) }
