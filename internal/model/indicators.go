package model

import "math"

// IndicatorSet holds the per-request indicator columns, aligned with the
// price series rows. NaN marks a value that is not yet defined.
type IndicatorSet struct {
	SMA20      []float64
	SMA50      []float64
	ATR        []float64
	RSI        []float64
	Support    []float64
	Resistance []float64
	Levels     string // name of the support/resistance strategy used
}

// LastValue returns the final element of col, or NaN when col is empty.
func LastValue(col []float64) float64 {
	if len(col) == 0 {
		return math.NaN()
	}
	return col[len(col)-1]
}
