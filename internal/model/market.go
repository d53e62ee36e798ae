package model

import "time"

// PricePoint is one daily row of the price table. Close is the fetched rate;
// Open, High and Low are derived from neighbouring closes.
type PricePoint struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// PriceSeries holds chronologically ordered daily rows for one pair.
type PriceSeries struct {
	Pair   string
	Points []PricePoint
}

// Len returns the number of rows.
func (s PriceSeries) Len() int { return len(s.Points) }

// Last returns the most recent row. ok is false for an empty series.
func (s PriceSeries) Last() (p PricePoint, ok bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Closes extracts the close column.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Tail returns a series holding at most the last n rows.
func (s PriceSeries) Tail(n int) PriceSeries {
	if n <= 0 || n >= len(s.Points) {
		return s
	}
	return PriceSeries{Pair: s.Pair, Points: s.Points[len(s.Points)-n:]}
}
