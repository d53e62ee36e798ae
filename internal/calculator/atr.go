package calculator

import (
	"errors"
	"math"

	"FXSentinel/internal/model"
)

// DefaultATR substitutes for an undefined ATR. It is sized for pairs quoted
// to four or five decimals.
const DefaultATR = 0.001

// TrueRange returns max(h-l, |h-prevClose|, |l-prevClose|), or h-l when there
// is no previous bar.
func TrueRange(cur model.PricePoint, prev *model.PricePoint) float64 {
	if prev == nil {
		return cur.High - cur.Low
	}
	return math.Max(cur.High-cur.Low,
		math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
}

// ATR computes the average true range series as a trailing simple mean of
// true ranges. Entries before index period-1 are NaN.
func ATR(points []model.PricePoint, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	tr := make([]float64, len(points))
	for i := range points {
		var prev *model.PricePoint
		if i > 0 {
			prev = &points[i-1]
		}
		tr[i] = TrueRange(points[i], prev)
	}
	return SMA(tr, period)
}

// ATRAt returns atr[i], falling back to DefaultATR when the value is missing,
// NaN or not positive.
func ATRAt(atr []float64, i int) float64 {
	if i < 0 || i >= len(atr) {
		return DefaultATR
	}
	v := atr[i]
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return DefaultATR
	}
	return v
}
