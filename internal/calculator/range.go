package calculator

import (
	"errors"
	"math"

	"FXSentinel/internal/model"
)

// TrailingRange scans the most recent window rows and returns the highest
// high and the lowest low.
func TrailingRange(points []model.PricePoint, window int) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no price rows provided")
	}
	n := len(points)
	start := 0
	if window > 0 && n > window {
		start = n - window
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if points[i].High > high {
			high = points[i].High
		}
		if points[i].Low < low {
			low = points[i].Low
		}
	}
	return high, low, nil
}

// Nearest returns the level closest to price. ok is false when levels is empty.
func Nearest(levels []float64, price float64) (level float64, ok bool) {
	best := math.Inf(1)
	for _, l := range levels {
		if d := math.Abs(price - l); d < best {
			best = d
			level = l
			ok = true
		}
	}
	return level, ok
}
