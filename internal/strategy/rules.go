package strategy

import (
	"math"

	"FXSentinel/internal/calculator"
)

// contribution is one scored observation.
type contribution struct {
	Points int
	Reason string
}

// scoreCross checks for an SMA20/SMA50 crossover between the last two bars.
// Golden cross: +3. Death cross: -3.
func scoreCross(fast, slow []float64) (contribution, bool) {
	n := len(fast)
	if n < 2 || len(slow) != n {
		return contribution{}, false
	}
	prevFast, curFast := fast[n-2], fast[n-1]
	prevSlow, curSlow := slow[n-2], slow[n-1]
	for _, v := range []float64{prevFast, curFast, prevSlow, curSlow} {
		if math.IsNaN(v) {
			return contribution{}, false
		}
	}

	switch {
	case prevFast <= prevSlow && curFast > curSlow:
		return contribution{Points: 3, Reason: "Golden Cross"}, true
	case prevFast >= prevSlow && curFast < curSlow:
		return contribution{Points: -3, Reason: "Death Cross"}, true
	}
	return contribution{}, false
}

// scoreProximity rewards a close within one ATR of the nearest support (+2)
// and penalises one within one ATR of the nearest resistance (-2). Both may fire.
func scoreProximity(price, atr float64, support, resistance []float64) []contribution {
	var out []contribution
	if s, ok := calculator.Nearest(support, price); ok && math.Abs(price-s) <= atr {
		out = append(out, contribution{Points: 2, Reason: "near support"})
	}
	if r, ok := calculator.Nearest(resistance, price); ok && math.Abs(price-r) <= atr {
		out = append(out, contribution{Points: -2, Reason: "near resistance"})
	}
	return out
}
