package calculator

import (
	"log"

	"FXSentinel/internal/model"
)

const (
	FastPeriod = 20
	SlowPeriod = 50
	ATRPeriod  = 14
	RSIPeriod  = 14
)

// Compute builds the full indicator set for a price series. Indicators that
// cannot be computed are left empty; callers check before use.
func Compute(series model.PriceSeries, levels LevelStrategy) model.IndicatorSet {
	if levels == nil {
		levels = ExtremaLevels{}
	}
	closes := series.Closes()
	set := model.IndicatorSet{Levels: levels.Name()}

	var err error
	if set.SMA20, err = SMA(closes, FastPeriod); err != nil {
		log.Printf("[WARN] %s SMA%d: %v", series.Pair, FastPeriod, err)
	}
	if set.SMA50, err = SMA(closes, SlowPeriod); err != nil {
		log.Printf("[WARN] %s SMA%d: %v", series.Pair, SlowPeriod, err)
	}
	if set.ATR, err = ATR(series.Points, ATRPeriod); err != nil {
		log.Printf("[WARN] %s ATR%d: %v", series.Pair, ATRPeriod, err)
	}
	if set.RSI, err = RSI(closes, RSIPeriod); err != nil {
		log.Printf("[WARN] %s RSI%d: %v", series.Pair, RSIPeriod, err)
	}
	set.Support, set.Resistance = levels.Levels(series.Points)
	return set
}
