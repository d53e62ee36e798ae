package model

import "time"

// Classification is the discrete signal outcome.
type Classification string

const (
	StrongBuy  Classification = "STRONG_BUY"
	StrongSell Classification = "STRONG_SELL"
	Hold       Classification = "HOLD"
)

// Label renders the classification for humans.
func (c Classification) Label() string {
	switch c {
	case StrongBuy:
		return "STRONG BUY"
	case StrongSell:
		return "STRONG SELL"
	default:
		return "HOLD"
	}
}

// Actionable reports whether the classification warrants an alert.
func (c Classification) Actionable() bool {
	return c == StrongBuy || c == StrongSell
}

// DegradeReason explains why a result was downgraded to a plain HOLD.
type DegradeReason string

const (
	NotDegraded         DegradeReason = ""
	InsufficientData    DegradeReason = "insufficient_data"
	NoData              DegradeReason = "no_data"
	MalformedData       DegradeReason = "malformed_data"
	LiveRateUnavailable DegradeReason = "live_rate_unavailable"
)

// TriggerType indicates what produced the signal.
type TriggerType string

const (
	TriggerManual TriggerType = "MANUAL"
	TriggerSweep  TriggerType = "SWEEP"
)

// SignalResult is the output of the signal engine. It is built once and
// returned by value; nothing mutates it afterwards.
type SignalResult struct {
	ID             string
	Pair           string
	Classification Classification
	Strength       int
	Close          float64
	LiveRate       *float64
	StopLoss       *float64
	TakeProfit     *float64
	PositionSize   float64
	ATR            float64
	Reasons        []string
	Degraded       DegradeReason
	Indicators     IndicatorSet
	GeneratedAt    time.Time
}

// HasLevels reports whether both stop-loss and take-profit are set.
func (r SignalResult) HasLevels() bool {
	return r.StopLoss != nil && r.TakeProfit != nil
}
