package strategy

import (
	"time"

	"github.com/google/uuid"

	"FXSentinel/internal/calculator"
	"FXSentinel/internal/model"
)

const (
	// MinBars is the shortest series the engine will score.
	MinBars = 50
	// DefaultThreshold is the absolute strength needed for a STRONG call.
	DefaultThreshold = 3
	// MinLotSize is returned when no meaningful size can be computed.
	MinLotSize = 0.01
	// pipsPerUnit assumes a fixed $10 per pip per standard lot.
	pipsPerUnit = 10000
)

// Engine applies the signal decision rule. It holds no state between
// evaluations; identical inputs produce identical results apart from ID and
// timestamp.
type Engine struct {
	Threshold int
	Levels    calculator.LevelStrategy
	// HoldLevels opts in to buy-side stop-loss/take-profit on HOLD.
	HoldLevels bool
	Now        func() time.Time
}

// NewEngine creates an Engine, defaulting the threshold and level strategy.
func NewEngine(threshold int, levels calculator.LevelStrategy, holdLevels bool) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if levels == nil {
		levels = calculator.ExtremaLevels{}
	}
	return &Engine{Threshold: threshold, Levels: levels, HoldLevels: holdLevels, Now: time.Now}
}

func (e *Engine) newResult(pair string) model.SignalResult {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return model.SignalResult{
		ID:             uuid.NewString(),
		Pair:           pair,
		Classification: model.Hold,
		PositionSize:   MinLotSize,
		GeneratedAt:    now(),
	}
}

// Degraded builds the HOLD result returned when the price table could not be
// obtained at all.
func (e *Engine) Degraded(pair string, reason model.DegradeReason) model.SignalResult {
	res := e.newResult(pair)
	res.Degraded = reason
	switch reason {
	case model.MalformedData:
		res.Reasons = []string{"malformed data"}
	case model.InsufficientData:
		res.Reasons = []string{"insufficient data"}
	default:
		res.Reasons = []string{"no data"}
	}
	return res
}

// Evaluate scores series against the decision rule and sizes the trade from
// live and risk. A nil live rate yields a degraded HOLD without levels.
func (e *Engine) Evaluate(series model.PriceSeries, live *float64, risk model.RiskConfig) model.SignalResult {
	res := e.newResult(series.Pair)
	if last, ok := series.Last(); ok {
		res.Close = last.Close
	}
	if series.Len() < MinBars {
		res.Degraded = model.InsufficientData
		res.Reasons = []string{"insufficient data"}
		return res
	}
	if live != nil {
		v := *live
		res.LiveRate = &v
	}

	levels := e.Levels
	if levels == nil {
		levels = calculator.ExtremaLevels{}
	}
	ind := calculator.Compute(series, levels)
	last := series.Len() - 1
	atr := calculator.ATRAt(ind.ATR, last)
	res.Indicators = ind
	res.ATR = atr

	var reasons []string
	strength := 0
	if c, ok := scoreCross(ind.SMA20, ind.SMA50); ok {
		strength += c.Points
		reasons = append(reasons, c.Reason)
	}
	for _, c := range scoreProximity(res.Close, atr, ind.Support, ind.Resistance) {
		strength += c.Points
		reasons = append(reasons, c.Reason)
	}
	res.Strength = strength
	res.Classification = classify(strength, e.threshold())

	if res.LiveRate == nil {
		res.Classification = model.Hold
		res.Degraded = model.LiveRateUnavailable
		reasons = append(reasons, "live rate unavailable")
	} else {
		res.StopLoss, res.TakeProfit = levelsFor(res.Classification, *res.LiveRate, atr, risk.RewardRiskRatio, e.HoldLevels)
	}
	res.Reasons = reasons
	res.PositionSize = PositionSize(risk, atr)
	return res
}

func (e *Engine) threshold() int {
	if e.Threshold <= 0 {
		return DefaultThreshold
	}
	return e.Threshold
}

func classify(strength, threshold int) model.Classification {
	switch {
	case strength >= threshold:
		return model.StrongBuy
	case strength <= -threshold:
		return model.StrongSell
	default:
		return model.Hold
	}
}

// levelsFor returns stop-loss and take-profit around live. HOLD has none
// unless holdLevels asks for the buy-side pair.
func levelsFor(c model.Classification, live, atr, rr float64, holdLevels bool) (sl, tp *float64) {
	if c == model.Hold && holdLevels {
		c = model.StrongBuy
	}
	var s, t float64
	switch c {
	case model.StrongBuy:
		s, t = live-atr, live+rr*atr
	case model.StrongSell:
		s, t = live+atr, live-rr*atr
	default:
		return nil, nil
	}
	return &s, &t
}

// PositionSize returns lots as (balance * risk%) / (ATR * 10000), or
// MinLotSize when atr is not positive.
func PositionSize(risk model.RiskConfig, atr float64) float64 {
	if !(atr > 0) {
		return MinLotSize
	}
	return (risk.AccountBalance * risk.RiskPercent / 100) / (atr * pipsPerUnit)
}

// RiskReward reports reward over risk measured from the live rate.
func RiskReward(r model.SignalResult) (float64, bool) {
	if !r.HasLevels() || r.LiveRate == nil {
		return 0, false
	}
	risk := *r.LiveRate - *r.StopLoss
	if risk < 0 {
		risk = -risk
	}
	reward := *r.TakeProfit - *r.LiveRate
	if reward < 0 {
		reward = -reward
	}
	if risk == 0 {
		return 0, true
	}
	return reward / risk, true
}
