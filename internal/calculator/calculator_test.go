package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FXSentinel/internal/model"
)

// rows builds price rows from closes, deriving high/low like the price table builder.
func rows(closes ...float64) []model.PricePoint {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		hi, lo := c, c
		for j := i - 4; j < i; j++ {
			if j < 0 {
				continue
			}
			hi = math.Max(hi, closes[j])
			lo = math.Min(lo, closes[j])
		}
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		out[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Open: open, High: hi, Low: lo, Close: c}
	}
	return out
}

func TestSMA_MatchesArithmeticMean(t *testing.T) {
	values := []float64{11, 12, 13, 14, 20, 16, 9, 10}
	for _, period := range []int{1, 3, 5} {
		sma, err := SMA(values, period)
		require.NoError(t, err)
		require.Len(t, sma, len(values))
		for i := range values {
			if i < period-1 {
				assert.True(t, math.IsNaN(sma[i]), "period %d index %d should be undefined", period, i)
				continue
			}
			sum := 0.0
			for _, v := range values[i-period+1 : i+1] {
				sum += v
			}
			assert.InDelta(t, sum/float64(period), sma[i], 1e-12, "period %d index %d", period, i)
		}
	}
}

func TestSMA_RejectsNonPositivePeriod(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestSMA_ShortInputAllUndefined(t *testing.T) {
	sma, err := SMA([]float64{1, 2, 3}, 20)
	require.NoError(t, err)
	for _, v := range sma {
		assert.True(t, math.IsNaN(v))
	}
}

func TestATR_ConstantWindowSpan(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 1.0 + float64(i)*0.001
	}
	atr, err := ATR(rows(closes...), 14)
	require.NoError(t, err)
	for i := 0; i < 13; i++ {
		assert.True(t, math.IsNaN(atr[i]))
	}
	// once the 5-bar window is full every true range equals 4 steps
	assert.InDelta(t, 0.004, atr[len(atr)-1], 1e-9)
}

func TestTrueRange_UsesPreviousClose(t *testing.T) {
	prev := model.PricePoint{Close: 1.0}
	cur := model.PricePoint{High: 1.3, Low: 1.2}
	assert.InDelta(t, 0.3, TrueRange(cur, &prev), 1e-12)
	assert.InDelta(t, 0.1, TrueRange(cur, nil), 1e-12)
}

func TestATRAt_Fallback(t *testing.T) {
	atr := []float64{math.NaN(), 0, -1, 0.004}
	assert.Equal(t, DefaultATR, ATRAt(atr, 0))
	assert.Equal(t, DefaultATR, ATRAt(atr, 1))
	assert.Equal(t, DefaultATR, ATRAt(atr, 2))
	assert.Equal(t, 0.004, ATRAt(atr, 3))
	assert.Equal(t, DefaultATR, ATRAt(atr, 9))
	assert.Equal(t, DefaultATR, ATRAt(nil, 0))
}

func TestRSI(t *testing.T) {
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(i)
	}
	rsi, err := RSI(rising, 14)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rsi[13]))
	assert.Equal(t, 100.0, rsi[29])

	flat := make([]float64, 20)
	rsi, err = RSI(flat, 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi[19])

	rsi, err = RSI([]float64{1, 2}, 14)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rsi[1]))
}

func TestTrailingRange(t *testing.T) {
	pts := rows(1, 5, 3, 2, 4, 6)
	high, low, err := TrailingRange(pts, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, high)
	assert.Equal(t, 1.0, low) // row 4 still spans the first close

	_, _, err = TrailingRange(nil, 10)
	assert.Error(t, err)
}

func TestNearest(t *testing.T) {
	l, ok := Nearest([]float64{1.0, 1.2, 1.5}, 1.31)
	require.True(t, ok)
	assert.Equal(t, 1.2, l)

	_, ok = Nearest(nil, 1)
	assert.False(t, ok)
}

func TestExtremaLevels(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 2.0 - float64(i)*0.01
	}
	support, resistance := ExtremaLevels{}.Levels(rows(closes...))
	require.Len(t, support, 1)
	require.Len(t, resistance, 1)
	// trailing 60 rows start at index 20
	assert.InDelta(t, closes[16], resistance[0], 1e-12)
	assert.InDelta(t, closes[79], support[0], 1e-12)
}

func TestLocalMaxima_Plateau(t *testing.T) {
	x := []float64{0, 1, 1, 1, 0, 2, 0, 3, 3}
	assert.Equal(t, []int{2, 5}, localMaxima(x))
}

func TestFilterPeaks_DistanceKeepsTaller(t *testing.T) {
	x := []float64{0, 5, 0, 4, 0, 0, 0, 0, 3, 0}
	assert.Equal(t, []int{1, 8}, filterPeaks(x, 0, 3))
	// prominence drops the small bump
	assert.Equal(t, []int{1, 3}, filterPeaks(x, 3.5, 1))
}

func TestPeakLevels_Oscillation(t *testing.T) {
	var closes []float64
	for cycle := 0; cycle < 6; cycle++ {
		for _, v := range []float64{1.10, 1.12, 1.14, 1.16, 1.18, 1.20, 1.18, 1.16, 1.14, 1.12} {
			closes = append(closes, v)
		}
	}
	support, resistance := PeakLevels{}.Levels(rows(closes...))
	require.NotEmpty(t, support)
	require.NotEmpty(t, resistance)
	assert.Equal(t, 1.2, resistance[0])
	assert.Equal(t, 1.1, support[0])
	assert.LessOrEqual(t, len(support), 3)
	assert.LessOrEqual(t, len(resistance), 3)
}

func TestPeakLevels_FallsBackToExtrema(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 1 + float64(i)*0.01
	}
	pts := rows(closes...)
	support, resistance := PeakLevels{}.Levels(pts)
	assert.Equal(t, []float64{pts[0].Low}, support)
	assert.Equal(t, []float64{pts[len(pts)-1].High}, resistance)
}

func TestCollapse_MinTouches(t *testing.T) {
	got := collapse([]float64{1.123451, 1.123449, 1.3}, 2)
	assert.Equal(t, []float64{1.12345}, got)
}

func TestLevelStrategyByName(t *testing.T) {
	s, err := LevelStrategyByName("")
	require.NoError(t, err)
	assert.Equal(t, "extrema", s.Name())

	s, err = LevelStrategyByName("peaks")
	require.NoError(t, err)
	assert.Equal(t, "peaks", s.Name())

	_, err = LevelStrategyByName("fibonacci")
	assert.Error(t, err)
}

func TestCompute(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 1 + float64(i)*0.001
	}
	set := Compute(model.PriceSeries{Pair: "EUR/USD", Points: rows(closes...)}, nil)
	assert.Equal(t, "extrema", set.Levels)
	assert.Len(t, set.SMA20, 60)
	assert.Len(t, set.SMA50, 60)
	assert.False(t, math.IsNaN(model.LastValue(set.SMA50)))
	assert.Greater(t, model.LastValue(set.SMA20), model.LastValue(set.SMA50))
	assert.NotEmpty(t, set.Support)
	assert.NotEmpty(t, set.Resistance)
}
