package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FXSentinel/internal/calculator"
	"FXSentinel/internal/model"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func makeSeries(n int) model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := model.PriceSeries{Pair: "EUR/USD"}
	for i := 0; i < n; i++ {
		c := 1.08 + 0.002*float64(i%10) - 0.001*float64(i%3)
		s.Points = append(s.Points, model.PricePoint{
			Date: start.AddDate(0, 0, i), Open: c, High: c + 0.001, Low: c - 0.001, Close: c,
		})
	}
	return s
}

func TestRender_PNG(t *testing.T) {
	s := makeSeries(120)
	png, err := Render(s, calculator.Compute(s, calculator.ExtremaLevels{}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRender_ShortSeriesWithoutSlowAverage(t *testing.T) {
	s := makeSeries(25)
	png, err := Render(s, calculator.Compute(s, calculator.PeakLevels{}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRender_TooShort(t *testing.T) {
	s := makeSeries(MinBars - 1)
	_, err := Render(s, model.IndicatorSet{})
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestColumn(t *testing.T) {
	assert.Nil(t, column([]float64{1, 2}, 0, 3))
	assert.Equal(t, []float64{2, 3}, column([]float64{1, 2, 3}, 1, 3))
}
