package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriceSeries_Tail(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := PriceSeries{Pair: "EUR/USD"}
	for i := 0; i < 5; i++ {
		s.Points = append(s.Points, PricePoint{Date: start.AddDate(0, 0, i), Close: float64(i)})
	}

	tail := s.Tail(2)
	assert.Equal(t, "EUR/USD", tail.Pair)
	assert.Equal(t, 2, tail.Len())
	assert.Equal(t, 3.0, tail.Points[0].Close)

	assert.Equal(t, 5, s.Tail(10).Len())
	assert.Equal(t, 5, s.Tail(0).Len())
}

func TestCurrencyPair_Reciprocal(t *testing.T) {
	p, ok := LookupPair("USD/JPY")
	assert.True(t, ok)
	assert.Equal(t, CurrencyPair{Name: "JPY/USD", Base: "JPY", Quote: "USD"}, p.Reciprocal())

	_, ok = LookupPair("XXX/YYY")
	assert.False(t, ok)
}

func TestPairs_ReturnsCopy(t *testing.T) {
	ps := Pairs()
	assert.Len(t, ps, 7)
	ps[0].Name = "changed"
	assert.Equal(t, "EUR/USD", Pairs()[0].Name)
}
