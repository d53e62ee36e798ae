package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FXSentinel/internal/model"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *FrankfurterFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFrankfurterFetcher(srv.URL, "", 5*time.Second)
}

func TestFrankfurter_LiveRate(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("from"))
		assert.Equal(t, "USD", r.URL.Query().Get("to"))
		fmt.Fprint(w, `{"amount":1.0,"base":"EUR","date":"2026-10-16","rates":{"USD":1.0845}}`)
	})
	rate, err := f.FetchLiveRate(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, 1.0845, rate)
}

func TestFrankfurter_LiveRateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `oops`, ErrNoData},
		{"not found", http.StatusNotFound, `{"message":"not found"}`, ErrNoData},
		{"bad json", http.StatusOK, `{"rates":`, ErrMalformed},
		{"missing rates", http.StatusOK, `{"message":"hi"}`, ErrMalformed},
		{"quote absent", http.StatusOK, `{"rates":{"GBP":0.8}}`, ErrNoData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := f.FetchLiveRate(context.Background(), "EUR", "USD")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFrankfurter_History(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2026-01-01..2026-01-31", r.URL.Path)
		fmt.Fprint(w, `{"amount":1.0,"base":"EUR","start_date":"2026-01-02","end_date":"2026-01-30",
			"rates":{"2026-01-02":{"USD":1.09},"2026-01-05":{"USD":1.095},"2026-01-06":{"JPY":160.1}}}`)
	})
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	rates, err := f.FetchHistory(context.Background(), "EUR", "USD", start, end)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"2026-01-02": 1.09, "2026-01-05": 1.095}, rates)
}

func TestFrankfurter_HistoryEmpty(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rates":{}}`)
	})
	_, err := f.FetchHistory(context.Background(), "EUR", "USD", time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollector_History(t *testing.T) {
	mock := &MockFetcher{History: map[string]map[string]float64{
		"EUR/USD": consecutiveRates(60, 1.0, 0.001),
	}}
	col := NewCollector(mock, 365)
	pair, _ := model.LookupPair("EUR/USD")

	series, err := col.History(context.Background(), pair)
	require.NoError(t, err)
	assert.Equal(t, "EUR/USD", series.Pair)
	assert.Equal(t, 56, series.Len())

	gbp, _ := model.LookupPair("GBP/USD")
	_, err = col.History(context.Background(), gbp)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, model.NoData, Classify(err))
}

func TestCollector_LiveRateReciprocal(t *testing.T) {
	mock := &MockFetcher{Live: map[string]float64{"JPY/USD": 0.0064}}
	col := NewCollector(mock, 0)
	pair, _ := model.LookupPair("USD/JPY")

	rate, err := col.LiveRate(context.Background(), pair)
	require.NoError(t, err)
	assert.InDelta(t, 156.25, rate, 1e-9)

	eur, _ := model.LookupPair("EUR/USD")
	_, err = col.LiveRate(context.Background(), eur)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, model.NotDegraded, Classify(nil))
	assert.Equal(t, model.MalformedData, Classify(fmt.Errorf("x: %w", ErrMalformed)))
	assert.Equal(t, model.NoData, Classify(fmt.Errorf("x: %w", ErrNoData)))
	assert.Equal(t, model.NoData, Classify(context.DeadlineExceeded))
}
