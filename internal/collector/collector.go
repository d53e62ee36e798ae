package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"FXSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Live    map[string]float64            // keyed by "BASE/QUOTE"
	History map[string]map[string]float64 // keyed by "BASE/QUOTE"
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchLiveRate(_ context.Context, base, quote string) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if r, ok := m.Live[base+"/"+quote]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("mock %s/%s: %w", base, quote, ErrNoData)
}

func (m *MockFetcher) FetchHistory(_ context.Context, base, quote string, _, _ time.Time) (map[string]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if h, ok := m.History[base+"/"+quote]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("mock %s/%s: %w", base, quote, ErrNoData)
}

// Collector orchestrates rate fetching and price table building.
type Collector struct {
	Fetcher     Fetcher
	HistoryDays int
	Now         func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, historyDays int) *Collector {
	if historyDays <= 0 {
		historyDays = 365
	}
	return &Collector{Fetcher: fetcher, HistoryDays: historyDays, Now: time.Now}
}

// History fetches [today-HistoryDays, today] and builds the price table.
func (c *Collector) History(ctx context.Context, pair model.CurrencyPair) (model.PriceSeries, error) {
	end := c.Now()
	start := end.AddDate(0, 0, -c.HistoryDays)
	rates, err := c.Fetcher.FetchHistory(ctx, pair.Base, pair.Quote, start, end)
	if err != nil {
		return model.PriceSeries{Pair: pair.Name}, fmt.Errorf("fetch history: %w", err)
	}
	return BuildSeries(pair.Name, rates)
}

// LiveRate returns the current rate for pair, inverting the reciprocal pair's
// rate when the direct quote is unavailable.
func (c *Collector) LiveRate(ctx context.Context, pair model.CurrencyPair) (float64, error) {
	rate, err := c.Fetcher.FetchLiveRate(ctx, pair.Base, pair.Quote)
	if err == nil {
		return rate, nil
	}
	log.Printf("[WARN] live rate %s unavailable, trying reciprocal: %v", pair.Name, err)
	rev := pair.Reciprocal()
	inv, invErr := c.Fetcher.FetchLiveRate(ctx, rev.Base, rev.Quote)
	if invErr != nil {
		return 0, fmt.Errorf("direct: %w; reciprocal: %w", err, invErr)
	}
	if inv == 0 {
		return 0, fmt.Errorf("reciprocal %s: %w: zero rate", pair.Name, ErrMalformed)
	}
	return 1 / inv, nil
}

// Classify maps a collector error onto the reason a signal was degraded.
func Classify(err error) model.DegradeReason {
	switch {
	case err == nil:
		return model.NotDegraded
	case errors.Is(err, ErrMalformed):
		return model.MalformedData
	default:
		return model.NoData
	}
}
