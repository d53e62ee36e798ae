package collector

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoData means the provider was unreachable or returned nothing usable.
	ErrNoData = errors.New("no data")
	// ErrMalformed means the provider answered with an unexpected shape.
	ErrMalformed = errors.New("malformed data")
)

// Fetcher defines the interface for fetching exchange rates.
type Fetcher interface {
	// FetchLiveRate returns the latest quote-per-base rate.
	FetchLiveRate(ctx context.Context, base, quote string) (float64, error)
	// FetchHistory returns daily rates keyed by "2006-01-02" for the inclusive range.
	FetchHistory(ctx context.Context, base, quote string, start, end time.Time) (map[string]float64, error)
	Name() string
}
