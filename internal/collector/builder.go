package collector

import (
	"fmt"
	"math"
	"sort"
	"time"

	"FXSentinel/internal/model"
)

const (
	dateLayout = "2006-01-02"
	// rangeWindow is the trailing window used to derive high and low.
	rangeWindow = 5
)

// BuildSeries turns a sparse date->rate history into an ordered daily price
// table. Each rate becomes a close; open is the previous close and high/low
// are the max/min close of the trailing 5-row window. Rows lacking a derived
// value are dropped, so N rates yield N-4 rows.
func BuildSeries(pair string, rates map[string]float64) (model.PriceSeries, error) {
	series := model.PriceSeries{Pair: pair}
	if len(rates) == 0 {
		return series, fmt.Errorf("%s: %w", pair, ErrNoData)
	}

	type dated struct {
		date  time.Time
		close float64
	}
	raw := make([]dated, 0, len(rates))
	for key, rate := range rates {
		d, err := time.Parse(dateLayout, key)
		if err != nil {
			return series, fmt.Errorf("%s: %w: date %q", pair, ErrMalformed, key)
		}
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return series, fmt.Errorf("%s: %w: rate %v on %s", pair, ErrMalformed, rate, key)
		}
		raw = append(raw, dated{date: d, close: rate})
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i].date.Before(raw[j].date) })

	for i := rangeWindow - 1; i < len(raw); i++ {
		high, low := math.Inf(-1), math.Inf(1)
		for j := i - rangeWindow + 1; j <= i; j++ {
			high = math.Max(high, raw[j].close)
			low = math.Min(low, raw[j].close)
		}
		series.Points = append(series.Points, model.PricePoint{
			Date:  raw[i].date,
			Open:  raw[i-1].close,
			High:  high,
			Low:   low,
			Close: raw[i].close,
		})
	}
	return series, nil
}
