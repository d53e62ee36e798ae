package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public frankfurter.app endpoint.
const DefaultBaseURL = "https://api.frankfurter.app"

// FrankfurterFetcher implements Fetcher using the frankfurter.app REST API.
type FrankfurterFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFrankfurterFetcher creates a new fetcher with optional proxy support.
func NewFrankfurterFetcher(baseURL, proxyURL string, timeout time.Duration) *FrankfurterFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FrankfurterFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *FrankfurterFetcher) Name() string { return "frankfurter" }

func (f *FrankfurterFetcher) FetchLiveRate(ctx context.Context, base, quote string) (float64, error) {
	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s", f.BaseURL, url.QueryEscape(base), url.QueryEscape(quote))
	var result struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := f.getJSON(ctx, endpoint, &result); err != nil {
		return 0, fmt.Errorf("live rate %s/%s: %w", base, quote, err)
	}
	if result.Rates == nil {
		return 0, fmt.Errorf("live rate %s/%s: %w: missing rates", base, quote, ErrMalformed)
	}
	rate, ok := result.Rates[quote]
	if !ok {
		return 0, fmt.Errorf("live rate %s/%s: %w", base, quote, ErrNoData)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("live rate %s/%s: %w: rate %v", base, quote, ErrMalformed, rate)
	}
	return rate, nil
}

func (f *FrankfurterFetcher) FetchHistory(ctx context.Context, base, quote string, start, end time.Time) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/%s..%s?from=%s&to=%s", f.BaseURL,
		start.Format(dateLayout), end.Format(dateLayout), url.QueryEscape(base), url.QueryEscape(quote))
	var result struct {
		Rates map[string]map[string]float64 `json:"rates"`
	}
	if err := f.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("history %s/%s: %w", base, quote, err)
	}
	if result.Rates == nil {
		return nil, fmt.Errorf("history %s/%s: %w: missing rates", base, quote, ErrMalformed)
	}
	out := make(map[string]float64, len(result.Rates))
	for date, currencies := range result.Rates {
		if rate, ok := currencies[quote]; ok {
			out[date] = rate
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("history %s/%s: %w", base, quote, ErrNoData)
	}
	return out, nil
}

func (f *FrankfurterFetcher) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoData, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrNoData, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d, body: %s", ErrNoData, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrMalformed, err)
	}
	return nil
}
