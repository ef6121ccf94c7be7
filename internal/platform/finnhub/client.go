// Package finnhub is the REST client for the Finnhub insider-transactions
// API.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// Client is the Finnhub API client. It rate-limits its own requests so a
// full-universe sweep stays inside the per-minute quota of the API plan.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Finnhub client.
//
// baseURL is the API root, e.g. "https://finnhub.io/api/v1". ratePerMinute
// bounds outgoing request frequency; timeout bounds each individual request.
func NewClient(baseURL, apiKey string, timeout time.Duration, ratePerMinute int) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), 1),
	}
}

// InsiderTransactions returns the insider-transaction records disclosed for
// symbol between from and to (inclusive, date precision).
func (c *Client) InsiderTransactions(ctx context.Context, symbol string, from, to time.Time) ([]domain.RawTransaction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("finnhub: rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("token", c.apiKey)

	path := "/stock/insider-transactions?" + params.Encode()

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("finnhub: insider transactions %s: %w", symbol, err)
	}

	var apiResp APIInsiderResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("finnhub: decode insider transactions %s: %w", symbol, err)
	}

	records := make([]domain.RawTransaction, 0, len(apiResp.Data))
	for i := range apiResp.Data {
		records = append(records, apiResp.Data[i].ToDomain())
	}

	return records, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet sends a GET request to the Finnhub API and returns the raw body.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	return body, nil
}

// truncate bounds an error-body snippet so a large HTML error page never
// floods the logs.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
