// Package wikipedia fetches the current S&P 500 constituent list from the
// public Wikipedia page listing.
package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// userAgent is sent with every page request; the page returns 403 for
// requests without a browser-like User-Agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36"

// Client is the HTTP client for the constituent page.
type Client struct {
	pageURL    string
	httpClient *http.Client
}

// NewClient creates a new constituent-page client.
//
// pageURL is the full page URL, e.g.
// "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies".
func NewClient(pageURL string) *Client {
	return &Client{
		pageURL: pageURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Constituents fetches the page and parses the constituents table, returning
// ticker symbols in document order with the class-share separator normalized
// ("BRK.B" -> "BRK-B").
//
// A success response whose expected table element is missing returns an error
// wrapping domain.ErrStructureChanged; callers must treat that as a parsing
// contract break, not a transient outage.
func (c *Client) Constituents(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: parse document: %w", err)
	}

	table := doc.Find("table#constituents")
	if table.Length() == 0 {
		return nil, fmt.Errorf("wikipedia: %w", domain.ErrStructureChanged)
	}

	var symbols []string
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		sym := strings.TrimSpace(row.Find("td").First().Text())
		if sym == "" {
			return // header row or empty cell
		}
		symbols = append(symbols, domain.NormalizeClassShares(sym))
	})

	if len(symbols) == 0 {
		return nil, fmt.Errorf("wikipedia: empty constituent table: %w", domain.ErrStructureChanged)
	}

	return symbols, nil
}
