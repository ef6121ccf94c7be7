// Package pipeline implements the aggregation pipeline: per-ticker fetch,
// normalization, the three summary projections, and text rendering. One run
// is a pure linear pass with no state carried between invocations.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// TransactionFetcher retrieves insider transactions for one symbol from an
// external API.
type TransactionFetcher interface {
	InsiderTransactions(ctx context.Context, symbol string, from, to time.Time) ([]domain.RawTransaction, error)
}

// FetchFailure records a single ticker whose fetch did not succeed. Failures
// are diagnostics, not errors: the run is not considered failed because some
// tickers yielded nothing.
type FetchFailure struct {
	Ticker string
	Err    error
}

// Fetcher retrieves insider transactions for a list of tickers, skipping
// individual failures.
type Fetcher struct {
	client TransactionFetcher
	logger *slog.Logger
}

// NewFetcher creates a Fetcher backed by the given transaction source.
func NewFetcher(client TransactionFetcher, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: logger.With(slog.String("component", "fetcher")),
	}
}

// Fetch issues one bounded request per ticker for the trailing window
// [now-daysBack, now] and merges all results into one flat collection,
// preserving ticker iteration order. A single ticker's failure never aborts
// the batch; failed tickers are returned alongside the successes. Only
// cancellation of ctx stops the sweep early, in which case the remaining
// tickers are not attempted.
func (f *Fetcher) Fetch(ctx context.Context, tickers []string, daysBack int) ([]domain.RawTransaction, []FetchFailure) {
	now := time.Now()
	from := now.AddDate(0, 0, -daysBack)

	var all []domain.RawTransaction
	var failures []FetchFailure

	for _, ticker := range tickers {
		if ctx.Err() != nil {
			break
		}

		records, err := f.client.InsiderTransactions(ctx, ticker, from, now)
		if err != nil {
			f.logger.WarnContext(ctx, "ticker fetch failed, skipping",
				slog.String("ticker", ticker),
				slog.String("error", err.Error()),
			)
			failures = append(failures, FetchFailure{Ticker: ticker, Err: err})
			continue
		}

		all = append(all, records...)
	}

	f.logger.InfoContext(ctx, "fetch sweep complete",
		slog.Int("tickers", len(tickers)),
		slog.Int("records", len(all)),
		slog.Int("failures", len(failures)),
	)

	return all, failures
}
