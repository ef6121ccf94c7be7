package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// UniverseResolver resolves the ordered constituent list for one run.
type UniverseResolver interface {
	Resolve(ctx context.Context) ([]string, error)
}

// Runner executes the full pipeline for one invocation: resolve the
// constituent universe, fetch transactions per ticker, normalize, and render
// the summary. It holds no state across runs and is safe to invoke
// concurrently with independent runs.
type Runner struct {
	universe   UniverseResolver
	fetcher    *Fetcher
	maxTickers int // cap on tickers actually fetched; 0 = no cap
	logger     *slog.Logger
}

// NewRunner creates a Runner. maxTickers bounds the fetch sweep for
// rate-limited API plans; the full universe is still used for net-activity
// membership.
func NewRunner(universe UniverseResolver, fetcher *Fetcher, maxTickers int, logger *slog.Logger) *Runner {
	return &Runner{
		universe:   universe,
		fetcher:    fetcher,
		maxTickers: maxTickers,
		logger:     logger.With(slog.String("component", "pipeline")),
	}
}

// Run performs one end-to-end pass for the trailing daysBack window. It
// returns a terminal error only for whole-phase failures (a structural break
// in the constituent source, or cancellation); per-ticker fetch failures are
// recorded in the report instead.
func (r *Runner) Run(ctx context.Context, daysBack int) (*Report, error) {
	runID := uuid.NewString()
	log := r.logger.With(slog.String("run_id", runID))
	start := time.Now()

	log.InfoContext(ctx, "pipeline run starting", slog.Int("days_back", daysBack))

	tickers, err := r.universe.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	fetchList := tickers
	if r.maxTickers > 0 && len(fetchList) > r.maxTickers {
		fetchList = fetchList[:r.maxTickers]
	}

	raw, failures := r.fetcher.Fetch(ctx, fetchList, daysBack)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: fetch phase: %w", err)
	}

	now := time.Now()
	data := Normalize(raw, daysBack, now)
	summary := Summarize(data, UniverseSet(tickers))

	log.InfoContext(ctx, "pipeline run complete",
		slog.Int("universe", len(tickers)),
		slog.Int("fetched", len(fetchList)),
		slog.Int("raw_records", len(raw)),
		slog.Int("normalized", len(data)),
		slog.Int("fetch_failures", len(failures)),
		slog.Duration("duration", time.Since(start)),
	)

	return &Report{
		RunID:         runID,
		GeneratedAt:   now,
		DaysBack:      daysBack,
		Summary:       summary,
		Transactions:  data,
		FetchFailures: failures,
		UniverseSize:  len(tickers),
	}, nil
}
