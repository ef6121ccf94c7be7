// Package universe resolves the set of tickers the pipeline observes: the
// live S&P 500 constituent list when available, a static fallback otherwise.
package universe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// ConstituentFetcher retrieves the live constituent list from an external
// source.
type ConstituentFetcher interface {
	Constituents(ctx context.Context) ([]string, error)
}

// Resolver resolves the ticker universe with an explicit three-way outcome:
// live list on success, fallback list on transient failure, and a propagated
// error when the source's structure is unrecognized. The pipeline must never
// halt on an outage, but a structural break means the output would be built
// on wrong assumptions and has to surface.
type Resolver struct {
	fetcher  ConstituentFetcher
	fallback []string
	logger   *slog.Logger
}

// NewResolver creates a Resolver. fallback must contain at least one ticker.
func NewResolver(fetcher ConstituentFetcher, fallback []string, logger *slog.Logger) *Resolver {
	return &Resolver{
		fetcher:  fetcher,
		fallback: fallback,
		logger:   logger.With(slog.String("component", "universe")),
	}
}

// Resolve returns the current constituent list in source order.
func (r *Resolver) Resolve(ctx context.Context) ([]string, error) {
	symbols, err := r.fetcher.Constituents(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStructureChanged) {
			return nil, fmt.Errorf("universe: resolve constituents: %w", err)
		}
		r.logger.WarnContext(ctx, "constituent fetch failed, using fallback list",
			slog.String("error", err.Error()),
			slog.Int("fallback_size", len(r.fallback)),
		)
		out := make([]string, len(r.fallback))
		copy(out, r.fallback)
		return out, nil
	}

	r.logger.InfoContext(ctx, "fetched constituents", slog.Int("count", len(symbols)))
	return symbols, nil
}
