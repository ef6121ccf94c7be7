package pipeline

import (
	"fmt"
	"time"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// Normalize converts raw filing records into the normalized, deduplicated,
// window-filtered collection the aggregator consumes. Steps run in a fixed
// order: canonicalize the ticker, parse dates, coerce the share delta,
// deduplicate on (ticker, filing date, insider name, delta) with the first
// occurrence in input order winning, then keep only records whose filing
// date falls within [now-daysBack, now]. Records with an unparseable filing
// date survive dedup but are dropped at the filter step.
//
// An empty result is a valid state, not an error.
func Normalize(raw []domain.RawTransaction, daysBack int, now time.Time) []domain.Transaction {
	cutoff := now.AddDate(0, 0, -daysBack)

	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.Transaction, 0, len(raw))

	for i := range raw {
		r := &raw[i]

		tx := domain.Transaction{
			Ticker:          domain.CanonicalTicker(r.Symbol),
			InsiderName:     r.Name,
			FilingDate:      parseDate(r.FilingDate),
			TransactionDate: parseDate(r.TransactionDate),
			Code:            r.TransactionCode,
			Price:           r.TransactionPrice,
			Holding:         r.Share,
		}
		// Missing or invalid delta coerces to zero; the record is kept since
		// it may still carry informational fields.
		if r.Change != nil {
			tx.Shares = *r.Change
		}

		key := dedupKey(tx)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if tx.FilingDate.IsZero() {
			continue
		}
		if tx.FilingDate.Before(cutoff) || tx.FilingDate.After(now) {
			continue
		}

		out = append(out, tx)
	}

	return out
}

// parseDate parses a source date string. The source emits either plain dates
// or "YYYY-MM-DD HH:MM:SS" timestamps; only the date part is significant.
// Unparseable input yields the zero time sentinel ("unknown") rather than an
// error.
func parseDate(s string) time.Time {
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// dedupKey builds the composite key (ticker, filing date, insider name,
// delta) for duplicate detection. Unknown filing dates share one bucket so
// repeated undated duplicates still collapse.
func dedupKey(tx domain.Transaction) string {
	date := "unknown"
	if !tx.FilingDate.IsZero() {
		date = tx.FilingDate.Format("2006-01-02")
	}
	return fmt.Sprintf("%s|%s|%s|%.4f", tx.Ticker, date, tx.InsiderName, tx.Shares)
}
