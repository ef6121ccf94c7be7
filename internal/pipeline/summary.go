package pipeline

import (
	"math"
	"sort"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// Aggregation policy. The threshold and caps bound the rendered summary
// regardless of input size.
const (
	netActivityThreshold = 10_000
	maxNetEntries        = 10
	maxListEntries       = 20
)

// View holds the three read-only projections computed from one run's
// normalized transactions. It is computed once per run and never persisted.
type View struct {
	Net   []domain.NetActivity
	Buys  []domain.Transaction
	Sells []domain.Transaction
}

// UniverseSet builds the canonical membership set used to restrict the
// net-activity projection.
func UniverseSet(tickers []string) map[string]bool {
	set := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		set[domain.CanonicalTicker(t)] = true
	}
	return set
}

// BuildView computes the net-activity, buy, and sell projections. The
// universe set restricts only the net-activity grouping; the buy and sell
// lists consider every record. All sorts are stable so records with equal
// keys keep their input order.
func BuildView(data []domain.Transaction, universe map[string]bool) View {
	var v View

	// Net per-ticker activity, first-seen ticker order before sorting.
	sums := make(map[string]float64)
	var order []string
	for _, tx := range data {
		if !universe[tx.Ticker] {
			continue
		}
		if _, ok := sums[tx.Ticker]; !ok {
			order = append(order, tx.Ticker)
		}
		sums[tx.Ticker] += tx.Shares
	}
	for _, ticker := range order {
		if math.Abs(sums[ticker]) >= netActivityThreshold {
			v.Net = append(v.Net, domain.NetActivity{Ticker: ticker, Shares: sums[ticker]})
		}
	}
	sort.SliceStable(v.Net, func(i, j int) bool {
		return math.Abs(v.Net[i].Shares) > math.Abs(v.Net[j].Shares)
	})
	if len(v.Net) > maxNetEntries {
		v.Net = v.Net[:maxNetEntries]
	}

	// Recent buys: positive delta or purchase code.
	for _, tx := range data {
		if tx.Shares > 0 || tx.Code == domain.CodePurchase {
			v.Buys = append(v.Buys, tx)
		}
	}
	sortByFilingDateDesc(v.Buys)
	if len(v.Buys) > maxListEntries {
		v.Buys = v.Buys[:maxListEntries]
	}

	// Recent sells: negative delta or sale code.
	for _, tx := range data {
		if tx.Shares < 0 || tx.Code == domain.CodeSale {
			v.Sells = append(v.Sells, tx)
		}
	}
	sortByFilingDateDesc(v.Sells)
	if len(v.Sells) > maxListEntries {
		v.Sells = v.Sells[:maxListEntries]
	}

	return v
}

// Summarize renders the complete summary text for one run. It is a pure
// function of its inputs: identical data and universe yield byte-identical
// output.
func Summarize(data []domain.Transaction, universe map[string]bool) string {
	if len(data) == 0 {
		return noActivityMessage
	}
	return Render(BuildView(data, universe))
}

func sortByFilingDateDesc(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].FilingDate.After(txs[j].FilingDate)
	})
}
