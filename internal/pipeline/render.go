package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// Fixed report lines. Every section always renders, falling back to its
// "none found" line instead of disappearing.
const (
	noActivityMessage = "No recent insider transactions found."

	netHeader        = "Significant Net Activity in S&P 500:"
	noNetLine        = "No insider activity in S&P 500 recently."
	buysHeader       = "Recent Insider Acquisitions (Buys):"
	noBuysLine       = "No recent insider acquisitions found."
	sellsHeader      = "Recent Insider Dispositions (Sales):"
	noSellsLine      = "No recent insider dispositions found."
	unknownDateToken = "Unknown"
)

// Render produces the bounded summary text for a computed view: net-activity
// block, blank line, buy block, then the sell block with a leading blank
// separator.
func Render(v View) string {
	var b strings.Builder

	if len(v.Net) == 0 {
		b.WriteString(noNetLine)
		b.WriteString("\n\n")
	} else {
		b.WriteString(netHeader)
		b.WriteString("\n")
		for i, n := range v.Net {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(netLine(n))
		}
		b.WriteString("\n\n")
	}

	lines := []string{buysHeader}
	if len(v.Buys) > 0 {
		for _, tx := range v.Buys {
			lines = append(lines, entryLine(tx, "+"))
		}
	} else {
		lines = append(lines, noBuysLine)
	}

	lines = append(lines, "\n"+sellsHeader)
	if len(v.Sells) > 0 {
		for _, tx := range v.Sells {
			lines = append(lines, entryLine(tx, "-"))
		}
	} else {
		lines = append(lines, noSellsLine)
	}

	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// netLine renders one net-activity entry, e.g.
// "AAPL  → Net Buy 15,000 shares".
func netLine(n domain.NetActivity) string {
	direction := "Net Sell"
	if n.Shares > 0 {
		direction = "Net Buy"
	}
	return fmt.Sprintf("%-5s → %s %s shares",
		n.Ticker, direction, humanize.Comma(int64(math.Abs(n.Shares))))
}

// entryLine renders one buy/sell entry. The price and holding clauses appear
// only when the underlying field was reported; the date always renders, with
// a fixed token when unknown.
func entryLine(tx domain.Transaction, sign string) string {
	ticker := tx.Ticker
	if ticker == "" {
		ticker = "UNK"
	}
	insider := tx.InsiderName
	if insider == "" {
		insider = "Insider"
	}

	price := ""
	if tx.Price != 0 {
		price = fmt.Sprintf(" @ $%.2f", tx.Price)
	}

	date := unknownDateToken
	if !tx.FilingDate.IsZero() {
		date = tx.FilingDate.Format("2006-01-02")
	}

	owned := ""
	if tx.Holding != 0 {
		owned = fmt.Sprintf(" — Now owns %s", humanize.Comma(int64(tx.Holding)))
	}

	return fmt.Sprintf("%-5s → %s: %s%s shares%s (%s)%s",
		ticker, insider, sign, humanize.Comma(int64(math.Abs(tx.Shares))), price, date, owned)
}
