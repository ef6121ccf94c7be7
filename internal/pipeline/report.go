package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// Report is the outcome of one pipeline run: the rendered summary plus the
// normalized dataset it was derived from. Reports are never persisted; the
// raw dataset exists only to be attached to the delivery.
type Report struct {
	RunID         string
	GeneratedAt   time.Time
	DaysBack      int
	Summary       string
	Transactions  []domain.Transaction
	FetchFailures []FetchFailure
	UniverseSize  int
}

// CSVFileName returns the canonical name for the raw-dataset attachment,
// e.g. "insider_trades_raw_20240131_154500.csv".
func (r *Report) CSVFileName() string {
	return fmt.Sprintf("insider_trades_raw_%s.csv", r.GeneratedAt.Format("20060102_150405"))
}

// WriteCSV writes the normalized dataset in tabular form. Unknown dates are
// left empty.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{
		"ticker", "name", "filing_date", "transaction_date",
		"change", "transaction_code", "transaction_price", "share",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: write csv header: %w", err)
	}

	for _, tx := range r.Transactions {
		row := []string{
			tx.Ticker,
			tx.InsiderName,
			formatCSVDate(tx.FilingDate),
			formatCSVDate(tx.TransactionDate),
			strconv.FormatFloat(tx.Shares, 'f', -1, 64),
			tx.Code,
			strconv.FormatFloat(tx.Price, 'f', -1, 64),
			strconv.FormatFloat(tx.Holding, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: flush csv: %w", err)
	}
	return nil
}

func formatCSVDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
