package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewatch/insiderbot/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func TestNormalizeCanonicalizesAndParses(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	raw := []domain.RawTransaction{
		{
			Symbol:           "  aapl ",
			Name:             "Tim Cook",
			FilingDate:       "2024-03-14 16:30:00",
			TransactionDate:  "2024-03-13",
			Change:           floatPtr(15000),
			TransactionCode:  "P",
			TransactionPrice: 180.5,
			Share:            3300000,
		},
	}

	out := Normalize(raw, 7, now)
	require.Len(t, out, 1)

	tx := out[0]
	assert.Equal(t, "AAPL", tx.Ticker)
	assert.Equal(t, "Tim Cook", tx.InsiderName)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), tx.FilingDate)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), tx.TransactionDate)
	assert.Equal(t, 15000.0, tx.Shares)
	assert.Equal(t, "P", tx.Code)
	assert.Equal(t, 180.5, tx.Price)
	assert.Equal(t, 3300000.0, tx.Holding)
}

func TestNormalizeDedupFirstWins(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	// Same (ticker, filing date, insider, delta), differing price. The first
	// occurrence in input order wins.
	raw := []domain.RawTransaction{
		{Symbol: "MSFT", Name: "Satya Nadella", FilingDate: "2024-03-14", Change: floatPtr(5000), TransactionPrice: 410.0},
		{Symbol: "MSFT", Name: "Satya Nadella", FilingDate: "2024-03-14", Change: floatPtr(5000), TransactionPrice: 999.0},
	}

	out := Normalize(raw, 7, now)
	require.Len(t, out, 1)
	assert.Equal(t, 410.0, out[0].Price)
}

func TestNormalizeDropsUnknownFilingDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	raw := []domain.RawTransaction{
		{Symbol: "AAPL", Name: "A", FilingDate: "", Change: floatPtr(1000)},
		{Symbol: "AAPL", Name: "B", FilingDate: "not-a-date", Change: floatPtr(1000)},
	}

	out := Normalize(raw, 7, now)
	assert.Empty(t, out)
}

func TestNormalizeWindowFilter(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	raw := []domain.RawTransaction{
		{Symbol: "AAPL", Name: "Too Old", FilingDate: "2024-03-01", Change: floatPtr(100)},
		{Symbol: "AAPL", Name: "In Window", FilingDate: "2024-03-10", Change: floatPtr(200)},
		{Symbol: "AAPL", Name: "Future", FilingDate: "2024-03-20", Change: floatPtr(300)},
	}

	out := Normalize(raw, 7, now)
	require.Len(t, out, 1)
	assert.Equal(t, "In Window", out[0].InsiderName)
}

func TestNormalizeNilChangeCoercesToZero(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	raw := []domain.RawTransaction{
		{Symbol: "NVDA", Name: "Jensen Huang", FilingDate: "2024-03-14", Change: nil, TransactionCode: "P"},
	}

	out := Normalize(raw, 7, now)
	require.Len(t, out, 1)
	assert.Zero(t, out[0].Shares)
	assert.Equal(t, "P", out[0].Code)
}

func TestNormalizeIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	raw := []domain.RawTransaction{
		{Symbol: "AAPL", Name: "A", FilingDate: "2024-03-14", Change: floatPtr(1000)},
		{Symbol: "msft", Name: "B", FilingDate: "2024-03-13", Change: floatPtr(-2000)},
		{Symbol: "AAPL", Name: "A", FilingDate: "2024-03-14", Change: floatPtr(1000)},
	}

	first := Normalize(raw, 7, now)
	second := Normalize(raw, 7, now)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}
