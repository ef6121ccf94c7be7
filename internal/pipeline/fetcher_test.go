package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewatch/insiderbot/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSource returns canned records per symbol and fails the symbols listed
// in fail.
type stubSource struct {
	records map[string][]domain.RawTransaction
	fail    map[string]error
	calls   []string
}

func (s *stubSource) InsiderTransactions(ctx context.Context, symbol string, from, to time.Time) ([]domain.RawTransaction, error) {
	s.calls = append(s.calls, symbol)
	if err, ok := s.fail[symbol]; ok {
		return nil, err
	}
	return s.records[symbol], nil
}

func TestFetchMergesInOrder(t *testing.T) {
	src := &stubSource{
		records: map[string][]domain.RawTransaction{
			"AAPL": {{Symbol: "AAPL", Name: "A"}},
			"MSFT": {{Symbol: "MSFT", Name: "B"}, {Symbol: "MSFT", Name: "C"}},
		},
	}
	f := NewFetcher(src, discardLogger())

	all, failures := f.Fetch(context.Background(), []string{"AAPL", "MSFT"}, 7)

	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "B", all[1].Name)
	assert.Equal(t, "C", all[2].Name)
	assert.Empty(t, failures)
	assert.Equal(t, []string{"AAPL", "MSFT"}, src.calls)
}

func TestFetchSingleFailureDoesNotAbort(t *testing.T) {
	src := &stubSource{
		records: map[string][]domain.RawTransaction{
			"AAPL": {{Symbol: "AAPL"}},
			"NVDA": {{Symbol: "NVDA"}},
		},
		fail: map[string]error{
			"MSFT": domain.ErrRateLimited,
		},
	}
	f := NewFetcher(src, discardLogger())

	all, failures := f.Fetch(context.Background(), []string{"AAPL", "MSFT", "NVDA"}, 7)

	assert.Len(t, all, 2)
	require.Len(t, failures, 1)
	assert.Equal(t, "MSFT", failures[0].Ticker)
	assert.True(t, errors.Is(failures[0].Err, domain.ErrRateLimited))
}

func TestFetchStopsOnCancelledContext(t *testing.T) {
	src := &stubSource{}
	f := NewFetcher(src, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	all, failures := f.Fetch(ctx, []string{"AAPL", "MSFT"}, 7)

	assert.Empty(t, all)
	assert.Empty(t, failures)
	assert.Empty(t, src.calls)
}
