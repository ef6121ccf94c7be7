package universe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewatch/insiderbot/internal/domain"
)

type stubFetcher struct {
	symbols []string
	err     error
}

func (s *stubFetcher) Constituents(ctx context.Context) ([]string, error) {
	return s.symbols, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveLiveList(t *testing.T) {
	r := NewResolver(
		&stubFetcher{symbols: []string{"MMM", "AOS", "ABT"}},
		[]string{"AAPL"},
		discardLogger(),
	)

	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"MMM", "AOS", "ABT"}, got)
}

func TestResolveTransientFailureUsesFallback(t *testing.T) {
	fallback := []string{"AAPL", "MSFT"}
	r := NewResolver(
		&stubFetcher{err: errors.New("connection refused")},
		fallback,
		discardLogger(),
	)

	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	// The returned slice is a copy; mutating it must not corrupt the
	// configured fallback.
	got[0] = "XXXX"
	assert.Equal(t, "AAPL", fallback[0])
}

func TestResolveStructureChangePropagates(t *testing.T) {
	r := NewResolver(
		&stubFetcher{err: domain.ErrStructureChanged},
		[]string{"AAPL"},
		discardLogger(),
	)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStructureChanged))
}
