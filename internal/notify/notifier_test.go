package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name  string
	err   error
	calls int
}

func (f *fakeSender) Send(ctx context.Context, title, message string) error {
	f.calls++
	return f.err
}

func (f *fakeSender) Name() string { return f.name }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifierEnabled(t *testing.T) {
	assert.False(t, NewNotifier(nil, discardLogger()).Enabled())
	assert.True(t, NewNotifier([]Sender{&fakeSender{name: "a"}}, discardLogger()).Enabled())
}

func TestBroadcastNoSenders(t *testing.T) {
	n := NewNotifier(nil, discardLogger())
	assert.NoError(t, n.Broadcast(context.Background(), "t", "m"))
}

func TestBroadcastFailureIsolation(t *testing.T) {
	failing := &fakeSender{name: "twitter", err: errors.New("boom")}
	healthy := &fakeSender{name: "discord-webhook"}

	n := NewNotifier([]Sender{failing, healthy}, discardLogger())
	err := n.Broadcast(context.Background(), "t", "m")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "twitter")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, healthy.calls)
}

func TestBroadcastAllSucceed(t *testing.T) {
	a := &fakeSender{name: "a"}
	b := &fakeSender{name: "b"}

	n := NewNotifier([]Sender{a, b}, discardLogger())
	require.NoError(t, n.Broadcast(context.Background(), "t", "m"))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}
