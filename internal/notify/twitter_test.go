package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	posted []string
}

func (f *fakePoster) Post(ctx context.Context, text string) error {
	f.posted = append(f.posted, text)
	return nil
}

func TestTwitterSenderJoinsTitleAndMessage(t *testing.T) {
	p := &fakePoster{}
	s := NewTwitterSender(p)

	require.NoError(t, s.Send(context.Background(), "Headline", "body text"))
	require.Len(t, p.posted, 1)
	assert.Equal(t, "Headline\nbody text", p.posted[0])
}

func TestTwitterSenderDropsEmptyParts(t *testing.T) {
	p := &fakePoster{}
	s := NewTwitterSender(p)

	require.NoError(t, s.Send(context.Background(), "", "body only"))
	require.Len(t, p.posted, 1)
	assert.Equal(t, "body only", p.posted[0])
}
