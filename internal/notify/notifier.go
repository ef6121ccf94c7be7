// Package notify implements the secondary broadcast channels. After the
// primary delivery to the invoking chat channel succeeds, the summary is
// fanned out to every registered sender; a sender failure is logged and
// never affects the primary channel's result.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Sender is the interface that each broadcast channel must implement.
type Sender interface {
	// Send delivers a broadcast with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "twitter").
	Name() string
}

// Notifier dispatches broadcasts to one or more Senders. Failures of
// individual senders are isolated: every sender is attempted, errors are
// logged, and a combined error is returned for callers that want it.
type Notifier struct {
	senders []Sender
	logger  *slog.Logger
}

// NewNotifier creates a Notifier that will deliver to the given senders.
func NewNotifier(senders []Sender, logger *slog.Logger) *Notifier {
	return &Notifier{
		senders: senders,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Enabled reports whether at least one sender is registered.
func (n *Notifier) Enabled() bool {
	return len(n.senders) > 0
}

// Broadcast sends a message to all senders. A single sender failure does not
// prevent delivery to the remaining senders.
func (n *Notifier) Broadcast(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.InfoContext(ctx, "broadcast sent",
			slog.String("sender", s.Name()),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
