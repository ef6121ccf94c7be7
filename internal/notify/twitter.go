package notify

import (
	"context"
	"strings"
)

// TweetPoster publishes a single text post to the social feed.
type TweetPoster interface {
	Post(ctx context.Context, text string) error
}

// TwitterSender broadcasts to the social feed via a TweetPoster.
type TwitterSender struct {
	poster TweetPoster
}

// NewTwitterSender creates a TwitterSender backed by the given poster.
func NewTwitterSender(poster TweetPoster) *TwitterSender {
	return &TwitterSender{poster: poster}
}

// Send posts the title and message as one tweet. Empty parts are dropped.
func (t *TwitterSender) Send(ctx context.Context, title, message string) error {
	parts := make([]string, 0, 2)
	if title != "" {
		parts = append(parts, title)
	}
	if message != "" {
		parts = append(parts, message)
	}
	return t.poster.Post(ctx, strings.Join(parts, "\n"))
}

// Name returns the sender identifier.
func (t *TwitterSender) Name() string {
	return "twitter"
}
