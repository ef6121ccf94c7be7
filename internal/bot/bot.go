// Package bot implements the chat command surface: it parses the insider
// command from incoming messages, runs the pipeline, and delivers the result
// back to the invoking channel, inline or as file attachments depending on
// length.
package bot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tradewatch/insiderbot/internal/pipeline"
	"github.com/tradewatch/insiderbot/internal/platform/discord"
)

const (
	// inlineLimit is the chat platform's message-length ceiling in
	// characters; anything longer is delivered as a file attachment.
	inlineLimit = 2000

	// broadcastPayloadLimit bounds the summary excerpt included in the
	// social-feed post.
	broadcastPayloadLimit = 200

	commandName = "insider"
)

// Messenger delivers messages and file attachments to a chat channel.
type Messenger interface {
	SendMessage(ctx context.Context, channelID, content string) error
	SendFile(ctx context.Context, channelID, content, filename string, file []byte) error
}

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, daysBack int) (*pipeline.Report, error)
}

// Broadcaster fans the summary out to the secondary channels.
type Broadcaster interface {
	Enabled() bool
	Broadcast(ctx context.Context, title, message string) error
}

// Bot dispatches the insider command and owns delivery of its results. Each
// command invocation runs independently; the bot holds no per-run state.
type Bot struct {
	messenger   Messenger
	runner      Runner
	broadcaster Broadcaster
	prefix      string
	defaultDays int
	runTimeout  time.Duration
	status      *Status
	logger      *slog.Logger
}

// New creates a Bot. broadcaster may be a Notifier with no senders; it is
// consulted only after a successful primary delivery.
func New(
	messenger Messenger,
	runner Runner,
	broadcaster Broadcaster,
	prefix string,
	defaultDays int,
	runTimeout time.Duration,
	status *Status,
	logger *slog.Logger,
) *Bot {
	return &Bot{
		messenger:   messenger,
		runner:      runner,
		broadcaster: broadcaster,
		prefix:      prefix,
		defaultDays: defaultDays,
		runTimeout:  runTimeout,
		status:      status,
		logger:      logger.With(slog.String("component", "bot")),
	}
}

// HandleMessage is the gateway dispatch entry point. Command runs execute in
// their own goroutine so the gateway read loop never blocks behind a
// pipeline run.
func (b *Bot) HandleMessage(msg discord.Message) {
	if msg.Author.Bot {
		return
	}

	days, ok := b.parseCommand(msg.Content)
	if !ok {
		return
	}

	go b.runCommand(msg.ChannelID, days)
}

// parseCommand matches "<prefix>insider [days]". A missing, malformed, or
// negative days argument falls back to the configured default.
func (b *Bot) parseCommand(content string) (days int, ok bool) {
	fields := strings.Fields(strings.TrimSpace(content))
	if len(fields) == 0 || fields[0] != b.prefix+commandName {
		return 0, false
	}

	days = b.defaultDays
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n >= 0 {
			days = n
		}
	}
	return days, true
}

// runCommand executes one pipeline run for the invoking channel. Every
// invocation ends with either a posted summary or an explicit error message
// in that channel, never silence.
func (b *Bot) runCommand(channelID string, days int) {
	ctx, cancel := context.WithTimeout(context.Background(), b.runTimeout)
	defer cancel()

	log := b.logger.With(
		slog.String("channel_id", channelID),
		slog.Int("days_back", days),
	)

	if err := b.messenger.SendMessage(ctx, channelID, fmt.Sprintf("Fetching insider data for past %d days...", days)); err != nil {
		log.WarnContext(ctx, "acknowledgement failed", slog.String("error", err.Error()))
	}

	report, err := b.runner.Run(ctx, days)
	if err != nil {
		log.ErrorContext(ctx, "pipeline run failed", slog.String("error", err.Error()))
		b.status.RecordFailure(days, err)
		b.reportError(ctx, channelID, err)
		return
	}

	if err := b.deliver(ctx, channelID, report); err != nil {
		log.ErrorContext(ctx, "delivery failed", slog.String("error", err.Error()))
		b.status.RecordFailure(days, err)
		b.reportError(ctx, channelID, err)
		return
	}

	b.status.RecordSuccess(report)
	log.InfoContext(ctx, "summary delivered", slog.String("run_id", report.RunID))

	// Secondary broadcast; failures are logged by the notifier and never
	// affect the primary channel's result.
	b.broadcast(ctx, report)
}

// deliver posts the framed summary inline when it fits, otherwise as a text
// attachment followed by the raw-dataset CSV.
func (b *Bot) deliver(ctx context.Context, channelID string, report *pipeline.Report) error {
	header := fmt.Sprintf("**S&P 500 Insider Trading Summary (Past %d Days) — %s**",
		report.DaysBack, report.GeneratedAt.Format("2006-01-02"))

	// The ceiling is in characters, and the summary is dense with multi-byte
	// arrows.
	full := header + "\n```" + report.Summary + "```"
	if utf8.RuneCountInString(full) <= inlineLimit {
		return b.messenger.SendMessage(ctx, channelID, full)
	}

	if err := b.messenger.SendFile(ctx, channelID, header+"\nFull summary attached.", "summary.txt", []byte(report.Summary)); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		return err
	}
	return b.messenger.SendFile(ctx, channelID, "Raw data:", report.CSVFileName(), buf.Bytes())
}

// broadcast posts the truncated summary to the secondary channels.
func (b *Bot) broadcast(ctx context.Context, report *pipeline.Report) {
	if b.broadcaster == nil || !b.broadcaster.Enabled() {
		return
	}

	title := fmt.Sprintf("S&P 500 Insider Moves (Past %d Days as of %s):",
		report.DaysBack, report.GeneratedAt.Format("Jan 02"))

	body := strings.ReplaceAll(report.Summary, "→", "->")
	if runes := []rune(body); len(runes) > broadcastPayloadLimit {
		body = string(runes[:broadcastPayloadLimit])
	}
	body += "..."

	if err := b.broadcaster.Broadcast(ctx, title, body); err != nil {
		b.logger.WarnContext(ctx, "secondary broadcast incomplete",
			slog.String("run_id", report.RunID),
			slog.String("error", err.Error()),
		)
	}
}

// reportError posts a user-visible error message to the invoking channel.
func (b *Bot) reportError(ctx context.Context, channelID string, runErr error) {
	// The run context may already be cancelled or expired; use a short
	// detached context so the error still reaches the channel.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	if err := b.messenger.SendMessage(sendCtx, channelID, "Error: "+runErr.Error()); err != nil {
		b.logger.ErrorContext(sendCtx, "error report failed", slog.String("error", err.Error()))
	}
}
