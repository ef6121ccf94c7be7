package app

import (
	"log/slog"

	"github.com/tradewatch/insiderbot/internal/bot"
	"github.com/tradewatch/insiderbot/internal/config"
	"github.com/tradewatch/insiderbot/internal/notify"
	"github.com/tradewatch/insiderbot/internal/pipeline"
	"github.com/tradewatch/insiderbot/internal/platform/discord"
	"github.com/tradewatch/insiderbot/internal/platform/finnhub"
	"github.com/tradewatch/insiderbot/internal/platform/twitter"
	"github.com/tradewatch/insiderbot/internal/platform/wikipedia"
	"github.com/tradewatch/insiderbot/internal/universe"
)

// Dependencies bundles everything the application modes need to operate. It is
// constructed once by Wire before mode selection.
type Dependencies struct {
	Runner   *pipeline.Runner
	Discord  *discord.Client
	Gateway  *discord.Gateway
	Notifier *notify.Notifier
	Status   *bot.Status
	Bot      *bot.Bot
}

// Wire constructs all concrete dependency implementations from the given
// configuration.
func Wire(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Status: bot.NewStatus(),
	}

	// --- Pipeline: constituent source, transaction source, runner ---
	wikiClient := wikipedia.NewClient(cfg.Universe.SourceURL)
	resolver := universe.NewResolver(wikiClient, cfg.Universe.Fallback, logger)

	finnhubClient := finnhub.NewClient(
		cfg.Finnhub.BaseURL,
		cfg.Finnhub.APIKey,
		cfg.Finnhub.Timeout.Duration,
		cfg.Finnhub.RatePerMinute,
	)
	fetcher := pipeline.NewFetcher(finnhubClient, logger)

	deps.Runner = pipeline.NewRunner(resolver, fetcher, cfg.Universe.MaxTickers, logger)

	// --- Secondary broadcast senders ---
	var senders []notify.Sender
	if cfg.Twitter.Enabled {
		twClient := twitter.NewClient(twitter.Credentials{
			ApiKey:       cfg.Twitter.ApiKey,
			ApiSecret:    cfg.Twitter.ApiSecret,
			AccessToken:  cfg.Twitter.AccessToken,
			AccessSecret: cfg.Twitter.AccessSecret,
		})
		senders = append(senders, notify.NewTwitterSender(twClient))
	}
	if cfg.Notify.AnnounceWebhookURL != "" {
		senders = append(senders, notify.NewDiscordWebhookSender(cfg.Notify.AnnounceWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, logger)

	// --- Discord chat surface ---
	deps.Discord = discord.NewClient(cfg.Discord.APIURL, cfg.Discord.BotToken)
	deps.Gateway = discord.NewGateway(cfg.Discord.GatewayURL, cfg.Discord.BotToken, logger)

	deps.Bot = bot.New(
		deps.Discord,
		deps.Runner,
		deps.Notifier,
		cfg.Discord.CommandPrefix,
		cfg.Pipeline.DefaultDaysBack,
		cfg.Pipeline.RunTimeout.Duration,
		deps.Status,
		logger,
	)
	deps.Gateway.OnMessage(deps.Bot.HandleMessage)

	return deps, nil
}
