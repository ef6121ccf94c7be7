package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies INSIDER_* environment variable overrides, and
// returns the final Config. A missing config file is not an error: the bot
// can run entirely from defaults plus environment variables. The returned
// Config has NOT been validated; the caller should invoke Config.Validate()
// after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known INSIDER_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Finnhub ──
	setStr(&cfg.Finnhub.APIKey, "INSIDER_FINNHUB_API_KEY")
	setStr(&cfg.Finnhub.APIKey, "FINNHUB_KEY") // compatibility alias
	setStr(&cfg.Finnhub.BaseURL, "INSIDER_FINNHUB_BASE_URL")
	setDuration(&cfg.Finnhub.Timeout, "INSIDER_FINNHUB_TIMEOUT")
	setInt(&cfg.Finnhub.RatePerMinute, "INSIDER_FINNHUB_RATE_PER_MINUTE")

	// ── Discord ──
	setStr(&cfg.Discord.BotToken, "INSIDER_DISCORD_BOT_TOKEN")
	setStr(&cfg.Discord.BotToken, "DISCORD_TOKEN") // compatibility alias
	setStr(&cfg.Discord.APIURL, "INSIDER_DISCORD_API_URL")
	setStr(&cfg.Discord.GatewayURL, "INSIDER_DISCORD_GATEWAY_URL")
	setStr(&cfg.Discord.CommandPrefix, "INSIDER_DISCORD_COMMAND_PREFIX")

	// ── Twitter ──
	setBool(&cfg.Twitter.Enabled, "INSIDER_TWITTER_ENABLED")
	setStr(&cfg.Twitter.ApiKey, "INSIDER_TWITTER_API_KEY")
	setStr(&cfg.Twitter.ApiKey, "TWITTER_API_KEY") // compatibility alias
	setStr(&cfg.Twitter.ApiSecret, "INSIDER_TWITTER_API_SECRET")
	setStr(&cfg.Twitter.ApiSecret, "TWITTER_API_SECRET")
	setStr(&cfg.Twitter.AccessToken, "INSIDER_TWITTER_ACCESS_TOKEN")
	setStr(&cfg.Twitter.AccessToken, "TWITTER_ACCESS_TOKEN")
	setStr(&cfg.Twitter.AccessSecret, "INSIDER_TWITTER_ACCESS_SECRET")
	setStr(&cfg.Twitter.AccessSecret, "TWITTER_ACCESS_SECRET")

	// ── Notify ──
	setStr(&cfg.Notify.AnnounceWebhookURL, "INSIDER_NOTIFY_ANNOUNCE_WEBHOOK_URL")

	// ── Universe ──
	setStr(&cfg.Universe.SourceURL, "INSIDER_UNIVERSE_SOURCE_URL")
	setStringSlice(&cfg.Universe.Fallback, "INSIDER_UNIVERSE_FALLBACK")
	setInt(&cfg.Universe.MaxTickers, "INSIDER_UNIVERSE_MAX_TICKERS")

	// ── Pipeline ──
	setInt(&cfg.Pipeline.DefaultDaysBack, "INSIDER_PIPELINE_DEFAULT_DAYS_BACK")
	setInt(&cfg.Pipeline.DefaultDaysBack, "DAYS_BACK") // compatibility alias
	setDuration(&cfg.Pipeline.RunTimeout, "INSIDER_PIPELINE_RUN_TIMEOUT")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "INSIDER_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "INSIDER_SERVER_PORT")
	setStr(&cfg.Server.APIKey, "INSIDER_SERVER_API_KEY")

	// ── Top-level ──
	setStr(&cfg.Mode, "INSIDER_MODE")
	setStr(&cfg.LogLevel, "INSIDER_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
