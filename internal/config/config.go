// Package config defines the top-level configuration for the insider bot
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by INSIDER_* environment variables.
type Config struct {
	Finnhub  FinnhubConfig  `toml:"finnhub"`
	Discord  DiscordConfig  `toml:"discord"`
	Twitter  TwitterConfig  `toml:"twitter"`
	Notify   NotifyConfig   `toml:"notify"`
	Universe UniverseConfig `toml:"universe"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Server   ServerConfig   `toml:"server"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// FinnhubConfig holds the transaction-source API parameters. The API key is
// required for every mode; the process must not start without it.
type FinnhubConfig struct {
	APIKey        string   `toml:"api_key"`
	BaseURL       string   `toml:"base_url"`
	Timeout       duration `toml:"timeout"`
	RatePerMinute int      `toml:"rate_per_minute"`
}

// DiscordConfig holds the chat-platform credentials and endpoints.
type DiscordConfig struct {
	BotToken      string `toml:"bot_token"`
	APIURL        string `toml:"api_url"`
	GatewayURL    string `toml:"gateway_url"`
	CommandPrefix string `toml:"command_prefix"`
}

// TwitterConfig holds the optional social-feed credentials. When Enabled, all
// four credentials must be set; when disabled the fields are ignored.
type TwitterConfig struct {
	Enabled      bool   `toml:"enabled"`
	ApiKey       string `toml:"api_key"`
	ApiSecret    string `toml:"api_secret"`
	AccessToken  string `toml:"access_token"`
	AccessSecret string `toml:"access_secret"`
}

// NotifyConfig holds the optional announce webhook for ops notifications.
type NotifyConfig struct {
	AnnounceWebhookURL string `toml:"announce_webhook_url"`
}

// UniverseConfig holds the constituent-source parameters and the static
// fallback ticker list used when the live source is unavailable.
type UniverseConfig struct {
	SourceURL  string   `toml:"source_url"`
	Fallback   []string `toml:"fallback"`
	MaxTickers int      `toml:"max_tickers"` // 0 = no cap
}

// PipelineConfig holds pipeline run parameters.
type PipelineConfig struct {
	DefaultDaysBack int      `toml:"default_days_back"`
	RunTimeout      duration `toml:"run_timeout"`
}

// ServerConfig holds the optional ops status HTTP server parameters.
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Port    int    `toml:"port"`
	APIKey  string `toml:"api_key"` // if empty, authentication is disabled
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "10s", "5m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "10s" or "5m".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Finnhub: FinnhubConfig{
			BaseURL:       "https://finnhub.io/api/v1",
			Timeout:       duration{10 * time.Second},
			RatePerMinute: 55,
		},
		Discord: DiscordConfig{
			APIURL:        "https://discord.com/api/v10",
			GatewayURL:    "wss://gateway.discord.gg/?v=10&encoding=json",
			CommandPrefix: "!",
		},
		Universe: UniverseConfig{
			SourceURL: "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
			Fallback: []string{
				"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA",
				"META", "TSLA", "AL", "CRS", "NET", "EWBC",
			},
			MaxTickers: 50,
		},
		Pipeline: PipelineConfig{
			DefaultDaysBack: 7,
			RunTimeout:      duration{10 * time.Minute},
		},
		Server: ServerConfig{
			Enabled: false,
			Port:    8000,
		},
		Mode:     "bot",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"bot":  true,
	"once": true,
	"full": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string
	missingCredential := false

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: bot, once, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Finnhub — required for every mode; the pipeline cannot run without it.
	if strings.TrimSpace(c.Finnhub.APIKey) == "" {
		errs = append(errs, "finnhub: api_key is required")
		missingCredential = true
	}
	if c.Finnhub.BaseURL == "" {
		errs = append(errs, "finnhub: base_url must not be empty")
	}
	if c.Finnhub.Timeout.Duration <= 0 {
		errs = append(errs, "finnhub: timeout must be positive")
	}
	if c.Finnhub.RatePerMinute < 1 {
		errs = append(errs, "finnhub: rate_per_minute must be >= 1")
	}

	// Discord — token needed for the modes that connect to the gateway.
	needsDiscord := c.Mode == "bot" || c.Mode == "full"
	if needsDiscord && strings.TrimSpace(c.Discord.BotToken) == "" {
		errs = append(errs, "discord: bot_token is required for mode "+c.Mode)
		missingCredential = true
	}
	if c.Discord.APIURL == "" {
		errs = append(errs, "discord: api_url must not be empty")
	}
	if c.Discord.GatewayURL == "" {
		errs = append(errs, "discord: gateway_url must not be empty")
	}
	if c.Discord.CommandPrefix == "" {
		errs = append(errs, "discord: command_prefix must not be empty")
	}

	// Twitter — all four credentials must be set when enabled.
	if c.Twitter.Enabled {
		if c.Twitter.ApiKey == "" || c.Twitter.ApiSecret == "" ||
			c.Twitter.AccessToken == "" || c.Twitter.AccessSecret == "" {
			errs = append(errs, "twitter: api_key, api_secret, access_token, and access_secret must all be set when enabled")
			missingCredential = true
		}
	}

	// Universe
	if c.Universe.SourceURL == "" {
		errs = append(errs, "universe: source_url must not be empty")
	}
	if len(c.Universe.Fallback) == 0 {
		errs = append(errs, "universe: fallback must contain at least one ticker")
	}
	if c.Universe.MaxTickers < 0 {
		errs = append(errs, "universe: max_tickers must be >= 0")
	}

	// Pipeline
	if c.Pipeline.DefaultDaysBack < 0 {
		errs = append(errs, "pipeline: default_days_back must be >= 0")
	}
	if c.Pipeline.RunTimeout.Duration <= 0 {
		errs = append(errs, "pipeline: run_timeout must be positive")
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		if missingCredential {
			return fmt.Errorf("config validation failed (%w):\n  - %s",
				domain.ErrMissingCredential, strings.Join(errs, "\n  - "))
		}
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
