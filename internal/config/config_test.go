package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewatch/insiderbot/internal/domain"
)

// validConfig returns Defaults with the fields required for mode "bot" filled
// in.
func validConfig() Config {
	cfg := Defaults()
	cfg.Finnhub.APIKey = "fh-key"
	cfg.Discord.BotToken = "bot-token"
	return cfg
}

func TestValidateOK(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateOnceModeNeedsNoDiscord(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "once"
	cfg.Finnhub.APIKey = "fh-key"
	assert.NoError(t, cfg.Validate())
}

func TestValidateMissingFinnhubKey(t *testing.T) {
	cfg := validConfig()
	cfg.Finnhub.APIKey = "   "

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finnhub: api_key is required")
	assert.True(t, errors.Is(err, domain.ErrMissingCredential))
}

func TestValidateMissingDiscordToken(t *testing.T) {
	cfg := validConfig()
	cfg.Discord.BotToken = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord: bot_token is required")
}

func TestValidatePartialTwitterCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Twitter.Enabled = true
	cfg.Twitter.ApiKey = "k"
	cfg.Twitter.ApiSecret = "s"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twitter")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "turbo"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mode "turbo"`)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Finnhub.APIKey = ""
	cfg.Universe.Fallback = nil
	cfg.Pipeline.DefaultDaysBack = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finnhub: api_key")
	assert.Contains(t, err.Error(), "universe: fallback")
	assert.Contains(t, err.Error(), "pipeline: default_days_back")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "bot", cfg.Mode)
	assert.Equal(t, 7, cfg.Pipeline.DefaultDaysBack)
	assert.Equal(t, 55, cfg.Finnhub.RatePerMinute)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "once"

[finnhub]
api_key = "from-file"
timeout = "30s"

[pipeline]
default_days_back = 14
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "once", cfg.Mode)
	assert.Equal(t, "from-file", cfg.Finnhub.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Finnhub.Timeout.Duration)
	assert.Equal(t, 14, cfg.Pipeline.DefaultDaysBack)

	// Untouched sections keep their defaults.
	assert.Equal(t, "https://finnhub.io/api/v1", cfg.Finnhub.BaseURL)
	assert.Equal(t, "!", cfg.Discord.CommandPrefix)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INSIDER_FINNHUB_API_KEY", "from-env")
	t.Setenv("DAYS_BACK", "21")
	t.Setenv("INSIDER_UNIVERSE_FALLBACK", "AAPL, MSFT ,NVDA")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Finnhub.APIKey)
	assert.Equal(t, 21, cfg.Pipeline.DefaultDaysBack)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, cfg.Universe.Fallback)
}

func TestRedactedConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Twitter.AccessSecret = "super-secret"
	cfg.Server.APIKey = "ops-key"

	red := RedactedConfig(&cfg)
	assert.Equal(t, "***", red.Finnhub.APIKey)
	assert.Equal(t, "***", red.Discord.BotToken)
	assert.Equal(t, "***", red.Twitter.AccessSecret)
	assert.Equal(t, "***", red.Server.APIKey)

	// The original is untouched.
	assert.Equal(t, "fh-key", cfg.Finnhub.APIKey)
}
