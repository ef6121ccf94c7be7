package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields replaced
// by the redaction placeholder "***". Use this when logging or printing the
// active configuration so secrets are never accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	redact(&out.Finnhub.APIKey)
	redact(&out.Discord.BotToken)
	redact(&out.Twitter.ApiKey)
	redact(&out.Twitter.ApiSecret)
	redact(&out.Twitter.AccessToken)
	redact(&out.Twitter.AccessSecret)
	redact(&out.Notify.AnnounceWebhookURL)
	redact(&out.Server.APIKey)

	// Copy slices so callers cannot mutate the original through the redacted
	// copy.
	if cfg.Universe.Fallback != nil {
		out.Universe.Fallback = make([]string, len(cfg.Universe.Fallback))
		copy(out.Universe.Fallback, cfg.Universe.Fallback)
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
