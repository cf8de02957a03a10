package domain

// Default settings values.
const (
	DefaultBackfillRate     = 1.0
	DefaultBackfillPageSize = 100
	MaxBackfillPageSize     = 100
)

// Settings holds the application configuration.
// Values come from the config file and are overridden by the environment.
type Settings struct {
	// DiscordToken is the bot token used to open the gateway session.
	DiscordToken string `env:"DISCORD_TOKEN"`

	// DataDir is where the index lives. Empty means ~/.sercha-discord/data.
	DataDir string `env:"SERCHA_DATA_DIR"`

	// BackfillRate is the number of history requests per second.
	BackfillRate float64 `env:"SERCHA_BACKFILL_RATE"`

	// BackfillPageSize is the number of messages fetched per history request.
	BackfillPageSize int `env:"SERCHA_BACKFILL_PAGE_SIZE"`

	// Verbose enables debug logging.
	Verbose bool `env:"SERCHA_VERBOSE"`
}

// DefaultSettings returns settings with defaults applied.
func DefaultSettings() Settings {
	return Settings{
		BackfillRate:     DefaultBackfillRate,
		BackfillPageSize: DefaultBackfillPageSize,
	}
}

// HasToken returns true if a Discord token is configured.
func (s Settings) HasToken() bool {
	return s.DiscordToken != ""
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.BackfillRate <= 0 {
		return ErrInvalidInput
	}
	if s.BackfillPageSize <= 0 || s.BackfillPageSize > MaxBackfillPageSize {
		return ErrInvalidInput
	}
	return nil
}
