package driving

import "github.com/custodia-labs/sercha-discord/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then environment overrides.
	Get() (*domain.Settings, error)

	// Set validates and persists one setting by config key.
	Set(key, value string) error

	// Keys returns the recognised config keys in display order.
	Keys() []string
}
