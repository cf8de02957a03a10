package services

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyDiscordToken     = "discord.token"
	KeyDataDir          = "index.data_dir"
	KeyBackfillRate     = "backfill.rate"
	KeyBackfillPageSize = "backfill.page_size"
	KeyVerbose          = "log.verbose"
)

var settingsKeys = []string{
	KeyDiscordToken,
	KeyDataDir,
	KeyBackfillRate,
	KeyBackfillPageSize,
	KeyVerbose,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns defaults overlaid with the config file, then the environment.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	if s.configStore != nil {
		if v := s.configStore.GetString(KeyDiscordToken); v != "" {
			settings.DiscordToken = v
		}
		if v := s.configStore.GetString(KeyDataDir); v != "" {
			settings.DataDir = v
		}
		if v := s.configStore.GetFloat(KeyBackfillRate); v != 0 {
			settings.BackfillRate = v
		}
		if v := s.configStore.GetInt(KeyBackfillPageSize); v != 0 {
			settings.BackfillPageSize = v
		}
		settings.Verbose = s.configStore.GetBool(KeyVerbose)
	}

	if err := env.Parse(&settings); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return &settings, nil
}

// Set validates and persists one setting.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return fmt.Errorf("settings: %w", domain.ErrNotConfigured)
	}

	var typed any
	switch key {
	case KeyDiscordToken, KeyDataDir:
		typed = value
	case KeyBackfillRate:
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate <= 0 {
			return fmt.Errorf("%s must be a positive number: %w", key, domain.ErrInvalidInput)
		}
		typed = rate
	case KeyBackfillPageSize:
		size, err := strconv.Atoi(value)
		if err != nil || size <= 0 || size > domain.MaxBackfillPageSize {
			return fmt.Errorf("%s must be between 1 and %d: %w", key, domain.MaxBackfillPageSize, domain.ErrInvalidInput)
		}
		typed = int64(size)
	case KeyVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, domain.ErrInvalidInput)
		}
		typed = b
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	return s.configStore.Set(key, typed)
}

// Keys returns the recognised config keys in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingsKeys))
	copy(out, settingsKeys)
	return out
}
