package driving

import "github.com/custodia-labs/blueprint/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then environment overrides.
	Get() (*domain.Settings, error)

	// Set validates and persists one setting by key.
	Set(key, value string) error

	// Unset removes a persisted setting so its default applies.
	Unset(key string) error

	// Keys lists the settable keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
