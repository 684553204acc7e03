package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
	"github.com/custodia-labs/blueprint/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyServerBaseURL = "server.base_url"
	keyServerTimeout = "server.timeout"
	keyServerRate    = "server.requests_per_second"
	keyServerCache   = "server.cache_size"
	keyServerAPIKey  = "server.api_key"
	keyHostDataDir   = "host.data_dir"
)

// Environment variables that override the config file.
const (
	EnvServerURL = "BLUEPRINT_SERVER_URL"
	EnvTimeout   = "BLUEPRINT_TIMEOUT"
	EnvDataDir   = "BLUEPRINT_DATA_DIR"
	EnvAPIKey    = "BLUEPRINT_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// getenv supplies environment overrides; pass nil to ignore the environment.
func NewSettingsService(configStore driven.ConfigStore, getenv func(string) string) *SettingsService {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &SettingsService{
		configStore: configStore,
		getenv:      getenv,
	}
}

// Get retrieves current application settings.
// Precedence: environment, then config file, then defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	if s.configStore != nil {
		settings.Server.BaseURL = s.getString(keyServerBaseURL, settings.Server.BaseURL)
		settings.Server.Timeout = s.getDuration(keyServerTimeout, settings.Server.Timeout)
		settings.Server.RequestsPerSecond = s.getFloat(keyServerRate, settings.Server.RequestsPerSecond)
		settings.Server.CacheSize = s.getInt(keyServerCache, settings.Server.CacheSize)
		settings.Server.APIKey = s.getString(keyServerAPIKey, settings.Server.APIKey)
		settings.Host.DataDir = s.getString(keyHostDataDir, settings.Host.DataDir)
	}

	if v := strings.TrimSpace(s.getenv(EnvServerURL)); v != "" {
		settings.Server.BaseURL = v
	}
	if v := strings.TrimSpace(s.getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q: %v", domain.ErrInvalidInput, EnvTimeout, v, err)
		}
		settings.Server.Timeout = d
	}
	if v := strings.TrimSpace(s.getenv(EnvDataDir)); v != "" {
		settings.Host.DataDir = v
	}
	if v := strings.TrimSpace(s.getenv(EnvAPIKey)); v != "" {
		settings.Server.APIKey = v
	}

	return &settings, nil
}

// Keys lists the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{keyServerBaseURL, keyServerTimeout, keyServerRate, keyServerCache, keyServerAPIKey, keyHostDataDir}
}

// Set validates and persists one setting.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return fmt.Errorf("%w: config store not configured", domain.ErrInvalidInput)
	}
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case keyServerBaseURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s must be an http(s) URL", domain.ErrInvalidInput, key)
		}
		stored = strings.TrimRight(value, "/")
	case keyServerTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration like 90s", domain.ErrInvalidInput, key)
		}
		stored = d.String()
	case keyServerRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		stored = f
	case keyServerCache:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		stored = int64(n)
	case keyServerAPIKey:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty; use unset to remove it", domain.ErrInvalidInput, key)
		}
		stored = value
	case keyHostDataDir:
		stored = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes a persisted setting.
func (s *SettingsService) Unset(key string) error {
	if s.configStore == nil {
		return fmt.Errorf("%w: config store not configured", domain.ErrInvalidInput)
	}
	if !s.known(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

func (s *SettingsService) known(key string) bool {
	for _, k := range s.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
