package domain

import "time"

// Settings is the typed application configuration.
type Settings struct {
	Server ServerSettings
	Host   HostSettings
}

// ServerSettings configures the design generation client.
type ServerSettings struct {
	// BaseURL is the generation service root, e.g. http://localhost:8000.
	BaseURL string

	// Timeout bounds one generation request.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound requests. Zero disables throttling.
	RequestsPerSecond float64

	// CacheSize is the number of responses kept in memory. Zero disables caching.
	// A cached brief is answered without reaching the service.
	CacheSize int

	// APIKey is sent as X-API-Key when the service requires one.
	APIKey string
}

// HostSettings configures the persistent host document.
type HostSettings struct {
	// DataDir holds model.db. Empty means ~/.blueprint/data.
	DataDir string
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			BaseURL:           "http://localhost:8000",
			Timeout:           120 * time.Second,
			RequestsPerSecond: 1,
		},
	}
}
