package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "http://localhost:8000", s.Server.BaseURL)
	assert.Equal(t, 120*time.Second, s.Server.Timeout)
	assert.InDelta(t, 1.0, s.Server.RequestsPerSecond, 0)
	assert.Zero(t, s.Server.CacheSize)
	assert.Empty(t, s.Server.APIKey)
	assert.Empty(t, s.Host.DataDir)
}
