package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/blueprint/internal/adapters/driven/config/file"
	"github.com/custodia-labs/blueprint/internal/adapters/driven/designapi"
	"github.com/custodia-labs/blueprint/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/blueprint/internal/adapters/driving/cli"
	"github.com/custodia-labs/blueprint/internal/core/services"
	"github.com/custodia-labs/blueprint/internal/logger"
)

// newServices wires the adapters behind the CLI for one config directory.
func newServices(configDir string) (*cli.Services, func() error, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, os.Getenv)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	logger.Debug("config: %s", configStore.Path())
	logger.Debug("design service: %s (timeout %s)", settings.Server.BaseURL, settings.Server.Timeout)

	store, err := sqlite.NewStore(settings.Host.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening model: %w", err)
	}
	logger.Debug("model: %s", store.Path())

	client, err := designapi.NewClient(designapi.ClientConfig{
		BaseURL:           settings.Server.BaseURL,
		Timeout:           settings.Server.Timeout,
		RequestsPerSecond: settings.Server.RequestsPerSecond,
		CacheSize:         settings.Server.CacheSize,
		APIKey:            settings.Server.APIKey,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("configuring design service: %w", err)
	}

	host := store.HostDocument()
	svc := &cli.Services{
		Importer: services.NewImportService(host, designapi.Codec{}, client, store.ImportHistoryStore()),
		Model:    services.NewModelService(host),
		Settings: settingsService,
	}

	closeFn := func() error {
		return errors.Join(host.Close(), store.Close())
	}
	return svc, closeFn, nil
}
