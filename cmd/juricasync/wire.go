package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/juricasync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/juricasync/internal/adapters/driven/indexing"
	"github.com/custodia-labs/juricasync/internal/adapters/driven/metrics"
	"github.com/custodia-labs/juricasync/internal/adapters/driven/source/sqlsource"
	"github.com/custodia-labs/juricasync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/juricasync/internal/adapters/driven/storage/mongo"
	"github.com/custodia-labs/juricasync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/juricasync/internal/adapters/driving/cli"
	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
	"github.com/custodia-labs/juricasync/internal/core/services"
	"github.com/custodia-labs/juricasync/internal/logger"
)

// envFile is loaded before the configuration file is read.
const envFile = ".env"

// documentStores are the stores kept outside the source database.
type documentStores struct {
	raw       driven.RawDecisionStore
	decisions driven.DecisionStore
	syncState driven.SyncStateStore
	close     func() error
}

// bootstrap wires the adapters and services from the configuration.
func bootstrap(ctx context.Context, configPath string, settingsOnly bool) (*cli.JobConfig, error) {
	// 1. Environment, then configuration file
	if err := file.LoadEnv(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	configStore, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	if settingsOnly {
		return &cli.JobConfig{SettingsService: settingsService}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	// 2. Source database, which must be reachable
	source, err := sqlsource.Open(settings.Source.Driver, settings.Source.DSN, settings.Source.ReferenceDSN)
	if err != nil {
		return nil, err
	}
	if err := source.Ping(ctx); err != nil {
		return nil, errors.Join(err, source.Close())
	}

	// 3. Document stores
	stores, err := openDocumentStores(ctx, settings.Store)
	if err != nil {
		return nil, errors.Join(err, source.Close())
	}
	logger.Debug("Document stores: %s", settings.Store.Driver.Description())

	// 4. Indexing and screening client
	client := indexing.NewClient(indexing.Config{
		BaseURL:       settings.Indexing.BaseURL,
		Timeout:       settings.Indexing.Timeout,
		RatePerSecond: settings.Indexing.RatePerSecond,
		Burst:         settings.Indexing.Burst,
		TokenURL:      settings.Indexing.TokenURL,
		ClientID:      settings.Indexing.ClientID,
		ClientSecret:  settings.Indexing.ClientSecret,
	})

	// 5. Services
	collector := services.NewCollector(
		services.CollectorStores{
			Source:     source,
			References: source,
			Raw:        stores.raw,
			Decisions:  stores.decisions,
			SyncState:  stores.syncState,
		},
		client,
		client,
		file.NewWhitelistLoader(settings.Collect.WhitelistPath),
		settings.Collect,
	)

	return &cli.JobConfig{
		Collector:         collector,
		Reinjector:        services.NewReinjector(source, stores.decisions, client),
		ScreeningImporter: services.NewScreeningImporter(stores.raw, stores.decisions, client, client),
		SettingsService:   settingsService,
		RunRecorder:       metrics.NewRecorder(settings.Metrics.Textfile),
		Close: func() error {
			return errors.Join(stores.close(), source.Close())
		},
	}, nil
}

// openDocumentStores opens the raw mirror and normalized stores of the
// configured driver.
func openDocumentStores(ctx context.Context, settings domain.StoreSettings) (*documentStores, error) {
	switch settings.Driver {
	case domain.StoreDriverSQLite:
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &documentStores{
			raw:       store.RawDecisionStore(),
			decisions: store.DecisionStore(),
			syncState: store.SyncStateStore(),
			close:     store.Close,
		}, nil

	case domain.StoreDriverMongo:
		store, err := mongo.NewStore(ctx, settings.URI, settings.Database)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return &documentStores{
			raw:       store.RawDecisionStore(),
			decisions: store.DecisionStore(),
			syncState: store.SyncStateStore(),
			close: func() error {
				return store.Close(context.Background())
			},
		}, nil

	case domain.StoreDriverMemory:
		logger.Warn("Using in-memory document stores, nothing will be kept")
		return &documentStores{
			raw:       memory.NewRawDecisionStore(),
			decisions: memory.NewDecisionStore(),
			syncState: memory.NewSyncStateStore(),
			close:     func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", domain.ErrInvalidInput, settings.Driver)
	}
}
