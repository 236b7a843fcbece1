package services

import (
	"time"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
	"github.com/custodia-labs/juricasync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySourceDriver       = "source.driver"
	keySourceDSN          = "source.dsn"
	keySourceReferenceDSN = "source.reference_dsn"
	keyStoreDriver        = "store.driver"
	keyStoreURI           = "store.uri"
	keyStoreDatabase      = "store.database"
	keyStoreDataDir       = "store.data_dir"
	keyIndexingBaseURL    = "indexing.base_url"
	keyIndexingTimeout    = "indexing.timeout"
	keyIndexingRate       = "indexing.rate_per_second"
	keyIndexingBurst      = "indexing.burst"
	keyIndexingTokenURL   = "indexing.token_url"
	keyIndexingClientID   = "indexing.client_id"
	keyIndexingSecret     = "indexing.client_secret"
	keyWhitelistPath      = "collect.whitelist_path"
	keyNewWindowMonths    = "collect.new_window_months"
	keySyncFallback       = "collect.sync_fallback"
	keyMetricsTextfile    = "metrics.textfile"
)

// SettingsService reads job settings from the configuration store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Missing or invalid values fall back to
// their defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Source: domain.SourceSettings{
			Driver:       s.getString(keySourceDriver, defaults.Source.Driver),
			DSN:          s.configStore.GetString(keySourceDSN),
			ReferenceDSN: s.configStore.GetString(keySourceReferenceDSN), // Empty means the decisions database
		},
		Store: domain.StoreSettings{
			Driver:   s.getStoreDriver(defaults.Store.Driver),
			URI:      s.configStore.GetString(keyStoreURI),
			Database: s.getString(keyStoreDatabase, defaults.Store.Database),
			DataDir:  s.configStore.GetString(keyStoreDataDir),
		},
		Indexing: domain.IndexingSettings{
			BaseURL:       s.getString(keyIndexingBaseURL, defaults.Indexing.BaseURL),
			Timeout:       s.getDuration(keyIndexingTimeout, defaults.Indexing.Timeout),
			RatePerSecond: s.getFloat(keyIndexingRate, defaults.Indexing.RatePerSecond),
			Burst:         s.getInt(keyIndexingBurst, defaults.Indexing.Burst),
			TokenURL:      s.configStore.GetString(keyIndexingTokenURL),
			ClientID:      s.configStore.GetString(keyIndexingClientID),
			ClientSecret:  s.configStore.GetString(keyIndexingSecret),
		},
		Collect: domain.CollectSettings{
			WhitelistPath:   s.configStore.GetString(keyWhitelistPath),
			NewWindowMonths: s.getInt(keyNewWindowMonths, defaults.Collect.NewWindowMonths),
			SyncFallback:    s.getDuration(keySyncFallback, defaults.Collect.SyncFallback),
		},
		Metrics: domain.MetricsSettings{
			Textfile: s.configStore.GetString(keyMetricsTextfile),
		},
	}

	return settings, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Validate checks if current settings are usable by the jobs.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStoreDriver(defaultVal domain.StoreDriver) domain.StoreDriver {
	val := s.configStore.GetString(keyStoreDriver)
	if val == "" {
		return defaultVal
	}
	driver := domain.StoreDriver(val)
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
