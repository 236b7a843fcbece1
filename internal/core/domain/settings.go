package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// StoreDriver selects the backend of the raw mirror and normalized stores.
type StoreDriver string

// Available store drivers.
const (
	// StoreDriverSQLite keeps both stores in a local SQLite database.
	StoreDriverSQLite StoreDriver = "sqlite"

	// StoreDriverMongo uses a MongoDB database, as in production.
	StoreDriverMongo StoreDriver = "mongo"

	// StoreDriverMemory keeps everything in memory; nothing survives the run.
	StoreDriverMemory StoreDriver = "memory"
)

// IsValid returns true if the driver is recognised.
func (d StoreDriver) IsValid() bool {
	switch d {
	case StoreDriverSQLite, StoreDriverMongo, StoreDriverMemory:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the driver.
func (d StoreDriver) Description() string {
	switch d {
	case StoreDriverSQLite:
		return "SQLite (local file)"
	case StoreDriverMongo:
		return "MongoDB"
	case StoreDriverMemory:
		return "In-memory (dry run)"
	default:
		return unknownDescription
	}
}

// SourceSettings configures the relational source database.
type SourceSettings struct {
	// Driver is the database/sql driver name ("pgx" or "sqlite").
	Driver string

	// DSN is the connection string of the decisions database.
	DSN string

	// ReferenceDSN is the connection string of the database holding the
	// occultation blocks. Empty means the decisions database.
	ReferenceDSN string
}

// StoreSettings configures the document stores.
type StoreSettings struct {
	Driver   StoreDriver
	URI      string
	Database string
	DataDir  string
}

// IndexingSettings configures the indexing and screening service client.
type IndexingSettings struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int

	// TokenURL, ClientID and ClientSecret enable OAuth2 client credentials
	// when all three are set.
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// UsesOAuth returns true if client credentials are configured.
func (s IndexingSettings) UsesOAuth() bool {
	return s.TokenURL != "" && s.ClientID != "" && s.ClientSecret != ""
}

// CollectSettings configures the collection jobs.
type CollectSettings struct {
	// WhitelistPath is a JSON array of decision identifiers.
	WhitelistPath string

	// NewWindowMonths is how far back first-time collection looks.
	NewWindowMonths int

	// SyncFallback is how far back a sync looks when no previous run is recorded.
	SyncFallback time.Duration
}

// MetricsSettings configures run metrics.
type MetricsSettings struct {
	// Textfile is where metrics are written after each job. Empty disables it.
	Textfile string
}

// Settings holds the configuration of every job.
type Settings struct {
	Source   SourceSettings
	Store    StoreSettings
	Indexing IndexingSettings
	Collect  CollectSettings
	Metrics  MetricsSettings
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		Source: SourceSettings{
			Driver: "pgx",
		},
		Store: StoreSettings{
			Driver:   StoreDriverSQLite,
			Database: "sder",
		},
		Indexing: IndexingSettings{
			BaseURL:       "http://localhost:3008",
			Timeout:       60 * time.Second,
			RatePerSecond: 20,
			Burst:         5,
		},
		Collect: CollectSettings{
			NewWindowMonths: 1,
			SyncFallback:    24 * time.Hour,
		},
	}
}

// Validate checks settings required by every job.
func (s Settings) Validate() error {
	if s.Source.DSN == "" {
		return fmt.Errorf("%w: source.dsn is required", ErrInvalidInput)
	}
	if !s.Store.Driver.IsValid() {
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidInput, s.Store.Driver)
	}
	if s.Store.Driver == StoreDriverMongo && s.Store.URI == "" {
		return fmt.Errorf("%w: store.uri is required for mongo", ErrInvalidInput)
	}
	if s.Indexing.BaseURL == "" {
		return fmt.Errorf("%w: indexing.base_url is required", ErrInvalidInput)
	}
	if s.Collect.NewWindowMonths <= 0 {
		return fmt.Errorf("%w: collect.new_window_months must be positive", ErrInvalidInput)
	}
	return nil
}
