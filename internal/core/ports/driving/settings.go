package driving

import "github.com/custodia-labs/juricasync/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, defaults filled in.
	Get() (*domain.Settings, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Validate checks if current settings are usable by the jobs.
	Validate() error
}
