package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show current settings",
	Long: `Shows the settings the jobs run with, defaults filled in, and whether
they are complete. Secrets are masked.`,
	Annotations: map[string]string{annotationNeeds: needsSettings},
	RunE:        runSettingsShow,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if jobConfig == nil || jobConfig.SettingsService == nil {
		return fmt.Errorf("settings service %w", domain.ErrNotConfigured)
	}

	settings, err := jobConfig.SettingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Source]")
	cmd.Printf("  Driver: %s\n", settings.Source.Driver)
	cmd.Printf("  DSN: %s\n", orNotSet(maskDSN(settings.Source.DSN)))
	cmd.Printf("  Reference DSN: %s\n", orNotSet(maskDSN(settings.Source.ReferenceDSN)))
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Driver: %s\n", settings.Store.Driver.Description())
	switch settings.Store.Driver {
	case domain.StoreDriverMongo:
		cmd.Printf("  URI: %s\n", orNotSet(maskDSN(settings.Store.URI)))
		cmd.Printf("  Database: %s\n", settings.Store.Database)
	case domain.StoreDriverSQLite:
		cmd.Printf("  Data Dir: %s\n", orNotSet(settings.Store.DataDir))
	}
	cmd.Println()

	cmd.Println("[Indexing]")
	cmd.Printf("  Base URL: %s\n", settings.Indexing.BaseURL)
	cmd.Printf("  Timeout: %s\n", settings.Indexing.Timeout)
	cmd.Printf("  Rate: %.1f/s (burst %d)\n", settings.Indexing.RatePerSecond, settings.Indexing.Burst)
	if settings.Indexing.UsesOAuth() {
		cmd.Printf("  Client ID: %s\n", settings.Indexing.ClientID)
		cmd.Printf("  Client Secret: %s\n", maskAPIKey(settings.Indexing.ClientSecret))
	} else {
		cmd.Printf("  Auth: none\n")
	}
	cmd.Println()

	cmd.Println("[Collect]")
	cmd.Printf("  Whitelist: %s\n", orNotSet(settings.Collect.WhitelistPath))
	cmd.Printf("  New window: %d month(s)\n", settings.Collect.NewWindowMonths)
	cmd.Printf("  Sync fallback: %s\n", settings.Collect.SyncFallback)
	cmd.Println()

	cmd.Println("[Metrics]")
	cmd.Printf("  Textfile: %s\n", orNotSet(settings.Metrics.Textfile))
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Status: incomplete (%v)\n", err)
	} else {
		cmd.Println("Status: ready")
	}
	return nil
}

// maskAPIKey masks a secret for display, showing first and last 4 chars.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskDSN hides the password of URL-shaped connection strings.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
