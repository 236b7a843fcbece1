package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
	"github.com/custodia-labs/juricasync/internal/core/ports/driving"
	"github.com/custodia-labs/juricasync/internal/logger"
)

// version is set at build time with -ldflags "-X".
var version = "dev"

// Annotation telling the root command what a sub-command needs wired.
const (
	annotationNeeds = "needs"
	needsNothing    = "nothing"
	needsSettings   = "settings"
)

// JobConfig holds the services the job commands run against.
type JobConfig struct {
	Collector         driving.Collector
	Reinjector        driving.Reinjector
	ScreeningImporter driving.ScreeningImporter
	SettingsService   driving.SettingsService
	RunRecorder       driven.RunRecorder

	// Close releases the stores and connections. Optional.
	Close func() error
}

// Bootstrap builds the job configuration from the configuration file at
// configPath. With settingsOnly set, only the settings service is needed.
type Bootstrap func(ctx context.Context, configPath string, settingsOnly bool) (*JobConfig, error)

var (
	configPath string
	verbose    bool

	bootstrap Bootstrap
	jobConfig *JobConfig
)

var rootCmd = &cobra.Command{
	Use:   "juricasync",
	Short: "Collect court of appeal decisions for pseudonymisation",
	Long: `juricasync copies court of appeal decisions from the JuriCA database
into the decision store used by the labelling workflow, keeps them in sync,
and writes labelling results back.

Each sub-command runs one batch job to completion and exits.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.juricasync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetBootstrap sets the function wiring the services before a job runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetJobConfig sets the services directly, bypassing the bootstrap.
func SetJobConfig(config *JobConfig) {
	jobConfig = config
}

// Execute runs the root command and releases the wired services.
func Execute() error {
	err := rootCmd.Execute()
	if jobConfig != nil && jobConfig.Close != nil {
		err = errors.Join(err, jobConfig.Close())
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	needs := cmd.Annotations[annotationNeeds]
	if bootstrap == nil || needs == needsNothing {
		return nil
	}

	config, err := bootstrap(cmd.Context(), configPath, needs == needsSettings)
	if err != nil {
		return err
	}
	jobConfig = config
	return nil
}
