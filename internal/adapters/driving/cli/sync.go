package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise decisions modified at the source",
	Long: `Re-collects the decisions modified since the last synchronisation and
updates the mirrored and normalized copies when a significant field changed.

Changes to occultation fields reset the labelling of the decision. Locked
decisions are left untouched.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if jobConfig == nil || jobConfig.Collector == nil {
		return fmt.Errorf("collector %w", domain.ErrNotConfigured)
	}

	summary := runJob(cmd.Context(), "sync", jobConfig.Collector.SyncUpdated)
	flushMetrics()

	cmd.Println(summary.String())
	return nil
}
