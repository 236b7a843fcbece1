package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

var reinjectCmd = &cobra.Command{
	Use:   "reinject",
	Short: "Approve labelled decisions at the source",
	Long: `Writes the approved status back to the source database for every
decision whose labelling is done.`,
	RunE: runReinject,
}

func init() {
	rootCmd.AddCommand(reinjectCmd)
}

func runReinject(cmd *cobra.Command, _ []string) error {
	if jobConfig == nil || jobConfig.Reinjector == nil {
		return fmt.Errorf("reinjector %w", domain.ErrNotConfigured)
	}

	summary := runJob(cmd.Context(), "reinject", jobConfig.Reinjector.Reinject)
	flushMetrics()

	cmd.Printf("Reinjected: %d, Error: %d\n", summary.Updated, summary.Errors)
	return nil
}
