package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

var judifiltreCmd = &cobra.Command{
	Use:   "judifiltre",
	Short: "Import the screening verdicts",
	Long: `Imports the decisions released as public by the Judifiltre screening
service, then removes the decisions it screened as not public.`,
	RunE: runJudifiltre,
}

func init() {
	rootCmd.AddCommand(judifiltreCmd)
}

func runJudifiltre(cmd *cobra.Command, _ []string) error {
	if jobConfig == nil || jobConfig.ScreeningImporter == nil {
		return fmt.Errorf("screening importer %w", domain.ErrNotConfigured)
	}

	ctx := cmd.Context()
	var summary domain.RunSummary
	summary.Merge(runJob(ctx, "judifiltre-public", jobConfig.ScreeningImporter.ImportReleased))
	summary.Merge(runJob(ctx, "judifiltre-not-public", jobConfig.ScreeningImporter.CleanNotPublic))
	flushMetrics()

	cmd.Printf("New: %d, Update: %d, Cleaned: %d, Skip: %d, Error: %d\n",
		summary.New, summary.Updated, summary.Deleted, summary.Skipped, summary.Errors)
	return nil
}
