package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect new decisions",
	Long: `Collects the decisions created during the collection window that were
never processed. Each accepted decision is mirrored, normalized and indexed,
or submitted for screening when its publication must be checked.

Failing decisions are marked erroneous in the source database and counted.`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	if jobConfig == nil || jobConfig.Collector == nil {
		return fmt.Errorf("collector %w", domain.ErrNotConfigured)
	}

	summary := runJob(cmd.Context(), "collect", jobConfig.Collector.CollectNew)
	flushMetrics()

	cmd.Println(summary.String())
	return nil
}
