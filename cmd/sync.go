package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncCMD = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization for today's date",
	Long:  `Fetch today's fund prices from TEFAS and replace today's rows in the target table. Exits non-zero when the run fails.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, job, log := setup()
		defer log.Sync()

		if err := job.Handler(cmd.Context(), nil, nil); err != nil {
			log.Fatal("Sync failed", zap.Error(err))
		}

		log.Info("Sync completed successfully")
	},
}
