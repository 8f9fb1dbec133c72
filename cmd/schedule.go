package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/viktsys/tefassync/scheduler"
	"go.uber.org/zap"
)

var scheduleCMD = &cobra.Command{
	Use:   "schedule",
	Short: "Run the synchronization every day at SCHEDULE_AT",
	Long:  `Keep running and trigger one synchronization per day at the local time given by SCHEDULE_AT (HH:MM).`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, job, log := setup()
		defer log.Sync()

		if err := validateStartup(cfg); err != nil {
			log.Fatal("Invalid configuration", zap.Error(err))
		}

		hour, minute, err := cfg.ScheduleClock()
		if err != nil {
			log.Fatal("Invalid schedule", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		daily := &scheduler.Daily{
			Hour:   hour,
			Minute: minute,
			Run: func(ctx context.Context) error {
				return job.Handler(ctx, nil, nil)
			},
			Log: log.Named("scheduler"),
		}
		daily.Start(ctx)
	},
}
