package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viktsys/tefassync/config"
	"github.com/viktsys/tefassync/ingest"
	"github.com/viktsys/tefassync/logger"
	"github.com/viktsys/tefassync/tefas"
	"go.uber.org/zap"
)

var rootCMD = &cobra.Command{
	Use:   "tefassync",
	Short: "TEFAS daily fund price synchronization",
	Long: `Fetches the daily fund prices published on TEFAS, resolves fund codes
against the funds reference table and replaces today's rows in the price table.
Run it once per trigger with "sync", behind an HTTP trigger with "server", or
on a daily timer with "schedule".`,
}

func Execute() {
	err := rootCMD.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCMD.AddCommand(syncCMD, serverCMD, scheduleCMD)
}

// setup loads configuration once and wires the job with its logger. The job
// validates the configuration again on every run; long-running commands also
// call validateStartup so a bad setting fails at start.
func setup() (config.Config, *ingest.Job, *zap.Logger) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}

	crawler := tefas.NewCrawler(cfg.TefasURL, cfg.FundKind, cfg.HTTPTimeout)
	job := ingest.NewJob(cfg, crawler, ingest.OpenStore, log)

	log.Info("Configuration loaded",
		zap.String("profile", cfg.Profile),
		zap.String("target_table", cfg.TargetTable),
		zap.Bool("resolve_fund_ids", cfg.ResolveFundIDs),
	)
	return cfg, job, log
}

func validateStartup(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return &ingest.ConfigurationError{Err: err}
	}
	return nil
}
