package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viktsys/tefassync/api"
	"go.uber.org/zap"
)

var serverCMD = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP trigger server",
	Long:  `Start an HTTP server exposing POST /sync, which runs one synchronization per request, and GET /health.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, job, log := setup()
		defer log.Sync()

		if err := validateStartup(cfg); err != nil {
			log.Fatal("Invalid configuration", zap.Error(err))
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
			Handler: api.SetupRoutes(job.Handler, log),
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			log.Info("Starting server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("Failed to start server", zap.Error(err))
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", zap.Error(err))
		}
		log.Info("Server stopped")
	},
}
