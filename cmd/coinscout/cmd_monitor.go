package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coinscout/coinscout/internal/application/monitor"
	"github.com/coinscout/coinscout/internal/config"
)

func newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Scan continuously on an interval",
		Long: `Runs scans on a fixed interval until interrupted, logging alerts for
large price moves. Also serves /metrics and /health unless --no-server
is set.`,
		RunE: runMonitorCmd,
	}
	addScanFlags(cmd.Flags())
	cmd.Flags().Duration("interval", 0, "Time between scans (0 uses config)")
	cmd.Flags().Bool("no-server", false, "Disable the ops HTTP server")
	return cmd
}

func runMonitorCmd(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	noServer, _ := cmd.Flags().GetBool("no-server")

	application, err := buildApp(configPath, scanOverrides(cmd), func(cfg *config.Config) {
		if interval > 0 {
			cfg.Monitor.Interval = interval
		}
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !noServer {
		server, err := application.opsServer()
		if err != nil {
			return err
		}
		go func() {
			if err := server.Start(); err != nil {
				log.Error().Err(err).Msg("ops server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("ops server shutdown")
			}
		}()
	}

	mon := monitor.New(application.scanner, monitor.RealClock{}, application.cfg.Monitor)
	if err := mon.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	log.Info().Msg("monitor stopped")
	return nil
}
