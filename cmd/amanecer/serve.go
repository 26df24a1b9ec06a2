package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abdulachik/amanecer/internal/api"
	"github.com/abdulachik/amanecer/internal/app"
	"github.com/abdulachik/amanecer/internal/config"
	"github.com/abdulachik/amanecer/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the read API",
	Long: `Run the daemon that generates tomorrow's phrase every night at local
midnight and serves published phrases over HTTP.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := openApp(ctx, (*config.Config).ValidateForServe)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.Config
	health := scheduler.NewHealth()

	if _, err := a.ProbeStore(ctx, health); err != nil {
		slog.Error("store probe failed", "error", err)
	}
	if a.Generator.Enabled() {
		health.SetHealthy(app.ComponentGenerator, "gemini "+cfg.GeminiModel)
	} else {
		health.SetHealthy(app.ComponentGenerator, "fallback only")
	}

	sched := scheduler.New(scheduler.Config{
		Runner: a.Pipeline,
		Health: health,
	})

	if cfg.RunOnStart {
		if res, err := sched.RunNow(ctx); err != nil {
			slog.Error("startup run failed", "error", err)
		} else {
			slog.Info("startup run complete", "state", res.State, "date", res.Date)
		}
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(cfg.HTTPAddr, api.NewRouter(api.Config{
		Reader:    a.Reader,
		Health:    health,
		RateLimit: cfg.APIRateLimit,
	}))
	errCh := srv.Start()

	slog.Info("amanecer daemon started",
		"backend", cfg.StoreBackend,
		"addr", cfg.HTTPAddr,
		"next_slot", a.Pipeline.TargetDate(),
	)

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		serveErr = err
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown incomplete", "error", err)
	}

	sched.Stop()
	cancel()

	return serveErr
}
