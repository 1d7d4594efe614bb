package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adminsuite/adminctl/internal/infrastructure/config"
	"github.com/adminsuite/adminctl/internal/sandbox"
	"github.com/adminsuite/adminctl/pkg/logger"
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Run an embedded development backend",
	Long:  "Run an in-memory implementation of the backend contract on localhost, seeded with one admin account, for developing and testing the console without a real deployment.",
	RunE:  runSandbox,
}

func init() {
	rootCmd.AddCommand(sandboxCmd)
}

func runSandbox(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})

	e, _, err := sandbox.NewRouter(cfg.Sandbox, log)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	addr := ":" + cfg.Sandbox.Port
	go func() {
		log.Info().Str("addr", addr).Msg("sandbox backend starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("sandbox backend failed")
			os.Exit(1)
		}
	}()

	<-sigCh
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
