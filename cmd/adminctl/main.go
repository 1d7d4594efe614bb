package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/adminsuite/adminctl/internal/core/service"
	"github.com/adminsuite/adminctl/internal/gateway"
	"github.com/adminsuite/adminctl/internal/infrastructure/config"
	"github.com/adminsuite/adminctl/internal/store"
	"github.com/adminsuite/adminctl/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "adminctl",
	Short:         "adminctl — terminal console for the admin backend",
	Long:          "adminctl is a terminal console for the user-management backend: it authenticates, recovers passwords, and manages user accounts over the backend's REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app wires configuration, the HTTP gateway, and the state controllers.
// Each command builds one at the start of its run.
type app struct {
	cfg      *config.Config
	sessions *service.SessionService
	users    *service.UsersService
	health   *service.HealthService
}

func newApp() (*app, error) {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})

	gw, err := gateway.New(cfg.BackendURL, cfg.RequestTimeout, log)
	if err != nil {
		return nil, err
	}

	stateDir, err := cfg.StateDir()
	if err != nil {
		return nil, err
	}
	sessionStore := store.NewFileSessionStore(stateDir)

	return &app{
		cfg:      cfg,
		sessions: service.NewSessionService(gw, sessionStore, log),
		users:    service.NewUsersService(gw, log),
		health:   service.NewHealthService(gw, log),
	}, nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
