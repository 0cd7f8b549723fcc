package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"contact_keeper/internal/client/api"
	"contact_keeper/internal/client/app"
	"contact_keeper/internal/client/cli"
	"contact_keeper/internal/client/storage"
	"contact_keeper/internal/config"
	"contact_keeper/internal/logging"

	evbus "github.com/asaskevich/EventBus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logging.New(os.Stderr, "error").Error(ctx, "client failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.LogLevel)

	tokens, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer tokens.Close()

	bus := evbus.New()
	session := app.New(app.Options{
		API:          api.New(cfg.APIURL),
		Tokens:       tokens,
		Bus:          bus,
		Logger:       log,
		AlertTimeout: cfg.AlertTimeout,
	})

	shell, err := cli.NewShell(session, bus, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	// a stale or rejected token just leaves the user logged out
	if err := session.Start(ctx); err != nil {
		log.Debug(ctx, "could not resume session", "error", err)
	}

	return shell.Run(ctx)
}
