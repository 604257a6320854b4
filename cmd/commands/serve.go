package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dverney/taskdeck/internal/config"
	"github.com/dverney/taskdeck/internal/events"
	"github.com/dverney/taskdeck/internal/export"
	"github.com/dverney/taskdeck/internal/gateway"
	"github.com/dverney/taskdeck/internal/sessions"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the taskdeck web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	configPath := cmd.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Warn("config not found, using defaults", "path", configPath, "error", err)
		cfg = config.Default()
	}

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = int(cmd.Int("port"))
	}

	defaultFormat, err := export.ParseFormat(cfg.Export.DefaultFormat)
	if err != nil {
		return fmt.Errorf("config export.default_format: %w", err)
	}

	bus := events.NewBus(cfg.Events.BufferSize)
	registry := sessions.NewRegistry()

	// Log task lifecycle events as they happen.
	unsubscribe := bus.Subscribe(func(e events.Event) {
		slog.Debug("event", "type", e.Type, "session", e.SessionID, "payload", e.Payload)
	})
	defer unsubscribe()

	srv := gateway.NewServer(bus, registry, cfg.Gateway, defaultFormat)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("taskdeck stopped")
	return nil
}
