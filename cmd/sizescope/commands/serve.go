package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sizescope/sizescope/internal/dashboard"
	"github.com/sizescope/sizescope/internal/observability"
)

// shutdownGrace bounds graceful shutdown after a termination signal.
const shutdownGrace = 10 * time.Second

// ServeCommand holds configuration for the dashboard server command.
type ServeCommand struct {
	listen string
	theme  string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	sc := &ServeCommand{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison dashboard",
		Long:  "Serve the size comparison dashboard and its JSON API over HTTP.",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	addDataFlags(cmd)
	cmd.Flags().StringVar(&sc.listen, "listen", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&sc.theme, "theme", "", "Dashboard theme: light or dark")

	return cmd
}

func (sc *ServeCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	if sc.listen != "" {
		cfg.Serve.Listen = sc.listen
	}

	if sc.theme != "" {
		cfg.Serve.Theme = sc.theme

		err = cfg.Validate(true)
		if err != nil {
			return err
		}
	}

	obsCfg := observability.DefaultConfig()

	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("initializing observability: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		_ = providers.Shutdown(shutdownCtx)
	}()

	loader, err := buildLoader(cfg)
	if err != nil {
		return err
	}

	service := dashboard.NewService(loader, cfg)

	server, err := dashboard.NewServer(service, cfg.Serve.Listen, providers.Logger, providers.Tracer)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		providers.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		err = server.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
	}

	return nil
}
