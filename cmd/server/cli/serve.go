package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rohits-web03/webfile/internal/api"
	"github.com/rohits-web03/webfile/internal/api/services"
	"github.com/rohits-web03/webfile/internal/config"
	"github.com/rohits-web03/webfile/internal/logging"
)

func newServeCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.load()
			if err != nil {
				return err
			}

			log := newLogger(cfg)
			app, err := api.NewApp(cfg, log, services.TagEntityMetadata)
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, app.Handler, log)
		},
	}
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.New(logging.Options{
		Level:      cfg.Log.Level,
		JSON:       cfg.Log.JSON || cfg.IsProduction(),
		File:       cfg.Log.File,
		NoTerminal: cfg.Log.NoTerminal,
		Rotation: logging.Rotation{
			MaxSize:    cfg.Log.Rotation.MaxSize,
			MaxBackups: cfg.Log.Rotation.MaxBackups,
			MaxAge:     cfg.Log.Rotation.MaxAge,
			Compress:   cfg.Log.Rotation.Compress,
		},
	})
}

// serve runs the server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, cfg *config.Config, handler http.Handler, log logging.Logger) error {
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
		// no read or write timeout: local uploads stream large bodies
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting webfile server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info(shutdownCtx, "shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
