package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hos-logbook-service/internal/api"
	"hos-logbook-service/internal/app"
	"hos-logbook-service/internal/config"
	"hos-logbook-service/internal/platform/logger"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// main is the application composition root for the HTTP service.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := pflag.String("config-dir", ".", "directory holding the .env file")
	offline := pflag.Bool("offline", false, "skip geocoding and routing providers and use fallbacks")
	pflag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{Offline: *offline})
	if err != nil {
		return err
	}
	defer a.Close()

	// Timeouts are tuned for cold-cache planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           api.NewRouter(a.Planner),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Get().Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("db_driver", string(cfg.Dialect())),
			zap.String("routing_provider", cfg.Routing.Provider),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Get().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
