package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpLayer "tax-estimator/http"
	"tax-estimator/logger"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the estimator over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}

	svc, cleanup, err := buildService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var rateLimiter *httpLayer.RateLimiter
	if cfg.RateLimit.Capacity > 0 {
		rateLimiter = httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill.Duration)
		defer rateLimiter.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpLayer.NewRouter(httpLayer.NewTaxHandler(svc), rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("schedule", svc.Schedule().Name),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		logger.Log.Error("error starting server", zap.Error(err))
		return err
	case <-quit:
		logger.Log.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("error during server shutdown", zap.Error(err))
		return err
	}

	logger.Log.Info("server exited")
	return nil
}
