package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imbalance-report/internal/api"
	"imbalance-report/internal/config"
	"imbalance-report/internal/data"
	"imbalance-report/internal/logging"
	"imbalance-report/internal/metrics"
	"imbalance-report/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("IMBALANCE_CONFIG"), "Path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		slog.Error("api server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	client := data.NewBMRSClient(cfg.Source.BaseURL, cfg.Source.Timeout)
	client.Logger = logger
	client.Metrics = m
	if cfg.Source.CacheEnabled {
		client.Cache = data.NewResponseCache(cfg.Source.CacheTTL)
		go client.Cache.RunCleanup(ctx, 5*time.Minute)
	}

	opts := api.Options{
		Source:      client,
		Metrics:     m,
		Logger:      logger,
		CORSOrigins: cfg.Server.CORSOrigins,
		Currency:    cfg.Report.CurrencySymbol,
	}
	// Leave Archive as a nil interface when no store is configured.
	if cfg.Store.Path != "" {
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open report archive %s: %w", cfg.Store.Path, err)
		}
		defer st.Close()
		opts.Archive = st
		logger.Info("report archive enabled", slog.String("path", cfg.Store.Path))
	}

	if cfg.Server.ReleaseMode || os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(opts)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting API server",
			slog.String("addr", srv.Addr),
			slog.String("source", cfg.Source.BaseURL),
			slog.Bool("cache", cfg.Source.CacheEnabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
