// Package main is the entry point for the screener, a quality-focused stock
// screening engine for the NASDAQ universe. It supports one-shot screening
// runs, point-in-time backtests, and a long-running server mode with
// scheduled screening and an HTTP API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/screener/internal/backtest"
	"github.com/aristath/screener/internal/cache"
	"github.com/aristath/screener/internal/clients/fmp"
	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/output"
	"github.com/aristath/screener/internal/ratelimit"
	"github.com/aristath/screener/internal/scheduler"
	"github.com/aristath/screener/internal/screener"
	"github.com/aristath/screener/internal/server"
	"github.com/aristath/screener/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a JSON config file layered over the defaults")
		profile    = flag.String("profile", "", "screening profile preset (quality, growth, value, balanced)")
		asOf       = flag.String("as-of", "", "backtest cutoff date (YYYY-MM-DD)")
		lookback   = flag.String("lookback", "", "backtest lookback period (3m, 6m, 1y)")
		serve      = flag.Bool("serve", false, "run the HTTP API with scheduled screening")
		schedule   = flag.String("schedule", "0 0 6 * * MON-FRI", "cron schedule for the recurring screen in serve mode")
		outDir     = flag.String("out", "results", "directory for result files")
		clearCache = flag.Bool("clear-cache", false, "clear the response cache and exit")
		logLevel   = flag.String("log-level", "", "log level override (debug, info, warn, error)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if *profile != "" {
		if err := cfg.ApplyProfile(*profile); err != nil {
			fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
			fallbackLog.Fatal().Err(err).Strs("available", config.ProfileNames()).Msg("Unknown profile")
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	cacheManager, err := cache.Build(cfg.Cache.Backend, cfg.Cache.Dir, time.Duration(cfg.Cache.DefaultTTL)*time.Second, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache")
	}
	defer cacheManager.Close()

	if *clearCache {
		if err := cacheManager.Clear(); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear cache")
		}
		log.Info().Msg("Cache cleared")
		return
	}

	// Everything past this point talks to the data provider.
	if err := cfg.RequireAPIKey(); err != nil {
		log.Fatal().Err(err).Msg("Missing API credentials")
	}

	limiter := ratelimit.New(log)
	client := fmp.New(fmp.Config{
		BaseURL:    cfg.API.BaseURL,
		BaseURLV4:  cfg.API.BaseURLV4,
		APIKey:     cfg.APIKey,
		MaxWorkers: cfg.Concurrency.MaxWorkers,
		MaxRetries: cfg.API.MaxRetries,
		Timeout:    time.Duration(cfg.API.TimeoutSec) * time.Second,
	}, cacheManager, limiter, log)

	scr := screener.New(client, cfg, log)
	backtester := backtest.New(scr, log)
	writer := output.NewWriter(*outDir, cfg.Output, log)
	store := screener.NewResultStore()

	switch {
	case *serve:
		runServer(cfg, scr, backtester, store, writer, client, cacheManager, *schedule, log)

	case *asOf != "" || *lookback != "":
		runBacktest(backtester, *asOf, *lookback, log)

	default:
		runScreen(scr, store, writer, log)
	}
}

// runScreen executes a single screening pass and writes the results to disk.
func runScreen(scr *screener.Screener, store *screener.ResultStore, writer *output.Writer, log zerolog.Logger) {
	results, stats, err := scr.Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Screening run failed")
	}

	store.Set(results, stats)

	path, err := writer.Write(results, stats)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write results")
	}

	log.Info().
		Str("run_id", stats.RunID).
		Int("selected", len(results)).
		Str("path", path).
		Msg("Screening complete")
}

// runBacktest replays a screen at a past date and prints the portfolio.
func runBacktest(backtester *backtest.Backtester, asOfArg, lookback string, log zerolog.Logger) {
	var (
		portfolio *backtest.Portfolio
		err       error
	)

	if asOfArg != "" {
		var asOf time.Time
		asOf, err = time.Parse("2006-01-02", asOfArg)
		if err != nil {
			log.Fatal().Str("as_of", asOfArg).Msg("as-of must be YYYY-MM-DD")
		}
		portfolio, err = backtester.Run(context.Background(), asOf)
	} else {
		portfolio, err = backtester.RunLookback(context.Background(), lookback)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Backtest failed")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(portfolio); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode portfolio")
	}
}

// runServer starts the scheduler and HTTP API and blocks until a shutdown
// signal arrives.
func runServer(
	cfg *config.Config,
	scr *screener.Screener,
	backtester *backtest.Backtester,
	store *screener.ResultStore,
	writer *output.Writer,
	client *fmp.Client,
	cacheManager *cache.Manager,
	schedule string,
	log zerolog.Logger,
) {
	sched := scheduler.New(log)

	screenJob := scheduler.NewScreenJob(scr, store, writer, log)
	if err := sched.AddJob(schedule, screenJob); err != nil {
		log.Fatal().Err(err).Str("schedule", schedule).Msg("Failed to schedule screening job")
	}
	if err := sched.AddJob("@daily", cache.NewCleanupJob(cacheManager, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule cache cleanup job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:        log,
		Screener:   scr,
		Backtester: backtester,
		Store:      store,
		Stats:      client,
		Port:       cfg.Server.Port,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	sched.Stop()
	log.Info().Msg("Screener stopped")
}
