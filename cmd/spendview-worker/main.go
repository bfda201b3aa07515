package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spendview/internal/amqp"
	"spendview/internal/cli"
	"spendview/internal/config"
	"spendview/internal/log"
	"spendview/internal/source"
	csvsource "spendview/internal/source/csv"
	googlesource "spendview/internal/source/google"
	"spendview/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting spendview-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	upstream := upstreamLoader(logger, cfg)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	refreshWorker := worker.NewRefreshWorker(upstream, repo, cfg.SnapshotMaxAge)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Refresh on startup when the snapshot is missing or stale.
	if err := refreshWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup refresh failed", "error", err)
		// Keep running; the periodic refresh will retry.
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeRefreshRequests(gctx, refreshWorker.HandleRefreshRequest)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := refreshWorker.Refresh(gctx); err != nil {
					logger.Error("Periodic refresh failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}

// upstreamLoader picks the source the worker refreshes from. The snapshot
// itself is never a valid upstream.
func upstreamLoader(logger *log.Logger, cfg *config.Config) source.ExpenseLoader {
	switch source.Backend(cfg.DataSource) {
	case source.BackendSheets, source.BackendSnapshot:
		client, err := googlesource.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Refreshing snapshot from Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return client
	case source.BackendCSV:
		logger.Info("Refreshing snapshot from CSV", "path", cfg.CSVPath)
		return csvsource.New(cfg.CSVPath)
	default:
		logger.Error("Unknown data source", "data_source", cfg.DataSource)
		os.Exit(1)
		return nil
	}
}
