package main

import (
	"context"
	"os"

	"gradetracker/internal/amqp"
	"gradetracker/internal/backend"
	"gradetracker/internal/cache"
	"gradetracker/internal/cli"
	applog "gradetracker/internal/log"
	"gradetracker/internal/services"
	gsheet "gradetracker/internal/sheets/google"
	"gradetracker/internal/worker"
)

const exportCacheSize = 256

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	// Bootstrap at info until the configured level is known
	logger := cli.SetupLogger("info", os.Stdout)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, os.Stdout).WithComponent(applog.ComponentWorker)

	logger.Info("Starting gradetracker-worker", applog.FieldBackend, cfg.DataBackend)

	if !cfg.ExportEnabled() {
		logger.Error("Nothing to do - no GOOGLE_SPREADSHEET_ID provided")
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", applog.FieldError, err)
		os.Exit(1)
	}
	defer result.Close()

	sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	// Change notifications are optional; without them only the periodic export runs
	var consumer worker.Consumer
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		consumer = amqpClient
	} else {
		logger.Info("Skipping AMQP message consumption - no AMQP_URL provided")
	}

	exporter := services.NewExportService(sheetsClient, cfg.ExportConcurrency)
	if cfg.ExportCacheTTL > 0 {
		exporter.WithCache(cache.NewLRU[string](exportCacheSize, cfg.ExportCacheTTL))
	}
	syncWorker := worker.NewSyncWorker(result.Repository, exporter, consumer, cfg.SyncInterval)

	if err := syncWorker.Run(ctx); err != nil {
		logger.Error("Worker stopped", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
