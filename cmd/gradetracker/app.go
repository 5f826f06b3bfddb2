package main

import (
	"context"
	"fmt"
	"io"

	"gradetracker/internal/amqp"
	"gradetracker/internal/backend"
	"gradetracker/internal/cli"
	"gradetracker/internal/config"
	applog "gradetracker/internal/log"
	"gradetracker/internal/tracker"
)

// options are the flag overrides shared by every command.
type options struct {
	file    string
	backend string
}

// app holds what a command needs once configuration has been resolved.
type app struct {
	cfg     *config.Config
	logger  *applog.Logger
	store   *tracker.Store
	cleanup []func() error
}

// loadConfig reads the environment, applies flag overrides and validates.
func loadConfig(opts options, logOut io.Writer) (*config.Config, *applog.Logger, error) {
	cli.LoadEnvFile()

	cfg := config.Load()
	if opts.backend != "" {
		cfg.DataBackend = opts.backend
	}
	if opts.file != "" {
		cfg.GradesFile = opts.file
		if opts.backend == "" {
			cfg.DataBackend = string(backend.FileBackend)
		}
	}

	logger := cli.SetupLogger(cfg.LogLevel, logOut)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openApp opens the configured grade book. When publish is true and an
// AMQP URL is configured, saved changes are announced on the broker; a
// broker that cannot be reached only disables the announcements.
func openApp(ctx context.Context, opts options, logOut io.Writer, publish bool) (*app, error) {
	cfg, logger, err := loadConfig(opts, logOut)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}
	a.cleanup = append(a.cleanup, result.Close)

	var publisher tracker.Publisher
	if publish && cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.WarnContext(ctx, "Change notifications disabled", applog.FieldError, err)
		} else {
			publisher = client
			a.cleanup = append(a.cleanup, client.Close)
		}
	}

	store, err := tracker.Open(ctx, result.Repository, publisher)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			a.logger.Warn("Cleanup failed", applog.FieldError, err)
		}
	}
	a.cleanup = nil
}
