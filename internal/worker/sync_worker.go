// Package worker keeps the exported grade summaries in step with the
// stored grade book.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gradetracker/internal/amqp"
	"gradetracker/internal/core"
	applog "gradetracker/internal/log"
	"gradetracker/internal/storage"
)

// Consumer delivers store changed messages to a handler until ctx is done.
type Consumer interface {
	ConsumeStoreChanged(ctx context.Context, handler amqp.Handler) error
}

// Exporter writes computed summaries somewhere.
type Exporter interface {
	ExportYear(ctx context.Context, data core.Data, year string) error
	ExportAll(ctx context.Context, data core.Data) error
}

// SyncWorker re-exports the grade book when it changes and on a fixed
// interval.
type SyncWorker struct {
	repo     storage.Loader
	exporter Exporter
	consumer Consumer
	interval time.Duration
}

// NewSyncWorker creates a worker. A nil consumer leaves only the periodic
// export running.
func NewSyncWorker(repo storage.Loader, exporter Exporter, consumer Consumer, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		repo:     repo,
		exporter: exporter,
		consumer: consumer,
		interval: interval,
	}
}

// HandleStoreChanged reloads the grade book and exports the year named in
// msg, or every year when the message names none. Returning an error
// requeues the message.
func (w *SyncWorker) HandleStoreChanged(ctx context.Context, msg *amqp.StoreChangedMessage) error {
	data, err := w.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load grade book: %w", err)
	}

	if msg.Year == "" {
		return w.exporter.ExportAll(ctx, data)
	}
	return w.exporter.ExportYear(ctx, data, msg.Year)
}

// SyncAll exports every year of the stored grade book.
func (w *SyncWorker) SyncAll(ctx context.Context) error {
	data, err := w.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load grade book: %w", err)
	}
	if err := w.exporter.ExportAll(ctx, data); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Full export completed", "years", len(data))
	return nil
}

// Run starts the consumer and the periodic export and blocks until ctx is
// cancelled or the consumer fails for good.
func (w *SyncWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if w.consumer != nil {
		g.Go(func() error {
			return w.consumer.ConsumeStoreChanged(ctx, w.HandleStoreChanged)
		})
	}

	g.Go(func() error {
		return w.runPeriodic(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (w *SyncWorker) runPeriodic(ctx context.Context) error {
	w.syncAndLog(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.syncAndLog(ctx)
		}
	}
}

func (w *SyncWorker) syncAndLog(ctx context.Context) {
	if err := w.SyncAll(ctx); err != nil && ctx.Err() == nil {
		slog.ErrorContext(ctx, "Periodic export failed", applog.FieldError, err)
	}
}
