// Package worker keeps a secondary export target in step with the ledger by
// reacting to expense change notifications.
package worker

import (
	"context"
	"errors"
	"fmt"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/log"
)

// EventExporter is the part of BudgetService the worker needs.
type EventExporter interface {
	ListEventNames(ctx context.Context) ([]string, error)
	ExportStoredEvent(ctx context.Context, eventName, target string) (string, error)
}

// MirrorWorker re-exports an event to target whenever one of its expenses
// changes. Exports replace the whole tab, so redelivered or reordered
// messages converge on the stored state.
type MirrorWorker struct {
	exporter EventExporter
	target   string
	logger   *log.Logger
}

func NewMirrorWorker(exporter EventExporter, target string, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirrorWorker{
		exporter: exporter,
		target:   target,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange mirrors the event named in msg.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.ExpenseChangeMessage) error {
	w.logger.InfoContext(ctx, "Processing change message",
		"message_id", msg.MessageID,
		"type", msg.Type,
		log.FieldEventName, msg.EventName,
		log.FieldExpenseID, msg.ExpenseID)

	return w.mirror(ctx, msg.EventName)
}

// SyncAll mirrors every event. It runs at startup and periodically to
// recover from lost messages or worker downtime.
func (w *MirrorWorker) SyncAll(ctx context.Context) error {
	names, err := w.exporter.ListEventNames(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	var failed int
	for _, name := range names {
		if err := w.mirror(ctx, name); err != nil {
			w.logger.ErrorContext(ctx, "Failed to mirror event", log.FieldEventName, name, log.FieldError, err)
			failed++
		}
	}

	w.logger.InfoContext(ctx, "Full sync completed", "events", len(names), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d events failed to sync", failed, len(names))
	}
	return nil
}

func (w *MirrorWorker) mirror(ctx context.Context, eventName string) error {
	ref, err := w.exporter.ExportStoredEvent(ctx, eventName, w.target)
	if errors.Is(err, core.ErrNothingToExport) {
		// Nothing left to show; the previous copy stays as it was.
		w.logger.InfoContext(ctx, "Event has no expenses, skipping", log.FieldEventName, eventName)
		return nil
	}
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Event mirrored",
		log.FieldEventName, eventName,
		log.FieldExportTarget, w.target,
		"ref", ref)
	return nil
}
