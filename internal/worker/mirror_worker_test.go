package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/log"
)

type fakeExporter struct {
	events   []string
	exported []string
	failOn   map[string]error
	listErr  error
}

func (f *fakeExporter) ListEventNames(ctx context.Context) ([]string, error) {
	return f.events, f.listErr
}

func (f *fakeExporter) ExportStoredEvent(ctx context.Context, eventName, target string) (string, error) {
	if err := f.failOn[eventName]; err != nil {
		return "", err
	}
	f.exported = append(f.exported, target+":"+eventName)
	return "ref", nil
}

func quiet() *log.Logger { return log.New(log.Config{Output: io.Discard}) }

func TestHandleChange(t *testing.T) {
	exp := &fakeExporter{failOn: map[string]error{
		"Empty":  fmt.Errorf("export sheets: %w", core.ErrNothingToExport),
		"Broken": errors.New("quota exceeded"),
	}}
	w := NewMirrorWorker(exp, "sheets", quiet())
	ctx := context.Background()

	if err := w.HandleChange(ctx, amqp.NewExpenseDeletedMessage("Picnic", "a1b2c3")); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}
	if len(exp.exported) != 1 || exp.exported[0] != "sheets:Picnic" {
		t.Fatalf("exported = %v", exp.exported)
	}

	if err := w.HandleChange(ctx, amqp.NewExpenseDeletedMessage("Empty", "x")); err != nil {
		t.Fatalf("empty event should be skipped, got %v", err)
	}
	if err := w.HandleChange(ctx, amqp.NewExpenseDeletedMessage("Broken", "x")); err == nil {
		t.Fatal("export failures must be returned so the message is retried")
	}
}

func TestSyncAll(t *testing.T) {
	ctx := context.Background()

	exp := &fakeExporter{events: []string{"A", "B", "C"}, failOn: map[string]error{"B": errors.New("boom")}}
	w := NewMirrorWorker(exp, "sheets", quiet())
	err := w.SyncAll(ctx)
	if err == nil {
		t.Fatal("expected error when an event fails")
	}
	if len(exp.exported) != 2 {
		t.Fatalf("other events should still sync, exported = %v", exp.exported)
	}

	exp = &fakeExporter{listErr: errors.New("disk")}
	if err := NewMirrorWorker(exp, "sheets", quiet()).SyncAll(ctx); err == nil {
		t.Fatal("expected list error")
	}
}
