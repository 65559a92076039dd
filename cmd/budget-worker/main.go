package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/amqp"
	"budget/internal/cli"
	"budget/internal/log"
	"budget/internal/services"
	"budget/internal/worker"
)

func main() {
	cfg, logger := cli.LoadConfig()

	if cfg.AMQPURL == "" || !cfg.SheetsEnabled() {
		logger.Error("budget-worker needs AMQP_URL and GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	// The worker only reads the ledger, so it does not publish changes.
	appCfg := *cfg
	appCfg.AMQPURL = ""
	app, err := cli.BuildApp(ctx, &appCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", log.FieldError, err)
		os.Exit(1)
	}
	defer app.Close()

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer consumer.Close()

	w := worker.NewMirrorWorker(app.Service, services.TargetSheets, logger)

	if err := w.SyncAll(ctx); err != nil {
		logger.Warn("Startup sync incomplete", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.ConsumeExpenseChanges(gctx, w.HandleChange)
	})
	if cfg.SyncInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.SyncInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-ticker.C:
					if err := w.SyncAll(gctx); err != nil {
						logger.Warn("Periodic sync incomplete", log.FieldError, err)
					}
				}
			}
		})
	}

	logger.Info("Worker started", "queue", cfg.AMQPQueue, "sync_interval", cfg.SyncInterval)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
