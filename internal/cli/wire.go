package cli

import (
	"context"
	"errors"
	"fmt"

	"budget/internal/amqp"
	"budget/internal/backend"
	"budget/internal/config"
	"budget/internal/export"
	"budget/internal/log"
	"budget/internal/services"
	gsheet "budget/internal/sheets/google"
)

// App is a configured BudgetService plus the resources it holds open.
type App struct {
	Service *services.BudgetService
	closers []func() error
}

// Close releases the store and the AMQP connection.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildApp wires the configured store, the exporters and the optional
// change publisher into a BudgetService. The AMQP publisher and the Sheets
// exporter are optional: failing to set them up is logged and skipped.
func BuildApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}

	app := &App{}
	app.closers = append(app.closers, res.Close)

	opts := []services.Option{
		services.WithLogger(logger.WithComponent(log.ComponentLedger)),
		services.WithExporter(services.TargetXLSX, export.NewXLSXExporter(cfg.ExportDir)),
	}

	if cfg.SheetsEnabled() {
		sheets, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.WarnContext(ctx, "Google Sheets export disabled", log.FieldError, err)
		} else {
			opts = append(opts, services.WithExporter(services.TargetSheets, sheets))
			logger.InfoContext(ctx, "Initialized Google Sheets exporter")
		}
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without notifications", log.FieldError, err)
		} else {
			opts = append(opts, services.WithPublisher(client))
			app.closers = append(app.closers, client.Close)
			logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	app.Service = services.NewBudgetService(res.Store, opts...)
	return app, nil
}
