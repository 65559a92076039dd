// Command budget-export writes one event's expenses with a configured
// exporter and prints the resulting reference.
package main

import (
	"flag"
	"fmt"
	"os"

	"budget/internal/cli"
	"budget/internal/log"
	"budget/internal/services"
)

func main() {
	event := flag.String("event", "", "event name to export (required)")
	target := flag.String("target", services.TargetXLSX, "export target: xlsx or sheets")
	flag.Parse()

	if *event == "" {
		fmt.Fprintln(os.Stderr, "budget-export: -event is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, logger := cli.LoadConfig()
	logger = logger.WithComponent(log.ComponentCLI)

	ctx, stop := cli.SignalContext()
	defer stop()

	app, err := cli.BuildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", log.FieldError, err)
		os.Exit(1)
	}

	ref, err := app.Service.ExportStoredEvent(ctx, *event, *target)
	closeErr := app.Close()
	if err != nil {
		logger.Error("Export failed", log.FieldEventName, *event, log.FieldExportTarget, *target, log.FieldError, err)
		os.Exit(1)
	}
	if closeErr != nil {
		logger.Warn("Cleanup error", log.FieldError, closeErr)
	}
	fmt.Println(ref)
}
