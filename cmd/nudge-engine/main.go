// Package main runs the Nudge automation engine: rule storage, periodic
// scanners, event-driven triggers and the HTTP API in one process.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nudgecrm/nudge/pkg/cmd"
	"github.com/nudgecrm/nudge/pkg/crm"
	"github.com/nudgecrm/nudge/pkg/email"
	"github.com/nudgecrm/nudge/pkg/engine"
	"github.com/nudgecrm/nudge/pkg/eventbus"
	"github.com/nudgecrm/nudge/pkg/log"
	"github.com/nudgecrm/nudge/pkg/notify"
	"github.com/nudgecrm/nudge/pkg/otelhelper"
	"github.com/nudgecrm/nudge/pkg/rules"
	"github.com/nudgecrm/nudge/pkg/scanners"
	"github.com/nudgecrm/nudge/pkg/settings"
	"github.com/nudgecrm/nudge/pkg/web"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = 8080

func main() {
	command := &cli.Command{
		Name:                  "nudge-engine",
		Usage:                 "Run the Nudge CRM automation engine",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Blob store URL (memory://, file://path, redis://..., postgres://...)",
				Value:   "memory://",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.DurationFlag{
				Name:    "due-scan-interval",
				Usage:   "How often to sweep for due tasks",
				Value:   scanners.DefaultDueTaskInterval,
				Sources: cli.EnvVars("DUE_SCAN_INTERVAL"),
			},
			&cli.DurationFlag{
				Name:    "inactive-scan-interval",
				Usage:   "How often to sweep for inactive contacts",
				Value:   scanners.DefaultInactiveScanInterval,
				Sources: cli.EnvVars("INACTIVE_SCAN_INTERVAL"),
			},
			&cli.DurationFlag{
				Name:    "inactivity-window",
				Usage:   "How long without contact before a contact counts as inactive",
				Value:   scanners.DefaultInactivityWindow,
				Sources: cli.EnvVars("INACTIVITY_WINDOW"),
			},
			&cli.BoolFlag{
				Name:    "seed",
				Usage:   "Load sample CRM data on startup",
				Sources: cli.EnvVars("SEED"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OTLP traces",
				Sources: cli.EnvVars("TRACING"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("nudge-engine")
	logger.InfoContext(ctx, "Initializing Nudge engine")

	var tracer trace.Tracer

	if command.Bool("tracing") {
		var err error

		tracer, err = otelhelper.NewTracer(ctx, "nudge-engine")
		if err != nil {
			return err
		}
	}

	clock := clockwork.NewRealClock()

	blobs := cmd.NewBlobRepository(ctx, logger, command.String("database-url"))
	defer func() {
		if err := blobs.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close blob store", "error", err)
		}
	}()

	bus := eventbus.NewGoChannelEventBus(logger)
	defer func() {
		if err := bus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	crmStore := crm.NewStore(bus, clock)
	if command.Bool("seed") {
		crmStore.Seed()
		logger.InfoContext(ctx, "Loaded sample CRM data")
	}

	ruleStore := rules.NewStore(blobs, clock, logger)
	if err := ruleStore.Load(ctx); err != nil {
		return err
	}

	settingsStore := settings.NewStore(blobs)
	if err := settingsStore.Load(ctx); err != nil {
		return err
	}

	reg := cmd.NewRegistry(logger, cmd.RegistryDeps{
		Tasks:    crmStore,
		Contacts: crmStore,
		Notifier: notify.NewLogNotifier(),
		Email:    email.NewLogSender(),
		Clock:    clock,
	})

	eng := engine.NewEngine(ruleStore, reg, bus, tracer)

	eng.AddScanner(scanners.NewDueTaskScanner(crmStore, eng, clock, command.Duration("due-scan-interval")))
	eng.AddScanner(scanners.NewInactiveContactScanner(crmStore, eng, clock,
		command.Duration("inactive-scan-interval"), command.Duration("inactivity-window")))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := eng.Start(runCtx); err != nil {
		return err
	}

	serverErr := make(chan error, 1)

	var server *web.Server

	// Port 0 runs headless: scanners and event triggers only.
	if port := command.Int("port"); port > 0 {
		server = web.NewServer(web.NewAPIHandlers(ruleStore, crmStore, settingsStore, eng, reg, blobs))

		go func() {
			serverErr <- server.Start(port)
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.InfoContext(ctx, "Shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.ErrorContext(ctx, "API server failed", "error", err)
		}
	}

	eng.Stop()
	cancel()

	if server != nil {
		if err := server.Shutdown(); err != nil {
			logger.ErrorContext(ctx, "Failed to shut down API server", "error", err)
		}
	}

	// Give in-flight bus handlers a moment to drain before teardown.
	time.Sleep(100 * time.Millisecond)

	logger.InfoContext(ctx, "Nudge engine stopped")

	return nil
}
