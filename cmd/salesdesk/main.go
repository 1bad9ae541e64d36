package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	salesmigrations "github.com/ghuser/salesdesk/migrations/sales"
	"github.com/ghuser/salesdesk/pkg/app"
	"github.com/ghuser/salesdesk/pkg/config"
	"github.com/ghuser/salesdesk/pkg/database"
	"github.com/ghuser/salesdesk/pkg/errexit"
	"github.com/ghuser/salesdesk/pkg/events"
	"github.com/ghuser/salesdesk/pkg/logger"
	"github.com/ghuser/salesdesk/pkg/migrator"
	"github.com/ghuser/salesdesk/pkg/telemetry"
	salesCommands "github.com/ghuser/salesdesk/services/sales/application/commands"
	appsvcs "github.com/ghuser/salesdesk/services/sales/application/services"
	"github.com/ghuser/salesdesk/services/sales/application/subscribers"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
)

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup so they complete before the process exits.
func run() int {
	defer telemetry.RecoverAndReport()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return errexit.Failure
	}
	if err := config.Validate(cfg); err != nil {
		return errexit.Write(os.Stderr, salesdomain.Invalid("%v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		return errexit.Failure
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	// Crash reporting is optional; log and continue on failure.
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.Open(ctx, database.Options{Path: cfg.DatabasePath, Timeout: cfg.DBTimeout}, log)
	if err != nil {
		log.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		return errexit.Write(os.Stderr, fmt.Errorf("%w: %w", salesdomain.ErrStoreUnavailable, err))
	}
	defer db.Close() //nolint:errcheck

	if err := migrator.RunMigrations(db.DB(), salesmigrations.FS); err != nil {
		log.Error("failed to run migrations", "error", err)
		return errexit.Write(os.Stderr, fmt.Errorf("%w: %w", salesdomain.ErrStoreUnavailable, err))
	}

	eventBus := events.NewEventBus(log)
	defer eventBus.Close() //nolint:errcheck

	metrics, err := telemetry.NewRecorder()
	if err != nil {
		log.Warn("metrics disabled", "error", err)
	}

	a := &app.Application{
		Db:       db,
		Logger:   log,
		EventBus: eventBus,
		Config:   cfg,
		Metrics:  metrics,
	}

	if err := subscribers.Register(ctx, a); err != nil {
		log.Error("failed to register subscribers", "error", err)
		return errexit.Failure
	}

	svcs, err := appsvcs.New(ctx, a)
	if err != nil {
		return errexit.Write(os.Stderr, err)
	}
	if _, err := svcs.Seed.SeedIfEmpty(ctx); err != nil {
		log.Warn("seeding skipped", "error", err)
	}

	root := &cobra.Command{
		Use:           "salesdesk",
		Short:         "Offline sales console",
		Long:          "Record sales, browse customers and products, and produce daily reports from a local SQLite store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return salesdomain.Invalid("%v", err)
	})
	registerCommands(root, a, svcs)

	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		code := errexit.Write(os.Stderr, err)
		if cmd != nil && (code == errexit.Failure || code == errexit.StoreUnavailable) {
			telemetry.CaptureError(cmd.CommandPath(), err)
		}
		return code
	}
	return errexit.OK
}

// registerCommands mounts every bounded context's command tree.
// Add each new service's command function here.
func registerCommands(root *cobra.Command, a *app.Application, svcs *appsvcs.Services) {
	salesCommands.SalesCommands(root, a, svcs)
}
