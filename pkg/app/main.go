package app

import (
	"github.com/ghuser/salesdesk/pkg/config"
	"github.com/ghuser/salesdesk/pkg/database"
	"github.com/ghuser/salesdesk/pkg/events"
	"github.com/ghuser/salesdesk/pkg/logger"
	"github.com/ghuser/salesdesk/pkg/telemetry"
)

// Application holds shared infrastructure dependencies for all services.
// Built once in cmd/salesdesk and passed to each bounded context's New.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id and span_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "purchase recorded", "invoice_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Config   *config.Config
	Metrics  *telemetry.Recorder
}
