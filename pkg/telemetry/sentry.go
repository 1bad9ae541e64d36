package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ghuser/salesdesk/pkg/config"
)

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     cfg.ServiceName + "@" + cfg.ServiceVersion,
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// CaptureError reports err to Sentry with the failing command attached.
// Safe to call when Sentry is not initialized.
func CaptureError(command string, err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("command", command)
		sentry.CaptureException(err)
	})
}

// RecoverAndReport captures a panic, flushes, and re-panics. Use as
// `defer telemetry.RecoverAndReport()` at the top of main.
func RecoverAndReport() {
	if r := recover(); r != nil {
		sentry.CurrentHub().Recover(r)
		SentryFlush()
		panic(r)
	}
}
