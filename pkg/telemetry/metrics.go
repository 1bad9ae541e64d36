package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/ghuser/salesdesk"

// Recorder holds the application's OTel instruments. Build one with
// NewRecorder after Setup. Methods on a nil *Recorder do nothing.
type Recorder struct {
	purchases        metric.Int64Counter
	revenue          metric.Float64Counter
	retentionTrimmed metric.Int64Counter
	reports          metric.Int64Counter
	exports          metric.Int64Counter
}

// NewRecorder creates the instruments on the global meter provider.
func NewRecorder() (*Recorder, error) {
	m := otel.Meter(instrumentationName)

	purchases, err := m.Int64Counter("sales.purchases",
		metric.WithDescription("Purchases recorded"),
		metric.WithUnit("{purchase}"))
	if err != nil {
		return nil, err
	}
	revenue, err := m.Float64Counter("sales.revenue",
		metric.WithDescription("Gross revenue of recorded purchases"))
	if err != nil {
		return nil, err
	}
	trimmed, err := m.Int64Counter("sales.retention.trimmed",
		metric.WithDescription("Purchases moved out of the recent window"),
		metric.WithUnit("{purchase}"))
	if err != nil {
		return nil, err
	}
	reports, err := m.Int64Counter("sales.reports",
		metric.WithDescription("Daily reports generated"),
		metric.WithUnit("{report}"))
	if err != nil {
		return nil, err
	}
	exports, err := m.Int64Counter("sales.exports",
		metric.WithDescription("Export and backup files written"),
		metric.WithUnit("{file}"))
	if err != nil {
		return nil, err
	}

	return &Recorder{
		purchases:        purchases,
		revenue:          revenue,
		retentionTrimmed: trimmed,
		reports:          reports,
		exports:          exports,
	}, nil
}

// PurchaseRecorded counts one purchase and adds its gross revenue.
func (r *Recorder) PurchaseRecorded(ctx context.Context, sku, channel, currency string, revenue float64) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("sku", sku),
		attribute.String("channel", channel),
		attribute.String("currency", currency),
	)
	r.purchases.Add(ctx, 1, attrs)
	r.revenue.Add(ctx, revenue, attrs)
}

// RetentionTrimmed counts rows that left the recent window.
func (r *Recorder) RetentionTrimmed(ctx context.Context, n int) {
	if r != nil && n > 0 {
		r.retentionTrimmed.Add(ctx, int64(n))
	}
}

// ReportGenerated counts a daily report, tagged by summary outcome.
func (r *Recorder) ReportGenerated(ctx context.Context, provider string, degraded bool) {
	if r == nil {
		return
	}
	r.reports.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.Bool("summary_degraded", degraded),
	))
}

// FileWritten counts an export or backup file; kind is "export" or "backup".
func (r *Recorder) FileWritten(ctx context.Context, kind string) {
	if r == nil {
		return
	}
	r.exports.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
