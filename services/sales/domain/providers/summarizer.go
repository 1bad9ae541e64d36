// Package providers declares capabilities the sales domain consumes from
// outside systems.
package providers

import (
	"context"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

// Summarizer turns a report into a short narrative. Implementations must
// honor ctx cancellation; the caller applies the timeout.
type Summarizer interface {
	Summarize(ctx context.Context, report *models.Report) (string, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}

// Fallback texts used when no provider is configured or a provider fails.
const (
	FallbackBelowTarget = "Sales are below target. Consider follow-ups on warm leads."
	FallbackOnTrack     = "Sales are on track. Keep momentum with demos and follow-ups."
)

// FallbackSummary picks the fixed text for a day's purchase count.
func FallbackSummary(count, dailyTarget int) string {
	if count < dailyTarget {
		return FallbackBelowTarget
	}
	return FallbackOnTrack
}
