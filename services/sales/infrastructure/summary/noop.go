package summary

import (
	"context"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/domain/providers"
)

// Noop returns the fixed fallback text and never fails.
type Noop struct {
	DailyTarget int
}

func (n Noop) Summarize(_ context.Context, r *models.Report) (string, error) {
	return providers.FallbackSummary(r.Today.Count, n.DailyTarget), nil
}

func (Noop) Name() string { return "none" }
