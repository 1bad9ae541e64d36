package services

import (
	"context"
	"fmt"

	"github.com/ghuser/salesdesk/pkg/logger"
	"github.com/ghuser/salesdesk/pkg/telemetry"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/repositories"
)

// RetentionPolicy bounds the recent-purchases window. It only flags rows;
// history is never deleted, so aggregates always see every purchase.
type RetentionPolicy struct {
	repo    repositories.PurchaseRepository
	log     logger.Logger
	metrics *telemetry.Recorder
}

// NewRetentionPolicy returns a RetentionPolicy over repo.
func NewRetentionPolicy(repo repositories.PurchaseRepository, log logger.Logger, metrics *telemetry.Recorder) *RetentionPolicy {
	return &RetentionPolicy{repo: repo, log: log, metrics: metrics}
}

// Enforce keeps the newest maxRecent purchases in the recent window and
// returns how many left it.
func (p *RetentionPolicy) Enforce(ctx context.Context, maxRecent int) (int, error) {
	if maxRecent <= 0 {
		return 0, salesdomain.Invalid("max recent purchases must be greater than 0, got %d", maxRecent)
	}
	trimmed, err := p.repo.KeepRecent(ctx, maxRecent)
	if err != nil {
		return 0, fmt.Errorf("enforce retention: %w", err)
	}
	if trimmed > 0 {
		p.log.DebugContext(ctx, "retention window trimmed", "trimmed", trimmed, "max_recent", maxRecent)
		p.metrics.RetentionTrimmed(ctx, trimmed)
	}
	return trimmed, nil
}
