package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/salesdesk/pkg/logger"
	"github.com/ghuser/salesdesk/pkg/telemetry"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/domain/providers"
	"github.com/ghuser/salesdesk/services/sales/domain/repositories"
	domainsvcs "github.com/ghuser/salesdesk/services/sales/domain/services"
)

const trendDays = 7

// ReportService aggregates purchases and builds the daily report.
type ReportService struct {
	purchases      repositories.PurchaseRepository
	summarizer     providers.Summarizer
	thresholds     models.Thresholds
	currency       string
	loc            *time.Location
	summaryTimeout time.Duration
	log            logger.Logger
	metrics        *telemetry.Recorder
	now            func() time.Time
}

// ReportServiceDeps groups the collaborators of a ReportService.
type ReportServiceDeps struct {
	Purchases      repositories.PurchaseRepository
	Summarizer     providers.Summarizer
	Thresholds     models.Thresholds
	Currency       string
	Location       *time.Location
	SummaryTimeout time.Duration
	Log            logger.Logger
	Metrics        *telemetry.Recorder
}

// NewReportService returns a ReportService wired with deps.
func NewReportService(deps ReportServiceDeps) *ReportService {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		purchases:      deps.Purchases,
		summarizer:     deps.Summarizer,
		thresholds:     deps.Thresholds,
		currency:       deps.Currency,
		loc:            loc,
		summaryTimeout: deps.SummaryTimeout,
		log:            deps.Log,
		metrics:        deps.Metrics,
		now:            time.Now,
	}
}

// Location is the time zone calendar days are computed in.
func (s *ReportService) Location() *time.Location { return s.loc }

// Currency is the code reports are labelled with.
func (s *ReportService) Currency() string { return s.currency }

// TopN is the configured length of the top-products ranking.
func (s *ReportService) TopN() int { return s.thresholds.TopProducts }

// Aggregate sums every purchase in [r.Start, r.End), including those outside
// the recent window. An empty or inverted range yields zero Totals.
func (s *ReportService) Aggregate(ctx context.Context, r models.DateRange) (models.Totals, error) {
	if r.IsEmpty() {
		return domainsvcs.Aggregate(nil, r), nil
	}
	views, err := s.purchases.InRange(ctx, r)
	if err != nil {
		return models.Totals{}, fmt.Errorf("aggregate: %w", err)
	}
	return domainsvcs.Aggregate(views, r), nil
}

// TopProducts ranks products by revenue in r. n <= 0 yields an empty slice.
func (s *ReportService) TopProducts(ctx context.Context, r models.DateRange, n int) ([]models.ProductRevenue, error) {
	if n <= 0 || r.IsEmpty() {
		return []models.ProductRevenue{}, nil
	}
	views, err := s.purchases.InRange(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return domainsvcs.TopProducts(views, r, n), nil
}

// DailyReport builds the report for the calendar day containing day. A
// failing or slow summarizer degrades the summary to the fallback text; it
// never fails the report.
func (s *ReportService) DailyReport(ctx context.Context, day time.Time) (*models.Report, error) {
	ctx, span := tracer.Start(ctx, "sales.report.daily")
	defer span.End()

	today := models.DayRange(day, s.loc)
	window := models.DateRange{
		Start: today.Start.AddDate(0, 0, -(trendDays - 1)),
		End:   today.End,
	}
	views, err := s.purchases.InRange(ctx, window)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("daily report: %w", err)
	}

	trend := domainsvcs.DailyTrend(views, today.Start, trendDays, s.loc)
	r := &models.Report{
		Day:         today.Start,
		Currency:    s.currency,
		Today:       domainsvcs.Aggregate(views, today),
		Trend:       trend,
		TopProducts: domainsvcs.TopProducts(views, today, s.thresholds.TopProducts),
		GeneratedAt: s.now(),
	}
	r.Alerts = domainsvcs.EvaluateAlerts(r.Today, trend[:len(trend)-1], s.thresholds)

	r.Summary, r.SummaryDegraded = s.summarize(ctx, r)
	span.SetAttributes(
		attribute.Int("purchases", r.Today.Count),
		attribute.Int("alerts", len(r.Alerts)),
		attribute.Bool("summary_degraded", r.SummaryDegraded),
	)
	s.metrics.ReportGenerated(ctx, s.summarizer.Name(), r.SummaryDegraded)
	return r, nil
}

func (s *ReportService) summarize(ctx context.Context, r *models.Report) (string, bool) {
	fallback := providers.FallbackSummary(r.Today.Count, s.thresholds.DailySalesTarget)

	sctx := ctx
	if s.summaryTimeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, s.summaryTimeout)
		defer cancel()
	}
	sctx, span := tracer.Start(sctx, "sales.report.summarize",
		trace.WithAttributes(attribute.String("provider", s.summarizer.Name())))
	defer span.End()

	text, err := s.summarizer.Summarize(sctx, r)
	if err != nil {
		span.RecordError(err)
		s.log.WarnContext(ctx, "summary provider failed, using fallback text",
			"provider", s.summarizer.Name(), "error", err)
		return fallback, true
	}
	if text = strings.TrimSpace(text); text == "" {
		s.log.WarnContext(ctx, "summary provider returned empty text, using fallback text",
			"provider", s.summarizer.Name())
		return fallback, true
	}
	return text, false
}
