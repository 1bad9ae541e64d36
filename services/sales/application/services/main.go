package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/ghuser/salesdesk/pkg/app"
	"github.com/ghuser/salesdesk/pkg/config"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/domain/providers"
	"github.com/ghuser/salesdesk/services/sales/infrastructure/persistence/sqlite"
	"github.com/ghuser/salesdesk/services/sales/infrastructure/summary"
)

var tracer = otel.Tracer("github.com/ghuser/salesdesk/services/sales")

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Products   *ProductService
	Customers  *CustomerService
	Purchases  *PurchaseService
	Retention  *RetentionPolicy
	Reports    *ReportService
	Transfer   *TransferService
	Seed       *SeedService
	Summarizer providers.Summarizer
}

// New wires all sales application services with infrastructure from the
// Application container.
func New(ctx context.Context, a *app.Application) (*Services, error) {
	cfg := a.Config
	defaults, err := DefaultsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	thresholds, err := ThresholdsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	products := sqlite.NewProductRepository(a.Db)
	customers := sqlite.NewCustomerRepository(a.Db)
	purchases := sqlite.NewPurchaseRepository(a.Db)
	retention := NewRetentionPolicy(purchases, a.Logger, a.Metrics)
	summarizer := summary.New(ctx, cfg, a.Logger)

	return &Services{
		Products:  NewProductService(products, defaults.TaxRate),
		Customers: NewCustomerService(customers),
		Purchases: NewPurchaseService(PurchaseServiceDeps{
			Purchases: purchases,
			Products:  products,
			Customers: customers,
			Retention: retention,
			Bus:       a.EventBus,
			Log:       a.Logger,
			Defaults:  defaults,
			MaxRecent: cfg.MaxRecentPurchases,
		}),
		Retention: retention,
		Reports: NewReportService(ReportServiceDeps{
			Purchases:      purchases,
			Summarizer:     summarizer,
			Thresholds:     thresholds,
			Currency:       defaults.Currency,
			Location:       cfg.Location(),
			SummaryTimeout: cfg.SummaryTimeout,
			Log:            a.Logger,
			Metrics:        a.Metrics,
		}),
		Transfer: NewTransferService(TransferServiceDeps{
			DB:         a.Db,
			Purchases:  purchases,
			Products:   products,
			Customers:  customers,
			Retention:  retention,
			Log:        a.Logger,
			Metrics:    a.Metrics,
			ExportsDir: cfg.ExportsDir,
			BackupsDir: cfg.BackupsDir,
			MaxRecent:  cfg.MaxRecentPurchases,
		}),
		Seed: NewSeedService(SeedServiceDeps{
			Products:       products,
			Customers:      customers,
			Log:            a.Logger,
			ProductsFile:   cfg.SeedProductsFile,
			CustomersFile:  cfg.SeedCustomersFile,
			DefaultTaxRate: defaults.TaxRate,
		}),
		Summarizer: summarizer,
	}, nil
}

// DefaultsFromConfig builds the immutable sale defaults.
func DefaultsFromConfig(cfg *config.Config) (models.Defaults, error) {
	currency, err := models.NormalizeCurrency(cfg.Currency)
	if err != nil {
		return models.Defaults{}, fmt.Errorf("DEFAULT_CURRENCY: %w", err)
	}
	rate, err := models.ParseRate(cfg.DefaultTaxRate)
	if err != nil {
		return models.Defaults{}, fmt.Errorf("DEFAULT_TAX_RATE: %w", err)
	}
	return models.Defaults{
		Currency:          currency,
		TaxRate:           rate,
		PaymentStatus:     cfg.DefaultPaymentStatus,
		PaymentTerms:      cfg.DefaultPaymentTerms,
		FulfillmentStatus: cfg.DefaultFulfillmentStatus,
		Channel:           cfg.DefaultChannel,
		Source:            cfg.DefaultSource,
		Region:            cfg.DefaultRegion,
		SalesRep:          cfg.DefaultSalesRep,
	}, nil
}

// ThresholdsFromConfig builds the immutable report thresholds.
func ThresholdsFromConfig(cfg *config.Config) (models.Thresholds, error) {
	minRevenue, err := models.ParseAmount(cfg.MinDailyRevenue)
	if err != nil {
		return models.Thresholds{}, fmt.Errorf("MIN_DAILY_REVENUE: %w", err)
	}
	ratio, err := models.ParseRate(cfg.TrendDropRatio)
	if err != nil {
		return models.Thresholds{}, fmt.Errorf("TREND_DROP_RATIO: %w", err)
	}
	return models.Thresholds{
		DailySalesTarget:  cfg.DailySalesTarget,
		LowSalesThreshold: cfg.LowSalesThreshold,
		MinDailyRevenue:   minRevenue,
		TrendDropRatio:    ratio,
		TopProducts:       cfg.TopProducts,
	}, nil
}
