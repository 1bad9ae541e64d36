package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/salesdesk/pkg/events"
	"github.com/ghuser/salesdesk/pkg/logger"
	pkgvalidator "github.com/ghuser/salesdesk/pkg/validator"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	salesevents "github.com/ghuser/salesdesk/services/sales/domain/events"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/domain/repositories"
	domainsvcs "github.com/ghuser/salesdesk/services/sales/domain/services"
)

// PurchaseService records and queries purchases.
type PurchaseService struct {
	purchases repositories.PurchaseRepository
	products  repositories.ProductRepository
	customers repositories.CustomerRepository
	retention *RetentionPolicy
	bus       *events.EventBus
	log       logger.Logger
	defaults  models.Defaults
	maxRecent int
	now       func() time.Time
}

// PurchaseServiceDeps groups the collaborators of a PurchaseService.
type PurchaseServiceDeps struct {
	Purchases repositories.PurchaseRepository
	Products  repositories.ProductRepository
	Customers repositories.CustomerRepository
	Retention *RetentionPolicy
	Bus       *events.EventBus // nil disables event publishing
	Log       logger.Logger
	Defaults  models.Defaults
	MaxRecent int
}

// NewPurchaseService returns a PurchaseService wired with deps.
func NewPurchaseService(deps PurchaseServiceDeps) *PurchaseService {
	return &PurchaseService{
		purchases: deps.Purchases,
		products:  deps.Products,
		customers: deps.Customers,
		retention: deps.Retention,
		bus:       deps.Bus,
		log:       deps.Log,
		defaults:  deps.Defaults,
		maxRecent: deps.MaxRecent,
		now:       time.Now,
	}
}

// Record prices, validates and stores a sale, then trims the recent window
// and publishes PurchaseRecordedEvent. Neither follow-up can fail the sale;
// their errors are logged.
func (s *PurchaseService) Record(ctx context.Context, in SaleInput) (*models.Purchase, error) {
	ctx, span := tracer.Start(ctx, "sales.purchase.record",
		trace.WithAttributes(attribute.String("sku", in.SKU)))
	defer span.End()

	p, err := s.build(ctx, in)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.purchases.Save(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("save purchase: %w", err)
	}
	span.SetAttributes(attribute.String("invoice_id", p.InvoiceID))
	s.log.InfoContext(ctx, "purchase recorded",
		"invoice_id", p.InvoiceID, "sku", p.ProductSKU, "total", p.Total.String())

	if _, err := s.retention.Enforce(ctx, s.maxRecent); err != nil {
		s.log.WarnContext(ctx, "retention enforcement failed", "invoice_id", p.InvoiceID, "error", err)
	}
	s.publish(ctx, p)
	return p, nil
}

func (s *PurchaseService) build(ctx context.Context, in SaleInput) (*models.Purchase, error) {
	if err := pkgvalidator.Validate(in); err != nil {
		return nil, salesdomain.Invalid("%s", pkgvalidator.Describe(err))
	}

	sku, err := models.NewSKU(in.SKU)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}
	product, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}
	if !product.IsActive() {
		return nil, fmt.Errorf("%w: %s", salesdomain.ErrProductRetired, sku)
	}

	customerID, err := uuid.Parse(in.CustomerID)
	if err != nil {
		return nil, salesdomain.Invalid("customer id %q is not a UUID", in.CustomerID)
	}
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}

	line := domainsvcs.LineInput{
		Quantity:  in.Quantity,
		UnitPrice: product.Price,
		TaxRate:   product.TaxRate,
	}
	if in.UnitPrice != "" {
		if line.UnitPrice, err = models.ParseAmount(in.UnitPrice); err != nil {
			return nil, salesdomain.Invalid("unit price: %v", err)
		}
	}
	if line.Discount, err = models.ParseAmount(in.Discount); err != nil {
		return nil, salesdomain.Invalid("discount: %v", err)
	}
	if line.Tax, err = optionalAmount(in.Tax); err != nil {
		return nil, salesdomain.Invalid("tax: %v", err)
	}
	if line.Total, err = optionalAmount(in.Total); err != nil {
		return nil, salesdomain.Invalid("total: %v", err)
	}
	priced, err := domainsvcs.PriceLine(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}

	currency := s.defaults.Currency
	if in.Currency != "" {
		if currency, err = models.NormalizeCurrency(in.Currency); err != nil {
			return nil, fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
		}
	}

	now := s.now().UTC()
	invoiceID := strings.TrimSpace(in.InvoiceID)
	if invoiceID == "" {
		invoiceID = models.NewInvoiceID(now)
	}

	p := &models.Purchase{
		InvoiceID:         invoiceID,
		ProductSKU:        sku,
		CustomerID:        customerID,
		Quantity:          in.Quantity,
		UnitPrice:         line.UnitPrice,
		Discount:          line.Discount,
		Tax:               priced.Tax,
		Total:             priced.Total,
		Currency:          currency,
		PaymentStatus:     orDefault(in.PaymentStatus, s.defaults.PaymentStatus),
		PaymentTerms:      orDefault(in.PaymentTerms, s.defaults.PaymentTerms),
		PaymentMethod:     strings.TrimSpace(in.PaymentMethod),
		FulfillmentStatus: orDefault(in.FulfillmentStatus, s.defaults.FulfillmentStatus),
		Channel:           orDefault(in.Channel, s.defaults.Channel),
		Source:            orDefault(in.Source, s.defaults.Source),
		Region:            orDefault(in.Region, s.defaults.Region),
		SalesRep:          orDefault(in.SalesRep, s.defaults.SalesRep),
		Tags:              cleanTags(in.Tags),
		Notes:             strings.TrimSpace(in.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := domainsvcs.ValidatePurchase(p); err != nil {
		return nil, fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}
	return p, nil
}

func (s *PurchaseService) publish(ctx context.Context, p *models.Purchase) {
	if s.bus == nil {
		return
	}
	payload, err := json.Marshal(salesevents.NewPurchaseRecorded(p))
	if err != nil {
		s.log.ErrorContext(ctx, "marshal purchase event", "invoice_id", p.InvoiceID, "error", err)
		return
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	if err := s.bus.Publish(ctx, salesevents.TopicPurchaseRecorded, msg); err != nil {
		s.log.WarnContext(ctx, "publish purchase event", "invoice_id", p.InvoiceID, "error", err)
	}
}

// Recent returns the retention window, newest first. limit <= 0 returns the
// whole window.
func (s *PurchaseService) Recent(ctx context.Context, limit int) ([]*models.PurchaseView, error) {
	views, err := s.purchases.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent purchases: %w", err)
	}
	return views, nil
}

// Search looks through the full history, newest first.
func (s *PurchaseService) Search(ctx context.Context, filter models.PurchaseFilter) ([]*models.PurchaseView, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	views, err := s.purchases.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search purchases: %w", err)
	}
	return views, nil
}

// Get returns one purchase by invoice id.
func (s *PurchaseService) Get(ctx context.Context, invoiceID string) (*models.PurchaseView, error) {
	v, err := s.purchases.GetByInvoiceID(ctx, strings.TrimSpace(invoiceID))
	if err != nil {
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return v, nil
}

// UpdatePaymentStatus sets the payment status of a stored purchase.
func (s *PurchaseService) UpdatePaymentStatus(ctx context.Context, invoiceID, status string) (*models.PurchaseView, error) {
	return s.updateStatus(ctx, invoiceID, &status, nil)
}

// UpdateFulfillmentStatus sets the fulfillment status of a stored purchase.
func (s *PurchaseService) UpdateFulfillmentStatus(ctx context.Context, invoiceID, status string) (*models.PurchaseView, error) {
	return s.updateStatus(ctx, invoiceID, nil, &status)
}

func (s *PurchaseService) updateStatus(ctx context.Context, invoiceID string, payment, fulfillment *string) (*models.PurchaseView, error) {
	for _, v := range []*string{payment, fulfillment} {
		if v == nil {
			continue
		}
		*v = strings.TrimSpace(*v)
		if *v == "" {
			return nil, salesdomain.Invalid("status must not be empty")
		}
	}
	invoiceID = strings.TrimSpace(invoiceID)
	if err := s.purchases.UpdateStatus(ctx, invoiceID, payment, fulfillment, s.now()); err != nil {
		return nil, fmt.Errorf("update purchase status: %w", err)
	}
	return s.Get(ctx, invoiceID)
}

func optionalAmount(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := models.ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, models.ParseTags(t)...)
	}
	return out
}
