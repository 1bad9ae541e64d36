package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

// TopicPurchaseRecorded is the Watermill topic published after a purchase is stored.
const TopicPurchaseRecorded = "sales.purchase.recorded"

// PurchaseRecordedEvent is published after a purchase is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicPurchaseRecorded).
type PurchaseRecordedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	InvoiceID  string    `json:"invoice_id"`
	ProductSKU string    `json:"product_sku"`
	CustomerID uuid.UUID `json:"customer_id"`
	Quantity   int64     `json:"quantity"`
	Subtotal   string    `json:"subtotal"` // decimal string
	Total      string    `json:"total"`    // decimal string
	Currency   string    `json:"currency"`
	Channel    string    `json:"channel"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewPurchaseRecorded builds the event for a stored purchase.
func NewPurchaseRecorded(p *models.Purchase) PurchaseRecordedEvent {
	return PurchaseRecordedEvent{
		EventID:    uuid.New(),
		Version:    1,
		InvoiceID:  p.InvoiceID,
		ProductSKU: p.ProductSKU.String(),
		CustomerID: p.CustomerID,
		Quantity:   p.Quantity,
		Subtotal:   p.Subtotal().String(),
		Total:      p.Total.String(),
		Currency:   p.Currency,
		Channel:    p.Channel,
		OccurredAt: p.CreatedAt,
	}
}
