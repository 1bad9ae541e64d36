// Package subscribers holds the in-process event handlers of the sales
// bounded context.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/pkg/app"
	salesevents "github.com/ghuser/salesdesk/services/sales/domain/events"
)

// Register wires all sales event handlers onto a.EventBus. Handlers run
// until ctx is cancelled or the bus is closed.
func Register(ctx context.Context, a *app.Application) error {
	errCh, err := a.EventBus.Subscribe(ctx, salesevents.TopicPurchaseRecorded, handlePurchaseRecorded(a))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", salesevents.TopicPurchaseRecorded,
				"error", err,
			)
		}
	}()

	a.Logger.Debug("event subscribers registered", "topics", []string{salesevents.TopicPurchaseRecorded})
	return nil
}

// handlePurchaseRecorded returns a handler for sales.purchase.recorded events.
// Handlers must be idempotent; EventBus retries up to 3× on failure.
func handlePurchaseRecorded(a *app.Application) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt salesevents.PurchaseRecordedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", salesevents.TopicPurchaseRecorded, err)
		}

		revenue, err := decimal.NewFromString(evt.Subtotal)
		if err != nil {
			return fmt.Errorf("decode subtotal of %s: %w", evt.InvoiceID, err)
		}
		a.Metrics.PurchaseRecorded(ctx, evt.ProductSKU, evt.Channel, evt.Currency, revenue.InexactFloat64())

		a.Logger.DebugContext(ctx, "purchase metrics recorded",
			"invoice_id", evt.InvoiceID, "event_id", evt.EventID)
		return nil
	}
}
