package subscribers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/salesdesk/pkg/app"
	"github.com/ghuser/salesdesk/pkg/events"
	"github.com/ghuser/salesdesk/pkg/logger"
	salesevents "github.com/ghuser/salesdesk/services/sales/domain/events"
)

func TestHandlePurchaseRecorded(t *testing.T) {
	h := handlePurchaseRecorded(&app.Application{Logger: logger.Nop()})

	payload, err := json.Marshal(salesevents.PurchaseRecordedEvent{
		EventID:    uuid.New(),
		Version:    1,
		InvoiceID:  "INV-1",
		ProductSKU: "CRM-001",
		Quantity:   2,
		Subtotal:   "19.98",
		Total:      "21.58",
		Currency:   "USD",
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := h(context.Background(), message.NewMessage(uuid.NewString(), payload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandlePurchaseRecorded_RejectsBadPayload(t *testing.T) {
	h := handlePurchaseRecorded(&app.Application{Logger: logger.Nop()})

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{"},
		{"bad subtotal", `{"invoice_id":"INV-1","subtotal":"ten"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h(context.Background(), message.NewMessage(uuid.NewString(), []byte(tt.payload))); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRegister_SubscribesToPurchaseTopic(t *testing.T) {
	log := logger.Nop()
	bus := events.NewEventBus(log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := &app.Application{Logger: log, EventBus: bus}
	if err := Register(ctx, a); err != nil {
		t.Fatalf("register: %v", err)
	}

	payload := []byte(`{"invoice_id":"INV-1","subtotal":"5"}`)
	if err := bus.Publish(ctx, salesevents.TopicPurchaseRecorded, message.NewMessage(uuid.NewString(), payload)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
