package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/services/sales/domain/events"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

func samplePurchase() *models.Purchase {
	return &models.Purchase{
		InvoiceID:  "INV-20260101-ABCDEF12",
		ProductSKU: "CRM-001",
		CustomerID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Quantity:   2,
		UnitPrice:  decimal.RequireFromString("99"),
		Discount:   decimal.RequireFromString("10"),
		Tax:        decimal.Zero,
		Total:      decimal.RequireFromString("188"),
		Currency:   "USD",
		Channel:    "in-store",
		CreatedAt:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewPurchaseRecorded_CopiesPurchase(t *testing.T) {
	evt := events.NewPurchaseRecorded(samplePurchase())

	if evt.EventID == uuid.Nil {
		t.Error("EventID must be generated")
	}
	if evt.Version != 1 {
		t.Errorf("Version: got %d, want 1", evt.Version)
	}
	if evt.Subtotal != "198" {
		t.Errorf("Subtotal: got %q, want 198", evt.Subtotal)
	}
	if evt.Total != "188" {
		t.Errorf("Total: got %q, want 188", evt.Total)
	}
	if evt.ProductSKU != "CRM-001" || evt.InvoiceID != "INV-20260101-ABCDEF12" {
		t.Errorf("unexpected identity fields: %+v", evt)
	}
}

func TestPurchaseRecordedEvent_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(events.NewPurchaseRecorded(samplePurchase()))
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}

	for _, field := range []string{"event_id", "version", "invoice_id", "product_sku", "customer_id", "quantity", "subtotal", "total", "currency", "channel", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
}

func TestTopicPurchaseRecorded_Value(t *testing.T) {
	if events.TopicPurchaseRecorded != "sales.purchase.recorded" {
		t.Errorf("expected %q, got %q", "sales.purchase.recorded", events.TopicPurchaseRecorded)
	}
}
