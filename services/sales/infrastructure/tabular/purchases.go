package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

// PurchaseColumns is the export header, in order.
var PurchaseColumns = []string{
	"invoice_id", "created_at", "product_sku", "product_name",
	"customer_id", "customer_name", "customer_email", "quantity", "unit_price", "discount",
	"tax", "total", "currency", "payment_status", "payment_terms", "payment_method",
	"fulfillment_status", "channel", "source", "region", "sales_rep", "tags", "notes",
	"updated_at",
}

const exportTagSeparator = ";"

// WritePurchases writes the header and one row per purchase. An empty slice
// yields a header-only file.
func WritePurchases(w io.Writer, views []*models.PurchaseView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PurchaseColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, v := range views {
		if err := cw.Write(purchaseRecord(v)); err != nil {
			return fmt.Errorf("write purchase %s: %w", v.InvoiceID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func purchaseRecord(v *models.PurchaseView) []string {
	return []string{
		v.InvoiceID,
		v.CreatedAt.UTC().Format(time.RFC3339Nano),
		v.ProductSKU.String(),
		v.ProductName,
		v.CustomerID.String(),
		v.CustomerName,
		v.CustomerEmail,
		strconv.FormatInt(v.Quantity, 10),
		v.UnitPrice.String(),
		v.Discount.String(),
		v.Tax.String(),
		v.Total.String(),
		v.Currency,
		v.PaymentStatus,
		v.PaymentTerms,
		v.PaymentMethod,
		v.FulfillmentStatus,
		v.Channel,
		v.Source,
		v.Region,
		v.SalesRep,
		strings.Join(v.Tags, exportTagSeparator),
		v.Notes,
		v.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// PurchaseRow is one parsed export record and the line it starts on.
type PurchaseRow struct {
	Line int
	View *models.PurchaseView
}

// ReadPurchases parses an export file. Every row is parsed before returning;
// the error joins one RowError per bad line.
func ReadPurchases(r io.Reader) ([]PurchaseRow, error) {
	var out []PurchaseRow
	err := readAll(r, requireColumns("invoice_id", "created_at", "product_sku", "customer_id", "quantity", "unit_price", "total"),
		func(h header, rec []string, line int) error {
			v, err := parsePurchase(h, rec)
			if err != nil {
				return err
			}
			out = append(out, PurchaseRow{Line: line, View: v})
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parsePurchase(h header, rec []string) (*models.PurchaseView, error) {
	v := &models.PurchaseView{
		ProductName:   h.get(rec, "product_name"),
		CustomerName:  h.get(rec, "customer_name"),
		CustomerEmail: h.get(rec, "customer_email"),
	}
	p := &v.Purchase

	p.InvoiceID = h.get(rec, "invoice_id")
	if p.InvoiceID == "" {
		return nil, fmt.Errorf("invoice_id is empty")
	}

	created, err := time.Parse(time.RFC3339Nano, h.get(rec, "created_at"))
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	p.CreatedAt = created.UTC()
	// Files written before updated_at was exported lack the column.
	p.UpdatedAt = p.CreatedAt
	if raw := h.get(rec, "updated_at"); raw != "" {
		updated, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("updated_at: %w", err)
		}
		p.UpdatedAt = updated.UTC()
	}

	if p.ProductSKU, err = models.NewSKU(h.get(rec, "product_sku")); err != nil {
		return nil, fmt.Errorf("product_sku: %w", err)
	}
	if p.CustomerID, err = uuid.Parse(h.get(rec, "customer_id")); err != nil {
		return nil, fmt.Errorf("customer_id: %w", err)
	}
	if p.Quantity, err = strconv.ParseInt(h.get(rec, "quantity"), 10, 64); err != nil {
		return nil, fmt.Errorf("quantity: %w", err)
	}

	if p.UnitPrice, err = models.ParseAmount(h.get(rec, "unit_price")); err != nil {
		return nil, fmt.Errorf("unit_price: %w", err)
	}
	if p.Discount, err = models.ParseAmount(h.get(rec, "discount")); err != nil {
		return nil, fmt.Errorf("discount: %w", err)
	}
	if p.Tax, err = models.ParseAmount(h.get(rec, "tax")); err != nil {
		return nil, fmt.Errorf("tax: %w", err)
	}
	if p.Total, err = models.ParseAmount(h.get(rec, "total")); err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	p.Currency = h.get(rec, "currency")
	p.PaymentStatus = h.get(rec, "payment_status")
	p.PaymentTerms = h.get(rec, "payment_terms")
	p.PaymentMethod = h.get(rec, "payment_method")
	p.FulfillmentStatus = h.get(rec, "fulfillment_status")
	p.Channel = h.get(rec, "channel")
	p.Source = h.get(rec, "source")
	p.Region = h.get(rec, "region")
	p.SalesRep = h.get(rec, "sales_rep")
	p.Tags = models.ParseTags(h.get(rec, "tags"))
	p.Notes = h.get(rec, "notes")
	return v, nil
}
