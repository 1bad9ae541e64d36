package commands

import (
	"github.com/spf13/cobra"

	appsvcs "github.com/ghuser/salesdesk/services/sales/application/services"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

func (h *handler) saleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record and browse purchases",
	}
	cmd.AddCommand(
		h.saleRecordCmd(),
		h.saleRecentCmd(),
		h.saleSearchCmd(),
		h.saleStatusCmd(),
	)
	return cmd
}

func (h *handler) saleRecordCmd() *cobra.Command {
	var (
		in       appsvcs.SaleInput
		customer string
		tags     string
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a sale",
		Long: `Record a sale of one product to one customer.

The unit price defaults to the product's current price and the tax to
quantity x unit price x the product's tax rate. The total is always
computed; a --total that disagrees is rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := h.svcs.Customers.Resolve(ctx, customer)
			if err != nil {
				return err
			}
			in.CustomerID = c.ID.String()
			in.Tags = models.ParseTags(tags)

			p, err := h.svcs.Purchases.Record(ctx, in)
			if err != nil {
				return err
			}
			renderPurchase(cmd.OutOrStdout(), p, h.svcs.Reports.Location())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.SKU, "sku", "", "Product SKU (required)")
	f.StringVar(&customer, "customer", "", "Customer id, email or exact name (required)")
	f.Int64Var(&in.Quantity, "quantity", 1, "Units sold")
	f.StringVar(&in.InvoiceID, "invoice", "", "Invoice id (generated when empty)")
	f.StringVar(&in.UnitPrice, "unit-price", "", "Override the product price")
	f.StringVar(&in.Discount, "discount", "", "Discount amount")
	f.StringVar(&in.Tax, "tax", "", "Override the derived tax")
	f.StringVar(&in.Total, "total", "", "Expected total, checked against the computed one")
	f.StringVar(&in.Currency, "currency", "", "ISO 4217 code (default from configuration)")
	f.StringVar(&in.PaymentStatus, "payment-status", "", "Payment status")
	f.StringVar(&in.PaymentTerms, "payment-terms", "", "Payment terms")
	f.StringVar(&in.PaymentMethod, "payment-method", "", "Payment method")
	f.StringVar(&in.FulfillmentStatus, "fulfillment-status", "", "Fulfillment status")
	f.StringVar(&in.Channel, "channel", "", "Sales channel")
	f.StringVar(&in.Source, "source", "", "Lead source of the sale")
	f.StringVar(&in.Region, "region", "", "Region")
	f.StringVar(&in.SalesRep, "sales-rep", "", "Sales representative")
	f.StringVar(&tags, "tags", "", "Comma separated tags")
	f.StringVar(&in.Notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("sku")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func (h *handler) saleRecentCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent purchases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			views, err := h.svcs.Purchases.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return renderPurchases(cmd.OutOrStdout(), views, h.svcs.Reports.Location())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows (0 for the whole recent window)")
	return cmd
}

func (h *handler) saleSearchCmd() *cobra.Command {
	var (
		query, since string
		limit        int
	)
	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search the full purchase history",
		Long: `Search every stored purchase, including ones outside the recent
window. QUERY matches invoice ids, SKUs, product and customer names, tags
and notes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := h.svcs.Reports.Location()
			filter := models.PurchaseFilter{Query: query, Limit: limit}
			if len(args) == 1 {
				filter.Query = args[0]
			}
			if since != "" {
				day, err := parseDay(since, loc)
				if err != nil {
					return err
				}
				filter.Since = day
			}
			views, err := h.svcs.Purchases.Search(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return renderPurchases(cmd.OutOrStdout(), views, loc)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Text to match")
	cmd.Flags().StringVar(&since, "since", "", "Only purchases on or after this day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows (0 for no limit)")
	return cmd
}

func (h *handler) saleStatusCmd() *cobra.Command {
	var payment, fulfillment string
	cmd := &cobra.Command{
		Use:   "status INVOICE",
		Short: "Update payment or fulfillment status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			setPayment := cmd.Flags().Changed("payment")
			setFulfillment := cmd.Flags().Changed("fulfillment")
			if !setPayment && !setFulfillment {
				return salesdomain.Invalid("pass --payment, --fulfillment or both")
			}

			var (
				v   *models.PurchaseView
				err error
			)
			if setPayment {
				if v, err = h.svcs.Purchases.UpdatePaymentStatus(ctx, args[0], payment); err != nil {
					return err
				}
			}
			if setFulfillment {
				if v, err = h.svcs.Purchases.UpdateFulfillmentStatus(ctx, args[0], fulfillment); err != nil {
					return err
				}
			}
			renderPurchase(cmd.OutOrStdout(), &v.Purchase, h.svcs.Reports.Location())
			return nil
		},
	}
	cmd.Flags().StringVar(&payment, "payment", "", "New payment status")
	cmd.Flags().StringVar(&fulfillment, "fulfillment", "", "New fulfillment status")
	return cmd
}
