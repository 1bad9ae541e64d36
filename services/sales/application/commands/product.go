package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appsvcs "github.com/ghuser/salesdesk/services/sales/application/services"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

func (h *handler) productCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}
	cmd.AddCommand(
		h.productAddCmd(),
		h.productListCmd(),
		h.productUpdateCmd(),
		h.productStatusCmd("retire", "Retire a product so it can no longer be sold", h.svcs.Products.Retire),
		h.productStatusCmd("activate", "Make a retired product sellable again", h.svcs.Products.Activate),
	)
	return cmd
}

func (h *handler) productAddCmd() *cobra.Command {
	var in appsvcs.ProductInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Long: `Add a product to the catalog.

The SKU is upper-cased and must be unique. When --tax-rate is omitted the
configured default tax rate applies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := h.svcs.Products.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.SKU, "sku", "", "Stock keeping unit (required)")
	f.StringVar(&in.Name, "name", "", "Product name (required)")
	f.StringVar(&in.Price, "price", "", "Unit price (required)")
	f.StringVar(&in.Category, "category", "", "Category")
	f.StringVar(&in.Cost, "cost", "", "Unit cost")
	f.StringVar(&in.TaxRate, "tax-rate", "", "Tax rate between 0 and 1")
	f.StringVar(&in.Unit, "unit", "", "Unit of sale (default \"unit\")")
	f.StringVar(&in.Description, "description", "", "Description")
	f.StringVar(&in.Features, "features", "", "Feature list")
	f.StringVar(&in.BestFor, "best-for", "", "Ideal customer")
	_ = cmd.MarkFlagRequired("sku")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func (h *handler) productListCmd() *cobra.Command {
	var (
		query, category, status string
		all                     bool
		limit                   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List or search products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				products []*models.Product
				err      error
			)
			if query == "" && category == "" && status == "" && limit == 0 {
				products, err = h.svcs.Products.List(ctx, !all)
			} else {
				filter := models.ProductFilter{
					Query:    query,
					Category: category,
					Status:   models.ProductStatus(status),
					Limit:    limit,
				}
				if status == "" && !all {
					filter.Status = models.ProductActive
				}
				products, err = h.svcs.Products.Search(ctx, filter)
			}
			if err != nil {
				return err
			}
			return renderProducts(cmd.OutOrStdout(), products)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&query, "query", "q", "", "Match name, SKU or category")
	f.StringVar(&category, "category", "", "Exact category")
	f.StringVar(&status, "status", "", "active or retired")
	f.BoolVar(&all, "all", false, "Include retired products")
	f.IntVar(&limit, "limit", 0, "Maximum rows (0 for no limit)")
	return cmd
}

func (h *handler) productUpdateCmd() *cobra.Command {
	var name, category, price, cost, taxRate, unit, description, features, bestFor string
	cmd := &cobra.Command{
		Use:   "update SKU",
		Short: "Change product details",
		Long:  "Change the flags given; the SKU itself cannot change.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := h.svcs.Products.Update(cmd.Context(), args[0], appsvcs.ProductUpdate{
				Name:        changed(cmd, "name", name),
				Category:    changed(cmd, "category", category),
				Price:       changed(cmd, "price", price),
				Cost:        changed(cmd, "cost", cost),
				TaxRate:     changed(cmd, "tax-rate", taxRate),
				Unit:        changed(cmd, "unit", unit),
				Description: changed(cmd, "description", description),
				Features:    changed(cmd, "features", features),
				BestFor:     changed(cmd, "best-for", bestFor),
			})
			if err != nil {
				return err
			}
			renderProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Product name")
	f.StringVar(&category, "category", "", "Category")
	f.StringVar(&price, "price", "", "Unit price")
	f.StringVar(&cost, "cost", "", "Unit cost")
	f.StringVar(&taxRate, "tax-rate", "", "Tax rate between 0 and 1")
	f.StringVar(&unit, "unit", "", "Unit of sale")
	f.StringVar(&description, "description", "", "Description")
	f.StringVar(&features, "features", "", "Feature list")
	f.StringVar(&bestFor, "best-for", "", "Ideal customer")
	return cmd
}

func (h *handler) productStatusCmd(use, short string, apply func(context.Context, string) (*models.Product, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " SKU",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := apply(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s.\n", p.SKU, p.Status)
			return nil
		},
	}
}
