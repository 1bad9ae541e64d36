package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	appsvcs "github.com/ghuser/salesdesk/services/sales/application/services"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
)

func (h *handler) customerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}
	cmd.AddCommand(
		h.customerAddCmd(),
		h.customerListCmd(),
		h.customerUpdateCmd(),
		h.customerShowCmd(),
	)
	return cmd
}

// customerFlags binds the editable customer fields to flags.
type customerFlags struct {
	name, email, phone, company, industry, segment, status, leadSource string
	address1, address2, city, state, country, postalCode, notes        string
	lastContact                                                        string
}

func (cf *customerFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cf.name, "name", "", "Customer name")
	f.StringVar(&cf.email, "email", "", "Email address")
	f.StringVar(&cf.phone, "phone", "", "Phone number")
	f.StringVar(&cf.company, "company", "", "Company")
	f.StringVar(&cf.industry, "industry", "", "Industry")
	f.StringVar(&cf.segment, "segment", "", "Segment")
	f.StringVar(&cf.status, "status", "", "Relationship status")
	f.StringVar(&cf.leadSource, "lead-source", "", "Lead source")
	f.StringVar(&cf.address1, "address1", "", "Address line 1")
	f.StringVar(&cf.address2, "address2", "", "Address line 2")
	f.StringVar(&cf.city, "city", "", "City")
	f.StringVar(&cf.state, "state", "", "State or region")
	f.StringVar(&cf.country, "country", "", "Country")
	f.StringVar(&cf.postalCode, "postal-code", "", "Postal code")
	f.StringVar(&cf.notes, "notes", "", "Free-form notes")
	f.StringVar(&cf.lastContact, "last-contact", "", "Last contact time (RFC 3339 or YYYY-MM-DD)")
}

func (cf *customerFlags) input() (appsvcs.CustomerInput, error) {
	last, err := parseOptionalTime(cf.lastContact)
	if err != nil {
		return appsvcs.CustomerInput{}, err
	}
	return appsvcs.CustomerInput{
		Name:          cf.name,
		Email:         cf.email,
		Phone:         cf.phone,
		Company:       cf.company,
		Industry:      cf.industry,
		Segment:       cf.segment,
		Status:        cf.status,
		LeadSource:    cf.leadSource,
		AddressLine1:  cf.address1,
		AddressLine2:  cf.address2,
		City:          cf.city,
		State:         cf.state,
		Country:       cf.country,
		PostalCode:    cf.postalCode,
		Notes:         cf.notes,
		LastContactAt: last,
	}, nil
}

func (cf *customerFlags) update(cmd *cobra.Command) (appsvcs.CustomerUpdate, error) {
	var last *time.Time
	if cmd.Flags().Changed("last-contact") {
		t, err := parseOptionalTime(cf.lastContact)
		if err != nil {
			return appsvcs.CustomerUpdate{}, err
		}
		last = t
	}
	return appsvcs.CustomerUpdate{
		Name:          changed(cmd, "name", cf.name),
		Email:         changed(cmd, "email", cf.email),
		Phone:         changed(cmd, "phone", cf.phone),
		Company:       changed(cmd, "company", cf.company),
		Industry:      changed(cmd, "industry", cf.industry),
		Segment:       changed(cmd, "segment", cf.segment),
		Status:        changed(cmd, "status", cf.status),
		LeadSource:    changed(cmd, "lead-source", cf.leadSource),
		AddressLine1:  changed(cmd, "address1", cf.address1),
		AddressLine2:  changed(cmd, "address2", cf.address2),
		City:          changed(cmd, "city", cf.city),
		State:         changed(cmd, "state", cf.state),
		Country:       changed(cmd, "country", cf.country),
		PostalCode:    changed(cmd, "postal-code", cf.postalCode),
		Notes:         changed(cmd, "notes", cf.notes),
		LastContactAt: last,
	}, nil
}

func (h *handler) customerAddCmd() *cobra.Command {
	var (
		cf     customerFlags
		upsert bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Long: `Add a customer.

With --upsert an existing customer with the same email, or else the same
name, is updated instead; only the flags given overwrite stored values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := cf.input()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !upsert {
				c, err := h.svcs.Customers.Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added customer %s (%s).\n", c.Name, c.ID)
				return nil
			}
			c, created, err := h.svcs.Customers.Upsert(cmd.Context(), in)
			if err != nil {
				return err
			}
			verb := "Updated"
			if created {
				verb = "Added"
			}
			fmt.Fprintf(out, "%s customer %s (%s).\n", verb, c.Name, c.ID)
			return nil
		},
	}
	cf.register(cmd)
	cmd.Flags().BoolVar(&upsert, "upsert", false, "Update a matching customer instead of failing")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (h *handler) customerListCmd() *cobra.Command {
	var (
		query string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List or search customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cs, err := h.svcs.Customers.Search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			return renderCustomers(cmd.OutOrStdout(), cs)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Match name, email or company")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows (0 for no limit)")
	return cmd
}

func (h *handler) customerUpdateCmd() *cobra.Command {
	var cf customerFlags
	cmd := &cobra.Command{
		Use:   "update CUSTOMER",
		Short: "Change customer details",
		Long: `Change the flags given. CUSTOMER is an id, an email or an exact name.
Passing an empty value clears an optional field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			upd, err := cf.update(cmd)
			if err != nil {
				return err
			}
			c, err := h.svcs.Customers.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			c, err = h.svcs.Customers.Update(ctx, c.ID.String(), upd)
			if err != nil {
				return err
			}
			renderCustomer(cmd.OutOrStdout(), c, h.svcs.Reports.Location())
			return nil
		},
	}
	cf.register(cmd)
	return cmd
}

func (h *handler) customerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show CUSTOMER",
		Short: "Show one customer by id, email or exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := h.svcs.Customers.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderCustomer(cmd.OutOrStdout(), c, h.svcs.Reports.Location())
			return nil
		},
	}
}

// parseOptionalTime accepts RFC 3339 or a bare date. Empty yields nil.
func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, salesdomain.Invalid("time %q must be RFC 3339 or YYYY-MM-DD", s)
}
