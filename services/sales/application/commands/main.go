// Package commands is the cobra command tree of the sales bounded context.
// Every command writes its result to the command's output stream and
// returns errors unprinted; the caller maps them to exit codes.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/ghuser/salesdesk/pkg/app"
	appsvcs "github.com/ghuser/salesdesk/services/sales/application/services"
)

// handler carries the wired services into each command's RunE.
type handler struct {
	app  *app.Application
	svcs *appsvcs.Services
}

// SalesCommands registers the sales command groups on root.
func SalesCommands(root *cobra.Command, a *app.Application, svcs *appsvcs.Services) {
	h := &handler{app: a, svcs: svcs}
	root.AddCommand(
		h.productCmd(),
		h.customerCmd(),
		h.saleCmd(),
		h.reportCmd(),
		h.dataCmd(),
		h.statusCmd(),
	)
}

// changed returns a pointer to v when the named flag was set explicitly.
func changed(cmd *cobra.Command, name, v string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
