package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghuser/salesdesk/pkg/health"
	"github.com/ghuser/salesdesk/pkg/migrator"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/infrastructure/summary"
)

func (h *handler) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store health, schema version and summary provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := h.app.Config
			out := cmd.OutOrStdout()

			rep := health.Check(ctx, cfg.DBTimeout, map[string]health.Checker{"database": h.app.Db}, "database")
			heading(out, "salesdesk status: "+rep.Status)
			field(out, "Database", h.app.Db.Path())
			for _, r := range rep.Results {
				state := okStyle.Render("ok")
				if !r.OK {
					state = criticalStyle.Render("failed: " + r.Err.Error())
				}
				field(out, "  "+r.Name, fmt.Sprintf("%s (%s)", state, r.Latency.Round(time.Microsecond)))
			}

			version, err := migrator.Version(h.app.Db.DB())
			if err != nil {
				field(out, "Schema version", "unknown")
			} else {
				field(out, "Schema version", version)
			}
			field(out, "Recent window", cfg.MaxRecentPurchases)
			field(out, "Time zone", h.svcs.Reports.Location())
			fmt.Fprintln(out, summary.StatusLine(cfg))

			if rep.Status != "ok" {
				return fmt.Errorf("%w: %w", salesdomain.ErrStoreUnavailable, errors.Join(unhealthy(rep)...))
			}
			return nil
		},
	}
}

func unhealthy(rep health.Report) []error {
	var errs []error
	for _, r := range rep.Results {
		if !r.OK {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	return errs
}
