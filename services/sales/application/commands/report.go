package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

func (h *handler) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sales reports",
	}
	cmd.AddCommand(
		h.reportDailyCmd(),
		h.reportRangeCmd(),
		h.reportTopCmd(),
	)
	return cmd
}

func (h *handler) reportDailyCmd() *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Daily report with trend, top products, alerts and summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at := time.Now()
			if day != "" {
				d, err := parseDay(day, h.svcs.Reports.Location())
				if err != nil {
					return err
				}
				at = d
			}
			r, err := h.svcs.Reports.DailyReport(cmd.Context(), at)
			if err != nil {
				return err
			}
			return renderReport(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Report day (YYYY-MM-DD, default today)")
	return cmd
}

// rangeFlags binds --from and --to, both inclusive calendar days.
type rangeFlags struct {
	from, to string
}

func (rf *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.from, "from", "", "First day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&rf.to, "to", "", "Last day, inclusive (YYYY-MM-DD, default --from)")
}

// dateRange converts the flags to a half-open range. --to before --from
// yields an empty range, not an error.
func (rf *rangeFlags) dateRange(loc *time.Location) (models.DateRange, error) {
	start := models.StartOfDay(time.Now(), loc)
	if rf.from != "" {
		d, err := parseDay(rf.from, loc)
		if err != nil {
			return models.DateRange{}, err
		}
		start = d
	}
	last := start
	if rf.to != "" {
		d, err := parseDay(rf.to, loc)
		if err != nil {
			return models.DateRange{}, err
		}
		last = d
	}
	return models.DateRange{Start: start, End: last.AddDate(0, 0, 1)}, nil
}

func (h *handler) reportRangeCmd() *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Totals over a span of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := rf.dateRange(h.svcs.Reports.Location())
			if err != nil {
				return err
			}
			t, err := h.svcs.Reports.Aggregate(cmd.Context(), r)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			heading(out, rangeTitle("Totals", r))
			renderTotals(out, t, h.svcs.Reports.Currency())
			return nil
		},
	}
	rf.register(cmd)
	return cmd
}

func (h *handler) reportTopCmd() *cobra.Command {
	var (
		rf    rangeFlags
		limit int
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Best selling products by revenue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := rf.dateRange(h.svcs.Reports.Location())
			if err != nil {
				return err
			}
			n := limit
			if n <= 0 {
				n = h.svcs.Reports.TopN()
			}
			top, err := h.svcs.Reports.TopProducts(cmd.Context(), r, n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			heading(out, rangeTitle(fmt.Sprintf("Top %d products", n), r))
			return renderTop(out, top, h.svcs.Reports.Currency())
		},
	}
	rf.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of products (default from configuration)")
	return cmd
}

func rangeTitle(prefix string, r models.DateRange) string {
	first := r.Start.Format(time.DateOnly)
	last := r.End.AddDate(0, 0, -1).Format(time.DateOnly)
	if first == last {
		return prefix + " for " + first
	}
	return prefix + " from " + first + " to " + last
}

// parseDay reads YYYY-MM-DD as midnight in loc.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, salesdomain.Invalid("day %q must be YYYY-MM-DD", s)
	}
	return d, nil
}
