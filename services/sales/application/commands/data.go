package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (h *handler) dataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Export, back up, import and seed data",
	}
	cmd.AddCommand(
		h.dataExportCmd(),
		h.dataBackupCmd(),
		h.dataImportCmd(),
		h.dataSnapshotCmd(),
		h.dataSeedCmd(),
	)
	return cmd
}

func (h *handler) dataExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every purchase to a timestamped CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := h.svcs.Transfer.Export(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d purchases to %s\n", res.Rows, res.Path)
			return nil
		},
	}
}

func (h *handler) dataBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the database to a timestamped backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := h.svcs.Transfer.Backup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			return nil
		},
	}
}

func (h *handler) dataImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load purchases from an export file",
		Long: `Load purchases from a CSV file in the export format.

Every row is checked before anything is written, so one bad row rejects
the whole file. Invoice ids already stored are skipped. Unknown products
and customers are created from the names in the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := h.svcs.Transfer.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d of %d rows (%d already present).\n", res.Inserted, res.Rows, res.Skipped)
			if res.ProductsCreated > 0 || res.CustomersCreated > 0 {
				fmt.Fprintf(out, "Created %d products and %d customers.\n", res.ProductsCreated, res.CustomersCreated)
			}
			return nil
		},
	}
}

func (h *handler) dataSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Export and back up in one step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := h.svcs.Transfer.Snapshot(cmd.Context())
			out := cmd.OutOrStdout()
			if res.Export != nil {
				fmt.Fprintf(out, "Exported %d purchases to %s\n", res.Export.Rows, res.Export.Path)
			}
			if res.BackupPath != "" {
				fmt.Fprintf(out, "Backup written to %s\n", res.BackupPath)
			}
			return err
		},
	}
}

func (h *handler) dataSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load starter products and customers into empty tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := h.svcs.Seed.SeedIfEmpty(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Products == 0 && res.Customers == 0 {
				fmt.Fprintln(out, "Nothing to seed; the catalog and customer list already have rows.")
				return nil
			}
			fmt.Fprintf(out, "Seeded %d products and %d customers.\n", res.Products, res.Customers)
			return nil
		},
	}
}
