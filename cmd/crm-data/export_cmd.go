package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	crmpersistence "github.com/velocity-exotics/crm-platform/modules/crm/infrastructure/persistence"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
	reactpersistence "github.com/velocity-exotics/crm-platform/modules/reactivation/infrastructure/persistence"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
)

var flagOutput string

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export leads or contacts to an xlsx workbook",
	}

	cmd.PersistentFlags().StringVar(&flagOutput, "output", "", "path of the .xlsx file to write (required)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "leads",
			Short: "Export the CRM lead pipeline",
			RunE:  runExportLeads,
		},
		&cobra.Command{
			Use:   "contacts",
			Short: "Export the reactivation contact pool",
			RunE:  runExportContacts,
		},
	)
	return cmd
}

const exportPageSize = 500

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func runExportLeads(cmd *cobra.Command, args []string) error {
	if flagOutput == "" {
		return withCode(fmt.Errorf("--output is required"), ExitUsage)
	}

	pool, err := openPool(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, err := cliContext(cmd.Context(), pool)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []any{
		"Company", "Contact", "Email", "Phone", "Status",
		"Estimated Value", "Fleet Size", "Next Follow Up", "Source",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	repo := crmpersistence.NewLeadRepository()
	row := 2
	if err := eachLeadPage(ctx, repo, func(l lead.Lead) error {
		estimated := ""
		if v := l.EstimatedValue(); v != nil {
			estimated = v.StringFixed(2)
		}
		fleet := ""
		if n := l.FleetSize(); n != nil {
			fleet = fmt.Sprintf("%d", *n)
		}
		followUp := ""
		if d := l.NextFollowUp(); d != nil {
			followUp = d.Format("2006-01-02")
		}
		cells := []any{
			l.CompanyName(), l.ContactName(), deref(l.Email()), deref(l.Phone()),
			string(l.Status()), estimated, fleet, followUp, deref(l.Source()),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		row++
		return f.SetSheetRow(sheet, cell, &cells)
	}); err != nil {
		return err
	}

	if err := f.SaveAs(flagOutput); err != nil {
		return withCode(fmt.Errorf("write workbook: %w", err), ExitDataErr)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d leads to %s\n", row-2, flagOutput)
	return nil
}

// eachLeadPage walks the tenant's leads page by page inside one transaction.
func eachLeadPage(ctx context.Context, repo lead.Repository, fn func(lead.Lead) error) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		offset := 0
		for {
			page, _, err := repo.GetPaginated(txCtx, &lead.FindParams{Limit: exportPageSize, Offset: offset})
			if err != nil {
				return err
			}
			for _, l := range page {
				if err := fn(l); err != nil {
					return err
				}
			}
			if len(page) < exportPageSize {
				return nil
			}
			offset += exportPageSize
		}
	})
}

func runExportContacts(cmd *cobra.Command, args []string) error {
	if flagOutput == "" {
		return withCode(fmt.Errorf("--output is required"), ExitUsage)
	}

	pool, err := openPool(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, err := cliContext(cmd.Context(), pool)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []any{
		"Name", "Email", "Phone", "Company", "Status",
		"Last Rental", "Total Rentals", "Lifetime Value",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	repo := reactpersistence.NewContactRepository()
	row := 2
	if err := eachContactPage(ctx, repo, func(c contact.Contact) error {
		lastRental := ""
		if d := c.LastRentalDate(); d != nil {
			lastRental = d.Format("2006-01-02")
		}
		rentals := ""
		if n := c.TotalRentals(); n != nil {
			rentals = fmt.Sprintf("%d", *n)
		}
		ltv := ""
		if v := c.LifetimeValue(); v != nil {
			ltv = v.StringFixed(2)
		}
		cells := []any{
			c.FullName(), deref(c.Email()), deref(c.Phone()), deref(c.Company()),
			string(c.Status()), lastRental, rentals, ltv,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		row++
		return f.SetSheetRow(sheet, cell, &cells)
	}); err != nil {
		return err
	}

	if err := f.SaveAs(flagOutput); err != nil {
		return withCode(fmt.Errorf("write workbook: %w", err), ExitDataErr)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d contacts to %s\n", row-2, flagOutput)
	return nil
}

func eachContactPage(ctx context.Context, repo contact.Repository, fn func(contact.Contact) error) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		offset := 0
		for {
			page, _, err := repo.GetPaginated(txCtx, &contact.FindParams{Limit: exportPageSize, Offset: offset})
			if err != nil {
				return err
			}
			for _, c := range page {
				if err := fn(c); err != nil {
					return err
				}
			}
			if len(page) < exportPageSize {
				return nil
			}
			offset += exportPageSize
		}
	})
}
