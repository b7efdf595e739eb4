package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	crmpersistence "github.com/velocity-exotics/crm-platform/modules/crm/infrastructure/persistence"
	crmservices "github.com/velocity-exotics/crm-platform/modules/crm/services"
	reactpersistence "github.com/velocity-exotics/crm-platform/modules/reactivation/infrastructure/persistence"
	reactservices "github.com/velocity-exotics/crm-platform/modules/reactivation/services"
	"github.com/velocity-exotics/crm-platform/pkg/configuration"
	"github.com/velocity-exotics/crm-platform/pkg/csvimport"
	"github.com/velocity-exotics/crm-platform/pkg/logging"
)

var (
	flagInput string
	flagApply bool
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a spreadsheet of leads or contacts",
	}

	cmd.PersistentFlags().StringVar(&flagInput, "input", "", "path to a .csv or .xlsx file (required)")
	cmd.PersistentFlags().BoolVar(&flagApply, "apply", false, "commit the import; default is a dry run showing the proposed mapping")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "leads",
			Short: "Import sales leads into the CRM pipeline",
			RunE:  runImportLeads,
		},
		&cobra.Command{
			Use:   "contacts",
			Short: "Import past renters into the reactivation pool",
			RunE:  runImportContacts,
		},
	)
	return cmd
}

func readInput() ([]byte, bool, error) {
	if flagInput == "" {
		return nil, false, withCode(fmt.Errorf("--input is required"), ExitUsage)
	}
	data, err := os.ReadFile(flagInput)
	if err != nil {
		return nil, false, withCode(fmt.Errorf("read input: %w", err), ExitDataErr)
	}
	xlsx := strings.EqualFold(filepath.Ext(flagInput), ".xlsx")
	return data, xlsx, nil
}

func printMapping(out *cobra.Command, columns []csvimport.ColumnMatch, rowCount int) {
	w := tabwriter.NewWriter(out.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE COLUMN\tFIELD\tMATCH")
	for _, col := range columns {
		field := col.FieldKey
		if field == "" {
			field = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", col.Header, field, col.Kind)
	}
	_ = w.Flush()
	fmt.Fprintf(out.OutOrStdout(), "\n%d data rows. Re-run with --apply to commit.\n", rowCount)
}

func printOutcome(out *cobra.Command, outcome csvimport.Outcome) error {
	fmt.Fprintf(out.OutOrStdout(),
		"imported: %d, duplicates: %d, failed: %d, skipped: %d\n",
		outcome.Success, outcome.Duplicates, outcome.Failed, outcome.Skipped,
	)
	if outcome.Failed > 0 {
		return withCode(fmt.Errorf("last error: %s", outcome.LastError), ExitPartial)
	}
	return nil
}

func runImportLeads(cmd *cobra.Command, args []string) error {
	data, xlsx, err := readInput()
	if err != nil {
		return err
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

	svc := crmservices.NewLeadImportService(
		crmpersistence.NewLeadRepository(),
		crmpersistence.NewNoteRepository(),
		logging.ConsoleLogger(configuration.Use().LogrusLogLevel()),
	)

	if !flagApply {
		preview, err := previewLeads(ctx, svc, data, xlsx)
		if err != nil {
			return withCode(err, ExitDataErr)
		}
		printMapping(cmd, preview.Columns, preview.RowCount)
		return nil
	}

	result, err := importLeads(ctx, svc, data, xlsx)
	if err != nil {
		return withCode(err, ExitDataErr)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "batch %s\n", result.BatchID)
	return printOutcome(cmd, result.Outcome)
}

func previewLeads(ctx context.Context, svc *crmservices.LeadImportService, data []byte, xlsx bool) (*crmservices.ImportPreview, error) {
	if xlsx {
		return svc.PreviewXLSX(ctx, bytes.NewReader(data))
	}
	return svc.Preview(ctx, data)
}

func importLeads(ctx context.Context, svc *crmservices.LeadImportService, data []byte, xlsx bool) (*crmservices.LeadImportResult, error) {
	source := filepath.Base(flagInput)
	if xlsx {
		return svc.ImportXLSX(ctx, bytes.NewReader(data), nil, source)
	}
	return svc.Import(ctx, data, nil, source)
}

func runImportContacts(cmd *cobra.Command, args []string) error {
	data, xlsx, err := readInput()
	if err != nil {
		return err
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

	svc := reactservices.NewContactImportService(
		reactpersistence.NewContactRepository(),
		logging.ConsoleLogger(configuration.Use().LogrusLogLevel()),
	)

	if !flagApply {
		var preview *reactservices.ImportPreview
		if xlsx {
			preview, err = svc.PreviewXLSX(ctx, bytes.NewReader(data))
		} else {
			preview, err = svc.Preview(ctx, data)
		}
		if err != nil {
			return withCode(err, ExitDataErr)
		}
		printMapping(cmd, preview.Columns, preview.RowCount)
		return nil
	}

	source := filepath.Base(flagInput)
	var result *reactservices.ContactImportResult
	if xlsx {
		result, err = svc.ImportXLSX(ctx, bytes.NewReader(data), nil, source)
	} else {
		result, err = svc.Import(ctx, data, nil, source)
	}
	if err != nil {
		return withCode(err, ExitDataErr)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "batch %s\n", result.BatchID)
	return printOutcome(cmd, result.Outcome)
}
