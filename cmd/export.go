package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/contract-hub/internal/accountinfo"
	"github.com/sells-group/contract-hub/internal/model"
)

var (
	exportGCID     string
	exportClientID string
	exportRefresh  bool
	exportOut      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run one aggregation and export the overview as XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sess := model.Session{GCID: exportGCID, ClientID: exportClientID}
		overview, err := env.Pipeline.Run(ctx, sess, exportRefresh)
		if err != nil {
			return err
		}
		if overview.Flags.TechnicalError() {
			return eris.New("export: aggregation failed, nothing to export")
		}

		if err := writeOverviewXLSX(overview, env.Policy, exportOut); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d contracts to %s\n", len(overview.Contracts), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportGCID, "gcid", "", "session GCID (required)")
	exportCmd.Flags().StringVar(&exportClientID, "client-id", "", "session client ID (required)")
	exportCmd.Flags().BoolVar(&exportRefresh, "refresh", false, "bypass caches")
	exportCmd.Flags().StringVar(&exportOut, "out", "overview.xlsx", "output file path")
	_ = exportCmd.MarkFlagRequired("gcid")
	_ = exportCmd.MarkFlagRequired("client-id")
	rootCmd.AddCommand(exportCmd)
}

// writeOverviewXLSX writes one row per classified contract.
func writeOverviewXLSX(o *model.Overview, policy *accountinfo.Policy, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Contracts")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"Account", "FS Account", "Category", "Status",
		"Balance", "Amount Due", "Next Due Date", "Next Amount",
		"Payoff", "Payoff Good Through", "Last Payment", "Last Payment Date",
	} {
		header.AddCell().SetString(h)
	}

	for _, c := range o.Contracts {
		row := sheet.AddRow()
		row.AddCell().SetString(c.AccountNumber)
		row.AddCell().SetString(c.FSAccountID)
		row.AddCell().SetString(policy.Category(c.PortfolioCategoryCode))
		row.AddCell().SetString(bucketLabel(c.ClassifyBucket()))
		row.AddCell().SetFloat(c.CurrentBalance)
		row.AddCell().SetFloat(c.TotalAmountDue)
		row.AddCell().SetString(formatDate(c.NextPaymentDueDate))

		if sp := o.ScheduledPayment(c.AccountNumber); sp != nil {
			row.AddCell().SetFloat(sp.Amount)
		} else {
			row.AddCell().SetString("")
		}

		if q := o.Payoff(c.FSAccountID); q != nil {
			row.AddCell().SetFloat(q.Amount)
			row.AddCell().SetString(formatDate(q.GoodThrough))
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("")
		}

		if accountinfo.HasLastPayment(c) {
			row.AddCell().SetFloat(*c.LastPaymentAmount)
			row.AddCell().SetString(formatDate(c.LastPaymentDate))
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("")
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
