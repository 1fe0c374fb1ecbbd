package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/contract-hub/internal/accountinfo"
	"github.com/sells-group/contract-hub/internal/model"
)

var (
	overviewGCID     string
	overviewClientID string
	overviewRefresh  bool
	overviewLocale   string
	overviewCurrency string
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Run one aggregation and print the contract overview",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sess := model.Session{GCID: overviewGCID, ClientID: overviewClientID}
		overview, err := env.Pipeline.Run(ctx, sess, overviewRefresh)
		if err != nil {
			return err
		}

		f, err := newAmountFormatter(overviewLocale, overviewCurrency)
		if err != nil {
			return err
		}
		formatOverview(os.Stdout, overview, env.Policy, f)
		return nil
	},
}

func init() {
	overviewCmd.Flags().StringVar(&overviewGCID, "gcid", "", "session GCID (required)")
	overviewCmd.Flags().StringVar(&overviewClientID, "client-id", "", "session client ID (required)")
	overviewCmd.Flags().BoolVar(&overviewRefresh, "refresh", false, "bypass caches")
	overviewCmd.Flags().StringVar(&overviewLocale, "locale", "en", "locale for amount formatting")
	overviewCmd.Flags().StringVar(&overviewCurrency, "currency", "EUR", "ISO 4217 currency code for amounts")
	_ = overviewCmd.MarkFlagRequired("gcid")
	_ = overviewCmd.MarkFlagRequired("client-id")
	rootCmd.AddCommand(overviewCmd)
}

// amountFormatter renders monetary amounts in the operator's locale.
type amountFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

func newAmountFormatter(locale, code string) (*amountFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return &amountFormatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

func (f *amountFormatter) format(v float64) string {
	return f.printer.Sprintf("%v", currency.NarrowSymbol(f.unit.Amount(v)))
}

// formatOverview writes the classified contract table plus enrichment
// data to w.
func formatOverview(out io.Writer, o *model.Overview, policy *accountinfo.Policy, f *amountFormatter) {
	if o.Flags.TechnicalError() {
		fmt.Fprintln(out, "Aggregation failed:")
		if o.Flags.ContactError {
			fmt.Fprintln(out, "  - contact resolution failed")
		}
		if o.Flags.AccountError {
			fmt.Fprintln(out, "  - account detail fetch failed")
		}
		return
	}

	fmt.Fprintf(out, "Customer %d", o.CustomerNumber)
	if o.FirstName != "" {
		fmt.Fprintf(out, " (%s)", o.FirstName)
	}
	fmt.Fprintln(out)

	if o.Flags.NoAccounts {
		fmt.Fprintln(out, "No active contracts.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tCATEGORY\tSTATUS\tBALANCE\tAMOUNT DUE\tNEXT DUE\tNEXT AMOUNT\tPAYOFF")
	fmt.Fprintln(w, "-------\t--------\t------\t-------\t----------\t--------\t-----------\t------")

	for _, c := range o.Contracts {
		nextDue, nextAmount := "-", "-"
		if accountinfo.ShowDueDate(c) {
			nextDue = c.NextPaymentDueDate.Format("2006-01-02")
		}
		if sp := o.ScheduledPayment(c.AccountNumber); sp != nil {
			nextAmount = f.format(sp.Amount)
		}
		payoffAmount := "-"
		if q := o.Payoff(c.FSAccountID); q != nil {
			payoffAmount = f.format(q.Amount)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.AccountNumber,
			policy.Category(c.PortfolioCategoryCode),
			bucketLabel(c.ClassifyBucket()),
			f.format(c.CurrentBalance),
			f.format(c.TotalAmountDue),
			nextDue,
			nextAmount,
			payoffAmount,
		)
	}
	_ = w.Flush()

	if o.Flags.UpcomingPaymentsFailed {
		fmt.Fprintln(out, "\nNote: upcoming payment data is unavailable.")
	}
	if o.Flags.PayoffsFailed {
		fmt.Fprintln(out, "\nNote: payoff quotes are unavailable.")
	}
}

func bucketLabel(b model.Bucket) string {
	switch b {
	case model.BucketPastDue:
		return "PAST DUE"
	case model.BucketCurrent:
		return "CURRENT"
	default:
		return "PAID"
	}
}

// formatDate is shared by the export command.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
