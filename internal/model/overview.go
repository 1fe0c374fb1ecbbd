package model

// Flags collects the independent failure signals of one aggregation run.
// Multiple flags may be set; none of them is a Go error because a flagged
// run is still a completed run.
type Flags struct {
	// ContactError is set when identity resolution failed. The run halts
	// before the account fetch.
	ContactError bool `json:"contactError"`
	// AccountError is set when the account-detail fetch failed. The run
	// halts before enrichment and classification.
	AccountError bool `json:"accountError"`
	// UpcomingPaymentsFailed is set when any member of the upcoming-payment
	// batch failed; the whole batch is discarded.
	UpcomingPaymentsFailed bool `json:"upcomingPaymentsFailed"`
	// PayoffsFailed is set when any member of the payoff batch failed; the
	// whole batch is discarded.
	PayoffsFailed bool `json:"payoffsFailed"`
	// NoAccounts is set when classification produced zero contracts. This
	// is a neutral empty state, not a technical error.
	NoAccounts bool `json:"noAccounts"`
}

// TechnicalError reports whether the run hit a halting failure. Enrichment
// batch failures are deliberately excluded: the contract list is still
// valid without them.
func (f Flags) TechnicalError() bool {
	return f.ContactError || f.AccountError
}

// Overview is the final output of one aggregation run: the classified,
// ordered contract list plus the enrichment results and failure flags the
// presentation layer needs.
type Overview struct {
	CustomerNumber    int64                   `json:"customerNumber"`
	FirstName         string                  `json:"firstName"`
	FinancialProducts []FinancialProduct      `json:"financialProducts"`
	Contracts         []ContractAccountDetail `json:"contracts"`
	ScheduledPayments []ScheduledItem         `json:"scheduledPayments"`
	Payoffs           []Payoff                `json:"payoffs"`
	Flags             Flags                   `json:"flags"`
}

// Contract looks up a classified contract by account number. Returns nil
// when the account is not part of the overview.
func (o *Overview) Contract(accountNumber string) *ContractAccountDetail {
	for i := range o.Contracts {
		if o.Contracts[i].AccountNumber == accountNumber {
			return &o.Contracts[i]
		}
	}
	return nil
}

// ScheduledPayment looks up the upcoming scheduled payment for an account.
func (o *Overview) ScheduledPayment(accountNumber string) *ScheduledItem {
	for i := range o.ScheduledPayments {
		if o.ScheduledPayments[i].AccountNumber == accountNumber {
			return &o.ScheduledPayments[i]
		}
	}
	return nil
}

// Payoff looks up the computed payoff for a contract by FS account ID.
func (o *Overview) Payoff(fsAccountID string) *Payoff {
	for i := range o.Payoffs {
		if o.Payoffs[i].FSAccountID == fsAccountID {
			return &o.Payoffs[i]
		}
	}
	return nil
}
