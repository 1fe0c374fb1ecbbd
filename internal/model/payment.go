package model

import "time"

// ScheduledItem is one upcoming scheduled payment for an account. The
// payments service returns at most one per active account.
type ScheduledItem struct {
	AccountNumber string    `json:"accountNumber"`
	DueDate       time.Time `json:"dueDate"`
	Amount        float64   `json:"amount"`
}

// Payoff is the computed payoff quote for a contract, keyed by FSAccountID.
// Err mirrors the service's embedded error flag; a payoff with Err set
// carries no usable amount.
type Payoff struct {
	FSAccountID string     `json:"fSAccountId"`
	Amount      float64    `json:"amount"`
	GoodThrough *time.Time `json:"goodThrough,omitempty"`
	Err         bool       `json:"error"`
}
