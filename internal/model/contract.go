package model

import "time"

// Bucket is the payment-status classification of a contract.
type Bucket string

const (
	BucketPastDue Bucket = "past_due"
	BucketCurrent Bucket = "current"
	BucketPaid    Bucket = "paid"
)

// ContractAccountDetail is the authoritative per-contract record returned
// by the accounts service. AccountNumber and FSAccountID are unique within
// one response.
type ContractAccountDetail struct {
	AccountNumber         string     `json:"accountNumber"`
	FSAccountID           string     `json:"fSAccountId"`
	CurrentBalance        float64    `json:"currentBalance"`
	TotalAmountDue        float64    `json:"totalAmountDue"`
	NextPaymentDueDate    *time.Time `json:"nextPaymentDueDate"`
	StatusCategoryCode    string     `json:"statusCategoryCode"`
	PortfolioCategoryCode string     `json:"portfolioCategoryCode"`
	LastPaymentAmount     *float64   `json:"lastPaymentAmount"`
	LastPaymentDate       *time.Time `json:"lastPaymentDate"`
}

// ClassifyBucket assigns the contract to exactly one bucket. The rules are
// evaluated in priority order: any positive current balance means past due
// regardless of the amount due; otherwise a positive amount due means
// current; otherwise the contract is paid.
func (d ContractAccountDetail) ClassifyBucket() Bucket {
	switch {
	case d.CurrentBalance > 0:
		return BucketPastDue
	case d.TotalAmountDue > 0:
		return BucketCurrent
	default:
		return BucketPaid
	}
}

// HasLastPayment reports whether the contract carries a recorded last
// payment (both amount and date present).
func (d ContractAccountDetail) HasLastPayment() bool {
	return d.LastPaymentAmount != nil && d.LastPaymentDate != nil
}
