// Package accountinfo holds the account-status policy: which status
// category codes count as active, how portfolio codes map to display
// categories, and the small predicates the presentation layer shares.
// The defaults match production; deployments override them with a
// YAML policy file.
package accountinfo

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/contract-hub/internal/model"
)

// Policy decides which accounts participate in enrichment and how
// contract attributes are presented.
type Policy struct {
	// ActiveStatusCodes are the status category codes whose accounts are
	// enriched. Matching is case-insensitive.
	ActiveStatusCodes []string `yaml:"active_status_codes"`

	// CategoryLabels maps portfolio category codes to display categories.
	// Codes without an entry pass through unchanged.
	CategoryLabels map[string]string `yaml:"category_labels"`
}

// Default returns the production policy.
func Default() *Policy {
	return &Policy{
		ActiveStatusCodes: []string{"ACTIVE", "DELINQUENT"},
		CategoryLabels: map[string]string{
			"LOAN": "FINANCING",
		},
	}
}

// Load reads a policy file. Fields missing from the file keep the
// default values.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "accountinfo: read policy %s", path)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, eris.Wrapf(err, "accountinfo: parse policy %s", path)
	}
	if len(p.ActiveStatusCodes) == 0 {
		return nil, eris.Errorf("accountinfo: policy %s has no active status codes", path)
	}
	return p, nil
}

// IsActiveAccount reports whether an account with the given status
// category code should be enriched.
func (p *Policy) IsActiveAccount(statusCategoryCode string) bool {
	for _, code := range p.ActiveStatusCodes {
		if strings.EqualFold(code, statusCategoryCode) {
			return true
		}
	}
	return false
}

// Category maps a portfolio category code to its display category.
func (p *Policy) Category(portfolioCode string) string {
	if label, ok := p.CategoryLabels[strings.ToUpper(portfolioCode)]; ok {
		return label
	}
	return portfolioCode
}

// IsPastDue reports whether a balance indicates an overdue contract.
func IsPastDue(currentBalance float64) bool {
	return currentBalance > 0
}

// HasLastPayment reports whether the detail carries a complete last
// payment (both amount and date).
func HasLastPayment(d model.ContractAccountDetail) bool {
	return d.HasLastPayment()
}

// ShowDueDate reports whether a due date should be rendered for the
// detail. Paid-off contracts have nothing due.
func ShowDueDate(d model.ContractAccountDetail) bool {
	return d.NextPaymentDueDate != nil && d.ClassifyBucket() != model.BucketPaid
}
