package model

// Session identifies the caller for a single aggregation request. Both
// identifiers come from the authentication layer in front of this service.
type Session struct {
	GCID     string `json:"gcid"`
	ClientID string `json:"client_id"`
}

// Key returns the cache key used for session-scoped identity caching.
func (s Session) Key() string {
	return s.GCID + "|" + s.ClientID
}

// FinancialProduct is one contract candidate attached to a contact. The
// account number is the join key for everything downstream except payoffs,
// which key off FSAccountID.
type FinancialProduct struct {
	AccountNumber         string `json:"accountNumber"`
	FSAccountID           string `json:"fSAccountId"`
	PortfolioCategoryCode string `json:"portfolioCategoryCode"`
	VehicleImageData      string `json:"vehicleImageData"`
}

// ContactInfo is the uniform result of identity resolution. Failures are
// carried in Err rather than as a Go error so the pipeline can treat a
// failed lookup like any other settled sub-result.
type ContactInfo struct {
	CustomerNumber    int64              `json:"customerNumber"`
	FirstName         string             `json:"firstName"`
	FinancialProducts []FinancialProduct `json:"financialProducts"`
	Err               bool               `json:"error"`
}

// Populated reports whether the contact carries enough data to skip a
// remote lookup: a customer number and at least one financial product.
func (c *ContactInfo) Populated() bool {
	return c != nil && !c.Err && c.CustomerNumber != 0 && len(c.FinancialProducts) > 0
}

// AccountNumbers returns the candidate account numbers for the contact's
// products, in product order. Products without an account number are
// skipped; duplicates are preserved.
func (c *ContactInfo) AccountNumbers() []string {
	nums := make([]string, 0, len(c.FinancialProducts))
	for _, fp := range c.FinancialProducts {
		if fp.AccountNumber == "" {
			continue
		}
		nums = append(nums, fp.AccountNumber)
	}
	return nums
}
