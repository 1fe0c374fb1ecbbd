package pipeline

import (
	"sort"

	"github.com/sells-group/contract-hub/internal/model"
)

// classifyContracts buckets the contract details by payment status and
// returns them in presentation order: past due first, then current, then
// paid off. Within each bucket contracts are ordered by ascending next
// payment due date; contracts without a due date go last. The sort is
// stable, so ties keep the service's original order.
func classifyContracts(details []model.ContractAccountDetail) []model.ContractAccountDetail {
	buckets := map[model.Bucket][]model.ContractAccountDetail{}
	for _, d := range details {
		b := d.ClassifyBucket()
		buckets[b] = append(buckets[b], d)
	}

	ordered := make([]model.ContractAccountDetail, 0, len(details))
	for _, b := range []model.Bucket{model.BucketPastDue, model.BucketCurrent, model.BucketPaid} {
		group := buckets[b]
		sort.SliceStable(group, func(i, j int) bool {
			di, dj := group[i].NextPaymentDueDate, group[j].NextPaymentDueDate
			switch {
			case di == nil:
				return false
			case dj == nil:
				return true
			default:
				return di.Before(*dj)
			}
		})
		ordered = append(ordered, group...)
	}
	return ordered
}
