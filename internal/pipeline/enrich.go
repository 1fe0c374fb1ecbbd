package pipeline

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/contract-hub/internal/model"
)

// enrichKind tags a settled enrichment sub-result.
type enrichKind string

const (
	kindUpcoming enrichKind = "upcoming_payment"
	kindPayoff   enrichKind = "payoff"
)

// enrichResult is one settled sub-request of the enrichment fan-out.
// Failures travel in the failed flag; goroutines never return an error
// to the group, so every sub-request settles regardless of the others.
type enrichResult struct {
	kind   enrichKind
	key    string
	item   *model.ScheduledItem
	quote  *model.Payoff
	failed bool
}

// enrichment holds the joined outcome of the fan-out. Each batch is
// all-or-nothing: one failed member discards the whole batch and sets
// its flag.
type enrichment struct {
	scheduled      []model.ScheduledItem
	payoffs        []model.Payoff
	upcomingFailed bool
	payoffsFailed  bool
}

// enrich issues two concurrent requests per active contract: the upcoming
// scheduled payment (keyed by account number) and the payoff quote (keyed
// by FS account ID). It waits for all sub-requests to settle, in any
// order, then joins them by key.
func (p *Pipeline) enrich(ctx context.Context, active []model.ContractAccountDetail, refresh bool) *enrichment {
	if len(active) == 0 {
		return &enrichment{}
	}

	log := zap.L()
	results := make(chan enrichResult, 2*len(active))

	var g errgroup.Group
	for _, d := range active {
		g.Go(func() error {
			item, err := p.upay.FindUpcoming(ctx, d.AccountNumber, refresh)
			if err != nil {
				log.Warn("pipeline: upcoming payment lookup failed",
					zap.String("account", d.AccountNumber), zap.Error(err))
				results <- enrichResult{kind: kindUpcoming, key: d.AccountNumber, failed: true}
				return nil
			}
			results <- enrichResult{kind: kindUpcoming, key: d.AccountNumber, item: item}
			return nil
		})
		g.Go(func() error {
			quote, err := p.payoff.Calculate(ctx, d.FSAccountID, refresh)
			if err != nil || quote.Err {
				if err != nil {
					log.Warn("pipeline: payoff computation failed",
						zap.String("fs_account", d.FSAccountID), zap.Error(err))
				}
				results <- enrichResult{kind: kindPayoff, key: d.FSAccountID, failed: true}
				return nil
			}
			results <- enrichResult{kind: kindPayoff, key: d.FSAccountID, quote: quote}
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	scheduledByKey := make(map[string]*model.ScheduledItem, len(active))
	payoffByKey := make(map[string]*model.Payoff, len(active))
	out := &enrichment{}

	for r := range results {
		switch r.kind {
		case kindUpcoming:
			if r.failed {
				out.upcomingFailed = true
				continue
			}
			if r.item != nil {
				scheduledByKey[r.key] = r.item
			}
		case kindPayoff:
			if r.failed {
				out.payoffsFailed = true
				continue
			}
			payoffByKey[r.key] = r.quote
		}
	}

	// Join in the contract order of the active set. A failed batch is
	// dropped wholesale; partial successes within it are discarded.
	if !out.upcomingFailed {
		for _, d := range active {
			if item, ok := scheduledByKey[d.AccountNumber]; ok {
				out.scheduled = append(out.scheduled, *item)
			}
		}
	}
	if !out.payoffsFailed {
		for _, d := range active {
			if quote, ok := payoffByKey[d.FSAccountID]; ok {
				out.payoffs = append(out.payoffs, *quote)
			}
		}
	}
	return out
}

// filterActive selects the contracts eligible for enrichment.
func (p *Pipeline) filterActive(details []model.ContractAccountDetail) []model.ContractAccountDetail {
	active := make([]model.ContractAccountDetail, 0, len(details))
	for _, d := range details {
		if p.policy.IsActiveAccount(d.StatusCategoryCode) {
			active = append(active, d)
		}
	}
	return active
}
