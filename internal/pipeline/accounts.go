package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contract-hub/internal/model"
	"github.com/sells-group/contract-hub/pkg/activity"
)

// fetchAccounts retrieves the contract details for the contact's account
// numbers. A failure here is terminal for the run.
func (p *Pipeline) fetchAccounts(ctx context.Context, info *model.ContactInfo, refresh bool) ([]model.ContractAccountDetail, error) {
	nums := info.AccountNumbers()
	details, err := p.accounts.FindAccounts(ctx, info.CustomerNumber, nums, refresh)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch accounts")
	}
	return details, nil
}

// journalLogin records the session's legitimation and login activities.
// The journal is advisory: failures are logged and swallowed.
func (p *Pipeline) journalLogin(ctx context.Context, sess model.Session, info *model.ContactInfo, accountNumbers []string) {
	if p.activity == nil {
		return
	}
	log := zap.L().With(zap.String("gcid", sess.GCID))

	for _, typ := range []activity.Type{activity.TypeLegitimationCompleted, activity.TypeAccountLogin} {
		entry := activity.NewEntry(typ, sess)
		entry.CustomerNumber = info.CustomerNumber
		entry.AccountNumbers = accountNumbers
		if err := p.activity.Log(ctx, entry); err != nil {
			log.Warn("pipeline: activity journal failed",
				zap.String("type", string(typ)),
				zap.Error(err),
			)
		}
	}
}
