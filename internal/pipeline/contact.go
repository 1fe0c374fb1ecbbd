package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/contract-hub/internal/model"
)

// resolveContact resolves the session to its contact, using the session
// cache when possible. A failed lookup is reported as an error-flagged
// contact rather than a Go error so the caller treats it like any other
// settled sub-result.
func (p *Pipeline) resolveContact(ctx context.Context, sess model.Session, refresh bool) *model.ContactInfo {
	log := zap.L().With(zap.String("gcid", sess.GCID))

	if refresh {
		p.sessions.Invalidate(sess)
	} else if cached := p.sessions.Get(sess); cached != nil {
		log.Debug("pipeline: contact cache hit")
		return cached
	}

	info, err := p.contact.GetBySession(ctx, sess, refresh)
	if err != nil {
		log.Error("pipeline: contact resolution failed", zap.Error(err))
		return &model.ContactInfo{Err: true}
	}
	if info.Err {
		log.Warn("pipeline: contact service reported an error flag")
		return info
	}

	// Products without an account number cannot be joined downstream.
	info.FinancialProducts = filterProducts(info.FinancialProducts)
	p.imagery.EncodeProducts(info.FinancialProducts)

	p.sessions.SetOnce(sess, info)
	return info
}

// filterProducts drops financial products that carry no account number.
func filterProducts(products []model.FinancialProduct) []model.FinancialProduct {
	kept := make([]model.FinancialProduct, 0, len(products))
	for _, fp := range products {
		if fp.AccountNumber == "" {
			continue
		}
		kept = append(kept, fp)
	}
	return kept
}
