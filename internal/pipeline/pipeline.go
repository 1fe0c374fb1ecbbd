// Package pipeline orchestrates one contract aggregation run: identity
// resolution, account details, concurrent enrichment, and classification.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contract-hub/internal/accountinfo"
	"github.com/sells-group/contract-hub/internal/config"
	"github.com/sells-group/contract-hub/internal/imagery"
	"github.com/sells-group/contract-hub/internal/model"
	"github.com/sells-group/contract-hub/internal/session"
	"github.com/sells-group/contract-hub/internal/store"
	"github.com/sells-group/contract-hub/pkg/accounts"
	"github.com/sells-group/contract-hub/pkg/activity"
	"github.com/sells-group/contract-hub/pkg/contact"
	"github.com/sells-group/contract-hub/pkg/payoff"
	"github.com/sells-group/contract-hub/pkg/upay"
)

// Pipeline orchestrates the aggregation stages for a session.
type Pipeline struct {
	cfg      *config.Config
	store    store.Store
	sessions *session.Cache
	contact  contact.Client
	accounts accounts.Client
	upay     upay.Client
	payoff   payoff.Client
	activity activity.Client
	policy   *accountinfo.Policy
	imagery  *imagery.Encoder
}

// New creates a Pipeline with all dependencies. activityClient may be nil
// when journaling is disabled.
func New(
	cfg *config.Config,
	st store.Store,
	sessions *session.Cache,
	contactClient contact.Client,
	accountsClient accounts.Client,
	upayClient upay.Client,
	payoffClient payoff.Client,
	activityClient activity.Client,
	policy *accountinfo.Policy,
	encoder *imagery.Encoder,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		contact:  contactClient,
		accounts: accountsClient,
		upay:     upayClient,
		payoff:   payoffClient,
		activity: activityClient,
		policy:   policy,
		imagery:  encoder,
	}
}

// Run executes the full aggregation for one session and returns the
// overview. Run itself only errors on persistence failures; service
// failures are carried in the overview's flags.
func (p *Pipeline) Run(ctx context.Context, sess model.Session, refresh bool) (*model.Overview, error) {
	log := zap.L().With(zap.String("gcid", sess.GCID), zap.Bool("refresh", refresh))
	log.Info("pipeline: starting aggregation")

	overview := &model.Overview{}

	run, err := p.store.CreateRun(ctx, sess)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	var phases []model.PhaseResult
	trackPhase := func(name string, fn func() (*model.PhaseResult, error)) {
		phase, phaseErr := p.store.CreatePhase(ctx, run.ID, name)
		if phaseErr != nil {
			log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(phaseErr))
		}

		start := time.Now()
		phaseResult, fnErr := fn()
		duration := time.Since(start).Milliseconds()

		if phaseResult == nil {
			phaseResult = &model.PhaseResult{}
		}
		phaseResult.Name = name
		phaseResult.Duration = duration

		if fnErr != nil {
			phaseResult.Status = model.PhaseStatusFailed
			phaseResult.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		} else {
			phaseResult.Status = model.PhaseStatusComplete
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
			)
		}

		if phase != nil {
			_ = p.store.CompletePhase(ctx, phase.ID, phaseResult)
		}
		phases = append(phases, *phaseResult)
	}

	// Exactly one completion per run, regardless of which stage ends it.
	finish := func(activeCount int) (*model.Overview, error) {
		status := model.RunStatusComplete
		var runErr string
		if overview.Flags.TechnicalError() {
			status = model.RunStatusFailed
			if overview.Flags.ContactError {
				runErr = "contact resolution failed"
			} else {
				runErr = "account detail fetch failed"
			}
		}
		result := &model.RunResult{
			CustomerNumber: overview.CustomerNumber,
			ContractCount:  len(overview.Contracts),
			ActiveCount:    activeCount,
			Flags:          overview.Flags,
			Phases:         phases,
			Error:          runErr,
		}
		if saveErr := p.store.CompleteRun(ctx, run.ID, status, result); saveErr != nil {
			log.Warn("pipeline: failed to save run result", zap.Error(saveErr))
		}
		log.Info("pipeline: aggregation finished",
			zap.String("run_id", run.ID),
			zap.String("status", string(status)),
			zap.Int("contracts", len(overview.Contracts)),
		)
		return overview, nil
	}

	// ===== Stage 1: Contact resolution =====
	setStatus(model.RunStatusResolvingContact)

	var info *model.ContactInfo
	trackPhase("1_contact", func() (*model.PhaseResult, error) {
		info = p.resolveContact(ctx, sess, refresh)
		if info.Err {
			return nil, eris.New("contact resolution failed")
		}
		return &model.PhaseResult{
			Metadata: map[string]any{
				"customer_number": info.CustomerNumber,
				"products":        len(info.FinancialProducts),
			},
		}, nil
	})
	if info.Err {
		overview.Flags.ContactError = true
		return finish(0)
	}

	overview.CustomerNumber = info.CustomerNumber
	overview.FirstName = info.FirstName
	overview.FinancialProducts = info.FinancialProducts

	accountNumbers := info.AccountNumbers()
	if len(accountNumbers) == 0 {
		overview.Flags.NoAccounts = true
		return finish(0)
	}

	// ===== Stage 2: Account details =====
	setStatus(model.RunStatusFetchingAccounts)

	var details []model.ContractAccountDetail
	var accountsErr error
	trackPhase("2_accounts", func() (*model.PhaseResult, error) {
		details, accountsErr = p.fetchAccounts(ctx, info, refresh)
		if accountsErr != nil {
			return nil, accountsErr
		}
		return &model.PhaseResult{
			Metadata: map[string]any{
				"requested": len(accountNumbers),
				"returned":  len(details),
			},
		}, nil
	})
	if accountsErr != nil {
		overview.Flags.AccountError = true
		return finish(0)
	}

	p.journalLogin(ctx, sess, info, accountNumbers)

	// ===== Stage 3: Enrichment =====
	setStatus(model.RunStatusEnriching)

	active := p.filterActive(details)
	var enriched *enrichment
	trackPhase("3_enrich", func() (*model.PhaseResult, error) {
		enriched = p.enrich(ctx, active, refresh)
		return &model.PhaseResult{
			Metadata: map[string]any{
				"active":             len(active),
				"scheduled_payments": len(enriched.scheduled),
				"payoffs":            len(enriched.payoffs),
				"upcoming_failed":    enriched.upcomingFailed,
				"payoffs_failed":     enriched.payoffsFailed,
			},
		}, nil
	})

	overview.ScheduledPayments = enriched.scheduled
	overview.Payoffs = enriched.payoffs
	overview.Flags.UpcomingPaymentsFailed = enriched.upcomingFailed
	overview.Flags.PayoffsFailed = enriched.payoffsFailed

	// ===== Stage 4: Classification =====
	setStatus(model.RunStatusClassifying)

	trackPhase("4_classify", func() (*model.PhaseResult, error) {
		overview.Contracts = classifyContracts(active)
		counts := map[model.Bucket]int{}
		for _, c := range overview.Contracts {
			counts[c.ClassifyBucket()]++
		}
		return &model.PhaseResult{
			Metadata: map[string]any{
				"past_due": counts[model.BucketPastDue],
				"current":  counts[model.BucketCurrent],
				"paid":     counts[model.BucketPaid],
			},
		}, nil
	})

	if len(overview.Contracts) == 0 {
		overview.Flags.NoAccounts = true
	}

	return finish(len(active))
}
