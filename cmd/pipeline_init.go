package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contract-hub/internal/accountinfo"
	"github.com/sells-group/contract-hub/internal/config"
	"github.com/sells-group/contract-hub/internal/imagery"
	"github.com/sells-group/contract-hub/internal/pipeline"
	"github.com/sells-group/contract-hub/internal/session"
	"github.com/sells-group/contract-hub/internal/store"
	"github.com/sells-group/contract-hub/pkg/accounts"
	"github.com/sells-group/contract-hub/pkg/activity"
	"github.com/sells-group/contract-hub/pkg/contact"
	"github.com/sells-group/contract-hub/pkg/payoff"
	"github.com/sells-group/contract-hub/pkg/upay"
)

// pipelineEnv holds the initialized store, clients, and pipeline needed by
// the overview/export/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Sessions *session.Cache
	Policy   *accountinfo.Policy
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "contract-hub.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// serviceOpts translates one service's config block into client options.
func serviceOpts[T any](svc config.ServiceConfig, withRate func(float64, int) T, withTimeout func(time.Duration) T) []T {
	var opts []T
	if svc.RateLimit > 0 {
		burst := svc.RateBurst
		if burst <= 0 {
			burst = int(svc.RateLimit)
		}
		opts = append(opts, withRate(svc.RateLimit, burst))
	}
	if svc.TimeoutSecs > 0 {
		opts = append(opts, withTimeout(time.Duration(svc.TimeoutSecs)*time.Second))
	}
	return opts
}

// initPipeline sets up the store, the service clients, the account policy,
// and builds the Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	contactClient := contact.NewClient(cfg.Contact.BaseURL, cfg.Contact.Key,
		serviceOpts(cfg.Contact, contact.WithRateLimit, contact.WithTimeout)...)
	accountsClient := accounts.NewClient(cfg.Accounts.BaseURL, cfg.Accounts.Key,
		serviceOpts(cfg.Accounts, accounts.WithRateLimit, accounts.WithTimeout)...)
	upayClient := upay.NewClient(cfg.Payments.BaseURL, cfg.Payments.Key,
		serviceOpts(cfg.Payments, upay.WithRateLimit, upay.WithTimeout)...)
	payoffClient := payoff.NewClient(cfg.Payoff.BaseURL, cfg.Payoff.Key,
		serviceOpts(cfg.Payoff, payoff.WithRateLimit, payoff.WithTimeout)...)

	var activityClient activity.Client
	if cfg.Activity.Enabled {
		activityClient = activity.NewClient(cfg.Activity.BaseURL, cfg.Activity.Key,
			serviceOpts(cfg.Activity.ServiceConfig, activity.WithRateLimit, activity.WithTimeout)...)
	} else {
		zap.L().Debug("activity journaling disabled")
	}

	policy := accountinfo.Default()
	if cfg.Policy.Path != "" {
		policy, err = accountinfo.Load(cfg.Policy.Path)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		zap.L().Info("account policy loaded", zap.String("path", cfg.Policy.Path))
	}

	encoder := imagery.NewEncoder(cfg.Imagery.BaseURL, cfg.Imagery.Production)
	sessions := session.NewCache()

	p := pipeline.New(cfg, st, sessions, contactClient, accountsClient, upayClient, payoffClient, activityClient, policy, encoder)

	return &pipelineEnv{
		Store:    st,
		Pipeline: p,
		Sessions: sessions,
		Policy:   policy,
	}, nil
}
