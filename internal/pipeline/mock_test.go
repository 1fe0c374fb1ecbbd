package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/contract-hub/internal/model"
	"github.com/sells-group/contract-hub/internal/store"
	"github.com/sells-group/contract-hub/pkg/accounts"
	"github.com/sells-group/contract-hub/pkg/activity"
	"github.com/sells-group/contract-hub/pkg/contact"
	"github.com/sells-group/contract-hub/pkg/payoff"
	"github.com/sells-group/contract-hub/pkg/upay"
)

// --- Contact Mock ---

type mockContactClient struct {
	mock.Mock
}

func (m *mockContactClient) GetBySession(ctx context.Context, sess model.Session, refresh bool) (*model.ContactInfo, error) {
	args := m.Called(ctx, sess, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContactInfo), args.Error(1)
}

// --- Accounts Mock ---

type mockAccountsClient struct {
	mock.Mock
}

func (m *mockAccountsClient) FindAccounts(ctx context.Context, customerNumber int64, accountNumbers []string, refresh bool) ([]model.ContractAccountDetail, error) {
	args := m.Called(ctx, customerNumber, accountNumbers, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContractAccountDetail), args.Error(1)
}

// --- Upay Mock ---

type mockUpayClient struct {
	mock.Mock
}

func (m *mockUpayClient) FindUpcoming(ctx context.Context, accountNumber string, refresh bool) (*model.ScheduledItem, error) {
	args := m.Called(ctx, accountNumber, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduledItem), args.Error(1)
}

// --- Payoff Mock ---

type mockPayoffClient struct {
	mock.Mock
}

func (m *mockPayoffClient) Calculate(ctx context.Context, fsAccountID string, refresh bool) (*model.Payoff, error) {
	args := m.Called(ctx, fsAccountID, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payoff), args.Error(1)
}

// --- Activity Mock ---

type mockActivityClient struct {
	mock.Mock
}

func (m *mockActivityClient) Log(ctx context.Context, entry activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateRun(ctx context.Context, sess model.Session) (*model.Run, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	args := m.Called(ctx, runID, status)
	return args.Error(0)
}

func (m *mockStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, result *model.RunResult) error {
	args := m.Called(ctx, runID, status, result)
	return args.Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) CreatePhase(ctx context.Context, runID string, name string) (*model.RunPhase, error) {
	args := m.Called(ctx, runID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RunPhase), args.Error(1)
}

func (m *mockStore) CompletePhase(ctx context.Context, phaseID string, result *model.PhaseResult) error {
	args := m.Called(ctx, phaseID, result)
	return args.Error(0)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Ensure interface compliance ---
var (
	_ contact.Client  = (*mockContactClient)(nil)
	_ accounts.Client = (*mockAccountsClient)(nil)
	_ upay.Client     = (*mockUpayClient)(nil)
	_ payoff.Client   = (*mockPayoffClient)(nil)
	_ activity.Client = (*mockActivityClient)(nil)
	_ store.Store     = (*mockStore)(nil)
)
