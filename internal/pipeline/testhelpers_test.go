package pipeline

import (
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/contract-hub/internal/accountinfo"
	"github.com/sells-group/contract-hub/internal/config"
	"github.com/sells-group/contract-hub/internal/imagery"
	"github.com/sells-group/contract-hub/internal/model"
	"github.com/sells-group/contract-hub/internal/session"
)

type testMocks struct {
	store    *mockStore
	contact  *mockContactClient
	accounts *mockAccountsClient
	upay     *mockUpayClient
	payoff   *mockPayoffClient
	activity *mockActivityClient
}

func newTestPipeline() (*Pipeline, *testMocks) {
	m := &testMocks{
		store:    &mockStore{},
		contact:  &mockContactClient{},
		accounts: &mockAccountsClient{},
		upay:     &mockUpayClient{},
		payoff:   &mockPayoffClient{},
		activity: &mockActivityClient{},
	}
	p := New(
		&config.Config{},
		m.store,
		session.NewCache(),
		m.contact,
		m.accounts,
		m.upay,
		m.payoff,
		m.activity,
		accountinfo.Default(),
		imagery.NewEncoder("https://img.example.com/vehicle", false),
	)
	return p, m
}

// expectRunPlumbing wires the store mock for a full set of status and
// phase writes without pinning the exact sequence.
func (m *testMocks) expectRunPlumbing(runID string) {
	m.store.On("CreateRun", mock.Anything, mock.Anything).
		Return(&model.Run{ID: runID, Status: model.RunStatusQueued}, nil)
	m.store.On("UpdateRunStatus", mock.Anything, runID, mock.Anything).Return(nil)
	m.store.On("CreatePhase", mock.Anything, runID, mock.Anything).
		Return(&model.RunPhase{ID: "phase-" + runID, RunID: runID}, nil)
	m.store.On("CompletePhase", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.store.On("CompleteRun", mock.Anything, runID, mock.Anything, mock.Anything).Return(nil)
}

func testSession() model.Session {
	return model.Session{GCID: "gcid-1", ClientID: "client-1"}
}

func testContact() *model.ContactInfo {
	return &model.ContactInfo{
		CustomerNumber: 42,
		FirstName:      "Ada",
		FinancialProducts: []model.FinancialProduct{
			{AccountNumber: "A1", FSAccountID: "FS1", PortfolioCategoryCode: "LOAN", VehicleImageData: "img-1"},
			{AccountNumber: "A2", FSAccountID: "FS2", PortfolioCategoryCode: "LEASE", VehicleImageData: "img-2"},
			{AccountNumber: "A3", FSAccountID: "FS3", PortfolioCategoryCode: "LOAN", VehicleImageData: "img-3"},
		},
	}
}

func testDetails() []model.ContractAccountDetail {
	return []model.ContractAccountDetail{
		{AccountNumber: "A1", FSAccountID: "FS1", CurrentBalance: 120.5, TotalAmountDue: 300,
			NextPaymentDueDate: datePtr(2026, 9, 1), StatusCategoryCode: "ACTIVE"},
		{AccountNumber: "A2", FSAccountID: "FS2", TotalAmountDue: 300,
			NextPaymentDueDate: datePtr(2026, 9, 15), StatusCategoryCode: "ACTIVE"},
		{AccountNumber: "A3", FSAccountID: "FS3", StatusCategoryCode: "ACTIVE"},
	}
}
