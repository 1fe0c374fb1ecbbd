package accountinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contract-hub/internal/model"
)

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	p := Default()
	assert.True(t, p.IsActiveAccount("ACTIVE"))
	assert.True(t, p.IsActiveAccount("active"))
	assert.True(t, p.IsActiveAccount("DELINQUENT"))
	assert.False(t, p.IsActiveAccount("CLOSED"))
	assert.False(t, p.IsActiveAccount(""))
}

func TestPolicyCategory(t *testing.T) {
	t.Parallel()

	p := Default()
	assert.Equal(t, "FINANCING", p.Category("LOAN"))
	assert.Equal(t, "FINANCING", p.Category("loan"))
	assert.Equal(t, "LEASE", p.Category("LEASE"))
	assert.Equal(t, "", p.Category(""))
}

func TestLoadPolicy(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := `
active_status_codes:
  - OPEN
category_labels:
  LOAN: CREDIT
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.True(t, p.IsActiveAccount("OPEN"))
	assert.False(t, p.IsActiveAccount("ACTIVE"))
	assert.Equal(t, "CREDIT", p.Category("LOAN"))
}

func TestLoadPolicy_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("active_status_codes: [[["), 0o644))
	_, err = Load(bad)
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("active_status_codes: []"), 0o644))
	_, err = Load(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active status codes")
}

func TestPresentationHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPastDue(0.01))
	assert.False(t, IsPastDue(0))
	assert.False(t, IsPastDue(-10))

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	amount := 250.0

	withPayment := model.ContractAccountDetail{LastPaymentAmount: &amount, LastPaymentDate: &due}
	assert.True(t, HasLastPayment(withPayment))
	assert.False(t, HasLastPayment(model.ContractAccountDetail{LastPaymentAmount: &amount}))

	assert.True(t, ShowDueDate(model.ContractAccountDetail{TotalAmountDue: 100, NextPaymentDueDate: &due}))
	assert.False(t, ShowDueDate(model.ContractAccountDetail{TotalAmountDue: 100}))
	assert.False(t, ShowDueDate(model.ContractAccountDetail{NextPaymentDueDate: &due})) // paid off
}
