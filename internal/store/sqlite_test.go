package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contract-hub/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	sess := model.Session{GCID: "gcid-1", ClientID: "client-1"}
	run, err := st.CreateRun(ctx, sess)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, sess, got.Session)
	assert.Nil(t, got.Result)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.Session{GCID: "g"})
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusEnriching))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusEnriching, got.Status)

	err = st.UpdateRunStatus(ctx, "missing", model.RunStatusEnriching)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLite_CompleteRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.Session{GCID: "g"})
	require.NoError(t, err)

	result := &model.RunResult{
		CustomerNumber: 12345,
		ContractCount:  3,
		ActiveCount:    2,
		Flags:          model.Flags{PayoffsFailed: true},
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, model.RunStatusComplete, result))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, int64(12345), got.Result.CustomerNumber)
	assert.Equal(t, 3, got.Result.ContractCount)
	assert.True(t, got.Result.Flags.PayoffsFailed)
}

func TestSQLite_ListRuns_Filters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, model.Session{GCID: "gcid-a"})
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, model.Session{GCID: "gcid-b"})
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunStatus(ctx, a.ID, model.RunStatusFailed))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, a.ID, failed[0].ID)

	byGcid, err := st.ListRuns(ctx, RunFilter{GCID: "gcid-b"})
	require.NoError(t, err)
	require.Len(t, byGcid, 1)
	assert.Equal(t, "gcid-b", byGcid[0].Session.GCID)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_Phases(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.Session{GCID: "g"})
	require.NoError(t, err)

	phase, err := st.CreatePhase(ctx, run.ID, "enrich")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseStatusRunning, phase.Status)

	err = st.CompletePhase(ctx, phase.ID, &model.PhaseResult{
		Name:     "enrich",
		Status:   model.PhaseStatusComplete,
		Duration: 42,
	})
	require.NoError(t, err)

	err = st.CompletePhase(ctx, "missing", &model.PhaseResult{Status: model.PhaseStatusComplete})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phase not found")
}
