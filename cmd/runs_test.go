package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/contract-hub/internal/model"
)

func TestComputeRunStats(t *testing.T) {
	t.Parallel()

	now := time.Now()
	runs := []model.Run{
		{
			Status:    model.RunStatusComplete,
			CreatedAt: now,
			UpdatedAt: now.Add(2 * time.Second),
			Result:    &model.RunResult{ContractCount: 3},
		},
		{
			Status:    model.RunStatusComplete,
			CreatedAt: now,
			UpdatedAt: now.Add(4 * time.Second),
			Result:    &model.RunResult{Flags: model.Flags{PayoffsFailed: true}},
		},
		{
			Status: model.RunStatusFailed,
			Result: &model.RunResult{Flags: model.Flags{ContactError: true}},
		},
		{
			Status: model.RunStatusFailed,
			Result: &model.RunResult{Flags: model.Flags{AccountError: true}},
		},
		{
			Status: model.RunStatusComplete,
			Result: &model.RunResult{Flags: model.Flags{NoAccounts: true}},
		},
	}

	s := computeRunStats(runs)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Complete)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 1, s.ContactErrors)
	assert.Equal(t, 1, s.AccountErrors)
	assert.Equal(t, 1, s.BatchFailures)
	assert.Equal(t, 1, s.EmptyOverviews)
	assert.InDelta(t, 2.0, s.AvgDurSecs, 0.1)
}

func TestFormatRunsList(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "0123456789abcdef",
			Session:   model.Session{GCID: "gcid-1"},
			Status:    model.RunStatusComplete,
			CreatedAt: now,
			UpdatedAt: now.Add(3 * time.Second),
			Result:    &model.RunResult{ContractCount: 2, Flags: model.Flags{UpcomingPaymentsFailed: true}},
		},
	}

	var sb strings.Builder
	formatRunsList(&sb, runs)
	out := sb.String()

	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "89abcdef")
	assert.Contains(t, out, "gcid-1")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "upcoming")
	assert.Contains(t, out, "2026-08-01 12:00")
}

func TestFlagSummary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", flagSummary(model.Flags{}))
	assert.Equal(t, "contact", flagSummary(model.Flags{ContactError: true}))
	assert.Equal(t, "accounts,payoffs", flagSummary(model.Flags{AccountError: true, PayoffsFailed: true}))
	assert.Equal(t, "upcoming,empty", flagSummary(model.Flags{UpcomingPaymentsFailed: true, NoAccounts: true}))
}

func TestFormatRunStats(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	formatRunStats(&sb, runStats{Total: 10, Complete: 8, Failed: 2, AvgDurSecs: 1.5})
	out := sb.String()

	assert.Contains(t, out, "Total runs:")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "Avg duration:")
	assert.Contains(t, out, "1.5s")
}

func TestTruncateID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12345678", truncateID("123456789"))
	assert.Equal(t, "short", truncateID("short"))
}
