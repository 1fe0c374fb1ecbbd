package model

import "time"

// RunStatus represents the current state of an aggregation run.
type RunStatus string

const (
	RunStatusQueued           RunStatus = "queued"
	RunStatusResolvingContact RunStatus = "resolving_contact"
	RunStatusFetchingAccounts RunStatus = "fetching_accounts"
	RunStatusEnriching        RunStatus = "enriching"
	RunStatusClassifying      RunStatus = "classifying"
	RunStatusComplete         RunStatus = "complete"
	RunStatusFailed           RunStatus = "failed"
)

// PhaseStatus represents the state of one pipeline stage within a run.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
)

// Run records a single aggregation run for a session.
type Run struct {
	ID        string     `json:"id"`
	Session   Session    `json:"session"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	CustomerNumber int64         `json:"customer_number"`
	ContractCount  int           `json:"contract_count"`
	ActiveCount    int           `json:"active_count"`
	Flags          Flags         `json:"flags"`
	Phases         []PhaseResult `json:"phases"`
	Error          string        `json:"error,omitempty"`
}

// RunPhase represents one pipeline stage within a run.
type RunPhase struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    PhaseStatus  `json:"status"`
	Result    *PhaseResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// PhaseResult holds the outcome of one pipeline stage.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
