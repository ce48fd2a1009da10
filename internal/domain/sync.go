package domain

import "time"

// SyncRunType identifies what a run-status row tracks.
type SyncRunType string

const (
	RunLocal     SyncRunType = "LOCAL"
	RunMeta      SyncRunType = "META"
	RunWeTracked SyncRunType = "WETRACKED"
	RunReconcile SyncRunType = "RECONCILE"
)

// SyncRunStatus enumerates the lifecycle states of a run.
type SyncRunStatus string

const (
	RunRunning SyncRunStatus = "RUNNING"
	RunSuccess SyncRunStatus = "SUCCESS"
	RunFailed  SyncRunStatus = "FAILED"
)

// SyncRun is the status row written at the start of a run and updated once
// when it ends.
type SyncRun struct {
	ID         string         `json:"id" db:"id"`
	Type       SyncRunType    `json:"type" db:"type"`
	Status     SyncRunStatus  `json:"status" db:"status"`
	StartedAt  time.Time      `json:"startedAt" db:"started_at"`
	FinishedAt *time.Time     `json:"finishedAt,omitempty" db:"finished_at"`
	Counts     map[string]any `json:"counts,omitempty" db:"counts_json"`
	Error      string         `json:"error,omitempty" db:"error"`
}

// IsTerminal returns true once the run has finished either way.
func (r SyncRun) IsTerminal() bool {
	return r.Status == RunSuccess || r.Status == RunFailed
}

// Succeed marks the run successful with its counts summary.
func (r *SyncRun) Succeed(at time.Time, counts map[string]any) {
	r.Status = RunSuccess
	r.FinishedAt = &at
	r.Counts = counts
	r.Error = ""
}

// Fail marks the run failed with the cause.
func (r *SyncRun) Fail(at time.Time, err error) {
	r.Status = RunFailed
	r.FinishedAt = &at
	if err != nil {
		r.Error = err.Error()
	} else {
		r.Error = "unknown error"
	}
}
