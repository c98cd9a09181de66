package model

import "time"

// RunStatus tracks a stored pipeline run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a persisted record of one lead-pipeline execution.
type Run struct {
	ID        string     `json:"id"`
	Query     string     `json:"query"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult is what a completed run produced.
type RunResult struct {
	Leads      []LeadRecord `json:"leads"`
	ExportFile string       `json:"export_file,omitempty"`
	Error      string       `json:"error,omitempty"`
}
