package orchestrator

import (
	"fmt"
	"time"
)

// SubmissionError means every payload variant was rejected by every target.
type SubmissionError struct {
	ActorID  string
	Attempts int
	Err      error // last rejection
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("orchestrator: all %d submission attempts for %s rejected: %v", e.Attempts, e.ActorID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// RunFailure means the remote run reached a terminal state other than
// success. Status carries the platform's raw status string.
type RunFailure struct {
	RunID  string
	Status string
}

func (e *RunFailure) Error() string {
	return fmt.Sprintf("orchestrator: run %s ended %s", e.RunID, e.Status)
}

// TimeoutError means the polling budget ran out before the run finished.
// The handle is dead afterwards; further polls fail fast.
type TimeoutError struct {
	RunID  string
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("orchestrator: run %s still not terminal after %s", e.RunID, e.Budget)
}

// ResultUnavailable means a run finished without a result-set reference.
type ResultUnavailable struct {
	RunID string
}

func (e *ResultUnavailable) Error() string {
	return fmt.Sprintf("orchestrator: run %s has no dataset", e.RunID)
}
