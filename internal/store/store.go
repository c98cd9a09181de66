// Package store persists pipeline runs and caches raw actor results so
// repeated lookups for the same query do not spend paid actor credits.
package store

import (
	"context"
	"time"

	"github.com/sells-group/prospect-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Query  string          `json:"query,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the lead pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, query string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Job result cache. Keys are caller-computed digests of the actor ID
	// plus its payload; a miss returns nil data and a nil error.
	GetCachedJob(ctx context.Context, key string) ([]byte, error)
	SetCachedJob(ctx context.Context, key string, data []byte, ttl time.Duration) error
	DeleteExpiredJobs(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
