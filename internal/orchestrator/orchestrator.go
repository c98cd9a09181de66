// Package orchestrator submits jobs to the Apify execution service and sees
// them through to results. Actor input schemas drift between actor versions,
// so a submission walks ordered payload variants, and each variant retries
// against fallback actor ids when the primary actor id is stale.
package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/pkg/apify"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultPollTimeout  = 5 * time.Minute
)

// JobRequest describes one job to run.
type JobRequest struct {
	// Name labels the job kind in logs.
	Name string
	// ActorID is the preferred target; FallbackActorIDs are tried in order
	// when a target rejects the actor id itself.
	ActorID          string
	FallbackActorIDs []string
	// PayloadVariants are candidate input schemas in preference order. The
	// first variant some target accepts wins.
	PayloadVariants []map[string]any
	// Timeout bounds polling; PollInterval is the fixed wait between polls.
	// Zero values take the defaults.
	Timeout      time.Duration
	PollInterval time.Duration
}

// JobHandle references an accepted submission.
type JobHandle struct {
	RunID     string
	ActorID   string
	DatasetID string
	// VariantIndex records which payload variant was accepted.
	VariantIndex int

	timeout  time.Duration
	interval time.Duration
	dead     bool
}

// TerminalResult is a successful run outcome.
type TerminalResult struct {
	RunID     string
	Status    string
	DatasetID string
}

// Cache stores raw dataset items keyed by a submission digest. A miss
// returns nil data and a nil error.
type Cache interface {
	GetCachedJob(ctx context.Context, key string) ([]byte, error)
	SetCachedJob(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// Orchestrator drives the submit/poll/fetch lifecycle.
type Orchestrator struct {
	client   apify.Client
	cache    Cache
	cacheTTL time.Duration
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithCache short-circuits Execute through a result cache so repeated
// submissions of the same job skip the execution service entirely.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.cache = c
		o.cacheTTL = ttl
	}
}

// New creates an Orchestrator on top of an Apify client.
func New(client apify.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{client: client}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit walks the variant and target cascade until some target accepts a
// payload. Variants are the outer loop: a schema rejection moves to the
// next variant, an unknown-actor rejection retries the same variant against
// the next fallback target. Infrastructure errors abort immediately.
// Exhausting the cascade returns a *SubmissionError wrapping the last
// rejection.
func (o *Orchestrator) Submit(ctx context.Context, req JobRequest) (*JobHandle, error) {
	if req.ActorID == "" {
		return nil, eris.New("orchestrator: actor id required")
	}
	if len(req.PayloadVariants) == 0 {
		return nil, eris.New("orchestrator: at least one payload variant required")
	}

	targets := append([]string{req.ActorID}, req.FallbackActorIDs...)

	var lastErr error
	attempts := 0
	for vi, payload := range req.PayloadVariants {
		for _, target := range targets {
			attempts++
			run, err := o.client.StartActor(ctx, target, payload)
			if err == nil {
				zap.L().Debug("orchestrator: submission accepted",
					zap.String("job", req.Name),
					zap.String("actor", target),
					zap.Int("variant", vi),
					zap.String("run_id", run.ID),
				)
				return &JobHandle{
					RunID:        run.ID,
					ActorID:      target,
					DatasetID:    run.DefaultDatasetID,
					VariantIndex: vi,
					timeout:      orDefault(req.Timeout, defaultPollTimeout),
					interval:     orDefault(req.PollInterval, defaultPollInterval),
				}, nil
			}

			if apify.IsNotFound(err) {
				zap.L().Debug("orchestrator: target rejected, trying fallback",
					zap.String("job", req.Name),
					zap.String("actor", target),
					zap.Error(err),
				)
				lastErr = err
				continue
			}
			if apify.IsBadInput(err) {
				zap.L().Debug("orchestrator: payload variant rejected",
					zap.String("job", req.Name),
					zap.String("actor", target),
					zap.Int("variant", vi),
					zap.Error(err),
				)
				lastErr = err
				break
			}
			return nil, eris.Wrapf(err, "orchestrator: submit %s to %s", req.Name, target)
		}
	}

	return nil, &SubmissionError{ActorID: req.ActorID, Attempts: attempts, Err: lastErr}
}

// Poll waits for the run to reach a terminal status, checking at the
// handle's fixed interval. Exceeding the budget kills the handle and
// returns *TimeoutError; a non-success terminal status returns *RunFailure
// with the raw status preserved.
func (o *Orchestrator) Poll(ctx context.Context, handle *JobHandle) (*TerminalResult, error) {
	if handle.dead {
		return nil, &TimeoutError{RunID: handle.RunID, Budget: handle.timeout}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, handle.timeout)
		defer cancel()
	}

	for {
		run, err := o.client.GetRun(ctx, handle.RunID)
		if err != nil {
			// The budget can expire while a poll request is in flight;
			// that is still a poll timeout, not a client failure.
			if ctx.Err() != nil {
				handle.dead = true
				return nil, &TimeoutError{RunID: handle.RunID, Budget: handle.timeout}
			}
			return nil, eris.Wrapf(err, "orchestrator: poll run %s", handle.RunID)
		}

		if run.IsTerminal() {
			if run.Status != apify.StatusSucceeded {
				return nil, &RunFailure{RunID: handle.RunID, Status: run.Status}
			}
			if run.DefaultDatasetID != "" {
				handle.DatasetID = run.DefaultDatasetID
			}
			return &TerminalResult{
				RunID:     handle.RunID,
				Status:    run.Status,
				DatasetID: handle.DatasetID,
			}, nil
		}

		select {
		case <-ctx.Done():
			handle.dead = true
			return nil, &TimeoutError{RunID: handle.RunID, Budget: handle.timeout}
		case <-time.After(handle.interval):
		}
	}
}

// FetchResults downloads the run's dataset items. Runs without a dataset
// reference return *ResultUnavailable.
func (o *Orchestrator) FetchResults(ctx context.Context, handle *JobHandle, clean bool, limit int) ([]json.RawMessage, error) {
	if handle.DatasetID == "" {
		return nil, &ResultUnavailable{RunID: handle.RunID}
	}
	items, err := o.client.DatasetItems(ctx, handle.DatasetID, clean, limit)
	if err != nil {
		return nil, eris.Wrapf(err, "orchestrator: fetch results for run %s", handle.RunID)
	}
	return items, nil
}

// Execute is the common submit, poll, fetch sequence. With a cache
// configured, a prior result for the same submission is returned without
// starting an actor run.
func (o *Orchestrator) Execute(ctx context.Context, req JobRequest, clean bool, limit int) ([]json.RawMessage, error) {
	key := cacheKey(req)
	if o.cache != nil {
		data, err := o.cache.GetCachedJob(ctx, key)
		switch {
		case err != nil:
			zap.L().Warn("orchestrator: cache lookup failed", zap.String("job", req.Name), zap.Error(err))
		case data != nil:
			var items []json.RawMessage
			if err := json.Unmarshal(data, &items); err == nil {
				zap.L().Debug("orchestrator: cache hit", zap.String("job", req.Name))
				return items, nil
			}
		}
	}

	handle, err := o.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := o.Poll(ctx, handle); err != nil {
		return nil, err
	}
	items, err := o.FetchResults(ctx, handle, clean, limit)
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := o.cache.SetCachedJob(ctx, key, data, o.cacheTTL); err != nil {
				zap.L().Warn("orchestrator: cache store failed", zap.String("job", req.Name), zap.Error(err))
			}
		}
	}
	return items, nil
}

// cacheKey digests the job kind, preferred actor, and first payload
// variant. Map keys marshal in sorted order, so equal payloads always
// produce equal keys.
func cacheKey(req JobRequest) string {
	h := sha256.New()
	h.Write([]byte(req.ActorID))
	if len(req.PayloadVariants) > 0 {
		if b, err := json.Marshal(req.PayloadVariants[0]); err == nil {
			h.Write(b)
		}
	}
	return req.Name + ":" + hex.EncodeToString(h.Sum(nil)[:16])
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
