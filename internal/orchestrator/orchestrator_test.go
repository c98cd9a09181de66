package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/pkg/apify"
)

type stubClient struct {
	start   func(actorID string, payload map[string]any) (*apify.Run, error)
	getRun  func(runID string) (*apify.Run, error)
	items   func(datasetID string, clean bool, limit int) ([]json.RawMessage, error)
	polls   int
	submits []submission
}

type submission struct {
	actorID string
	payload map[string]any
}

func (s *stubClient) StartActor(_ context.Context, actorID string, payload map[string]any) (*apify.Run, error) {
	s.submits = append(s.submits, submission{actorID: actorID, payload: payload})
	return s.start(actorID, payload)
}

func (s *stubClient) GetRun(_ context.Context, runID string) (*apify.Run, error) {
	s.polls++
	return s.getRun(runID)
}

func (s *stubClient) DatasetItems(_ context.Context, datasetID string, clean bool, limit int) ([]json.RawMessage, error) {
	return s.items(datasetID, clean, limit)
}

func badInput() error {
	return &apify.APIError{StatusCode: http.StatusBadRequest, Body: "Input is not valid"}
}

func notFound() error {
	return &apify.APIError{StatusCode: http.StatusNotFound, Body: "Actor was not found"}
}

func TestSubmitVariantCascade(t *testing.T) {
	stub := &stubClient{
		start: func(actorID string, payload map[string]any) (*apify.Run, error) {
			if _, ok := payload["queries"]; ok {
				return nil, badInput()
			}
			return &apify.Run{ID: "run-1", Status: "RUNNING", DefaultDatasetID: "ds-1"}, nil
		},
	}
	o := New(stub)

	handle, err := o.Submit(context.Background(), JobRequest{
		Name:    "search",
		ActorID: "apify~google-search-scraper",
		PayloadVariants: []map[string]any{
			{"queries": "acme"},
			{"query": "acme"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, handle.VariantIndex)
	assert.Equal(t, "run-1", handle.RunID)
	assert.Equal(t, "ds-1", handle.DatasetID)
	require.Len(t, stub.submits, 2)
	assert.Contains(t, stub.submits[0].payload, "queries")
	assert.Contains(t, stub.submits[1].payload, "query")
}

func TestSubmitFallbackTargets(t *testing.T) {
	stub := &stubClient{
		start: func(actorID string, payload map[string]any) (*apify.Run, error) {
			if actorID == "vendor~actor-misspelled" {
				return nil, notFound()
			}
			return &apify.Run{ID: "run-2", Status: "RUNNING"}, nil
		},
	}
	o := New(stub)

	handle, err := o.Submit(context.Background(), JobRequest{
		Name:             "salesnav",
		ActorID:          "vendor~actor-misspelled",
		FallbackActorIDs: []string{"vendor~actor"},
		PayloadVariants:  []map[string]any{{"titles": []string{"CTO"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "vendor~actor", handle.ActorID)
	assert.Equal(t, 0, handle.VariantIndex)
	// Same payload retried against the fallback target.
	require.Len(t, stub.submits, 2)
	assert.Equal(t, stub.submits[0].payload, stub.submits[1].payload)
}

func TestSubmitExhaustion(t *testing.T) {
	stub := &stubClient{
		start: func(actorID string, payload map[string]any) (*apify.Run, error) {
			return nil, badInput()
		},
	}
	o := New(stub)

	_, err := o.Submit(context.Background(), JobRequest{
		Name:            "search",
		ActorID:         "a~b",
		PayloadVariants: []map[string]any{{"v": 1}, {"v": 2}},
	})
	require.Error(t, err)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "a~b", subErr.ActorID)
	assert.Equal(t, 2, subErr.Attempts)
	assert.True(t, apify.IsBadInput(subErr.Err))
}

func TestSubmitInfrastructureErrorAborts(t *testing.T) {
	stub := &stubClient{
		start: func(actorID string, payload map[string]any) (*apify.Run, error) {
			return nil, &apify.APIError{StatusCode: http.StatusInternalServerError, Body: "boom"}
		},
	}
	o := New(stub)

	_, err := o.Submit(context.Background(), JobRequest{
		Name:            "search",
		ActorID:         "a~b",
		PayloadVariants: []map[string]any{{"v": 1}, {"v": 2}},
	})
	require.Error(t, err)

	var subErr *SubmissionError
	assert.False(t, errors.As(err, &subErr))
	// A server error aborts the cascade instead of walking more variants.
	assert.Len(t, stub.submits, 1)
}

func TestPollTerminal(t *testing.T) {
	statuses := []string{"RUNNING", "RUNNING", apify.StatusSucceeded}
	stub := &stubClient{}
	stub.getRun = func(runID string) (*apify.Run, error) {
		st := statuses[0]
		if len(statuses) > 1 {
			statuses = statuses[1:]
		}
		return &apify.Run{ID: runID, Status: st, DefaultDatasetID: "ds-9"}, nil
	}
	o := New(stub)

	handle := &JobHandle{RunID: "run-1", timeout: time.Second, interval: time.Millisecond}
	res, err := o.Poll(context.Background(), handle)
	require.NoError(t, err)
	assert.Equal(t, apify.StatusSucceeded, res.Status)
	assert.Equal(t, "ds-9", res.DatasetID)
	assert.Equal(t, 3, stub.polls)
}

func TestPollRunFailurePreservesStatus(t *testing.T) {
	stub := &stubClient{
		getRun: func(runID string) (*apify.Run, error) {
			return &apify.Run{ID: runID, Status: apify.StatusTimedOut}, nil
		},
	}
	o := New(stub)

	handle := &JobHandle{RunID: "run-1", timeout: time.Second, interval: time.Millisecond}
	_, err := o.Poll(context.Background(), handle)

	var failure *RunFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "TIMED-OUT", failure.Status)
}

func TestPollTimeoutKillsHandle(t *testing.T) {
	stub := &stubClient{
		getRun: func(runID string) (*apify.Run, error) {
			return &apify.Run{ID: runID, Status: "RUNNING"}, nil
		},
	}
	o := New(stub)

	handle := &JobHandle{RunID: "run-1", timeout: 30 * time.Millisecond, interval: 5 * time.Millisecond}
	_, err := o.Poll(context.Background(), handle)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "run-1", timeout.RunID)

	// A dead handle fails fast without touching the API again.
	before := stub.polls
	_, err = o.Poll(context.Background(), handle)
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, before, stub.polls)
}

func TestPollDeadlineDuringRequest(t *testing.T) {
	// The budget expires while the poll request is still in flight; the
	// client error it causes must still surface as a timeout.
	stub := &stubClient{
		getRun: func(runID string) (*apify.Run, error) {
			time.Sleep(50 * time.Millisecond)
			return nil, errors.New("request canceled")
		},
	}
	o := New(stub)

	handle := &JobHandle{RunID: "run-1", timeout: 5 * time.Millisecond, interval: time.Millisecond}
	_, err := o.Poll(context.Background(), handle)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "run-1", timeout.RunID)

	// The handle is dead afterwards.
	before := stub.polls
	_, err = o.Poll(context.Background(), handle)
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, before, stub.polls)
}

func TestPollCallerCancellation(t *testing.T) {
	stub := &stubClient{
		getRun: func(runID string) (*apify.Run, error) {
			return nil, errors.New("request canceled")
		},
	}
	o := New(stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handle := &JobHandle{RunID: "run-1", timeout: time.Second, interval: time.Millisecond}
	_, err := o.Poll(ctx, handle)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
}

func TestFetchResults(t *testing.T) {
	stub := &stubClient{
		items: func(datasetID string, clean bool, limit int) ([]json.RawMessage, error) {
			assert.Equal(t, "ds-1", datasetID)
			assert.True(t, clean)
			assert.Equal(t, 5, limit)
			return []json.RawMessage{json.RawMessage(`{"a":1}`)}, nil
		},
	}
	o := New(stub)

	items, err := o.FetchResults(context.Background(), &JobHandle{RunID: "run-1", DatasetID: "ds-1"}, true, 5)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

type memCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func (m *memCache) GetCachedJob(_ context.Context, key string) ([]byte, error) {
	m.gets++
	return m.entries[key], nil
}

func (m *memCache) SetCachedJob(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.sets++
	if m.entries == nil {
		m.entries = map[string][]byte{}
	}
	m.entries[key] = data
	return nil
}

func TestExecuteCachesResults(t *testing.T) {
	stub := &stubClient{
		start: func(actorID string, payload map[string]any) (*apify.Run, error) {
			return &apify.Run{ID: "run-1", Status: apify.StatusSucceeded, DefaultDatasetID: "ds-1"}, nil
		},
		getRun: func(runID string) (*apify.Run, error) {
			return &apify.Run{ID: runID, Status: apify.StatusSucceeded, DefaultDatasetID: "ds-1"}, nil
		},
		items: func(datasetID string, clean bool, limit int) ([]json.RawMessage, error) {
			return []json.RawMessage{json.RawMessage(`{"title":"Acme"}`)}, nil
		},
	}
	cache := &memCache{}
	o := New(stub, WithCache(cache, time.Hour))

	req := JobRequest{
		Name:            "search",
		ActorID:         "a~b",
		PayloadVariants: []map[string]any{{"query": "acme"}},
		Timeout:         time.Second,
		PollInterval:    time.Millisecond,
	}

	items, err := o.Execute(context.Background(), req, true, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, cache.sets)
	require.Len(t, stub.submits, 1)

	// Second execution with the same submission is served from cache.
	items, err = o.Execute(context.Background(), req, true, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.JSONEq(t, `{"title":"Acme"}`, string(items[0]))
	assert.Len(t, stub.submits, 1)
}

func TestCacheKeyStable(t *testing.T) {
	a := cacheKey(JobRequest{Name: "search", ActorID: "a~b", PayloadVariants: []map[string]any{{"q": "x", "n": 1}}})
	b := cacheKey(JobRequest{Name: "search", ActorID: "a~b", PayloadVariants: []map[string]any{{"n": 1, "q": "x"}}})
	assert.Equal(t, a, b)

	c := cacheKey(JobRequest{Name: "search", ActorID: "a~b", PayloadVariants: []map[string]any{{"q": "y"}}})
	assert.NotEqual(t, a, c)
}

func TestFetchResultsUnavailable(t *testing.T) {
	o := New(&stubClient{})
	_, err := o.FetchResults(context.Background(), &JobHandle{RunID: "run-1"}, true, 0)

	var unavailable *ResultUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "run-1", unavailable.RunID)
}
