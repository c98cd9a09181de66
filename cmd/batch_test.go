package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestProcessBatch(t *testing.T) {
	var mu sync.Mutex
	var seen []string

	err := processBatch(context.Background(), []string{"a", "b", "c"}, 0, 2, func(_ context.Context, query string) (*model.Run, error) {
		mu.Lock()
		seen = append(seen, query)
		mu.Unlock()
		if query == "b" {
			return nil, eris.New("boom")
		}
		return &model.Run{Query: query, Status: model.RunStatusComplete}, nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 3)
}

func TestProcessBatchLimit(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	err := processBatch(context.Background(), []string{"a", "b", "c", "d"}, 2, 1, func(_ context.Context, query string) (*model.Run, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &model.Run{Query: query}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestReadQueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := "boutique hotels manchester\n\n# skip this\n  resorts lake como  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	queries, err := readQueryFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"boutique hotels manchester", "resorts lake como"}, queries)
}

func TestReadQueryFileMissing(t *testing.T) {
	_, err := readQueryFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
