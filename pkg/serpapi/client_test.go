package serpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "google", r.URL.Query().Get("engine"))
		assert.Equal(t, `"Acme" CTO site:linkedin.com/in`, r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("num"))
		assert.Equal(t, "sk-test", r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"organic_results":[{"position":1,"title":"Jane Doe – CTO","link":"https://linkedin.com/in/janedoe","snippet":"CTO at Acme"}]}`)
	}))
	defer srv.Close()

	c := NewClient("sk-test", WithBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), `"Acme" CTO site:linkedin.com/in`, 10)
	require.NoError(t, err)
	require.Len(t, resp.OrganicResults, 1)
	assert.Equal(t, "https://linkedin.com/in/janedoe", resp.OrganicResults[0].Link)
}

func TestSearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"Invalid API key"}`)
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "q", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
