// Package apify is a client for the Apify v2 API, covering the three calls
// the job pipeline needs: starting actor runs, polling run status, and
// downloading dataset items.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.apify.com"

// Run statuses reported by the platform. TIMED-OUT appears with both
// spellings in the wild.
const (
	StatusSucceeded   = "SUCCEEDED"
	StatusFailed      = "FAILED"
	StatusAborted     = "ABORTED"
	StatusTimedOut    = "TIMED-OUT"
	StatusTimedOutAlt = "TIMED_OUT"
)

// Client defines the Apify API operations.
type Client interface {
	StartActor(ctx context.Context, actorID string, payload map[string]any) (*Run, error)
	GetRun(ctx context.Context, runID string) (*Run, error)
	DatasetItems(ctx context.Context, datasetID string, clean bool, limit int) ([]json.RawMessage, error)
}

// Run describes an actor run.
type Run struct {
	ID               string `json:"id"`
	ActID            string `json:"actId"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

// IsTerminal reports whether the run status will no longer change.
func (r *Run) IsTerminal() bool {
	switch r.Status {
	case StatusSucceeded, StatusFailed, StatusAborted, StatusTimedOut, StatusTimedOutAlt:
		return true
	}
	return false
}

// APIError is returned when Apify responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apify: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an APIError for an unknown actor or
// resource. Apify signals this with a 404 or an error body mentioning
// "not found" or "invalid act id".
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusNotFound {
		return true
	}
	body := strings.ToLower(apiErr.Body)
	return strings.Contains(body, "not found") || strings.Contains(body, "invalid act id")
}

// IsBadInput reports whether err is an APIError for a payload the actor
// rejected, any 4xx that is not a not-found.
func IsBadInput(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if IsNotFound(err) {
		return false
	}
	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLimiter sets a client-side request rate limit.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Apify client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// runEnvelope wraps every run-shaped response body.
type runEnvelope struct {
	Data Run `json:"data"`
}

func (c *httpClient) StartActor(ctx context.Context, actorID string, payload map[string]any) (*Run, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "apify: marshal actor input")
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", c.baseURL, url.PathEscape(actorID), url.QueryEscape(c.token))
	respBody, err := c.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}

	var env runEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal run")
	}
	return &env.Data, nil
}

func (c *httpClient) GetRun(ctx context.Context, runID string) (*Run, error) {
	endpoint := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", c.baseURL, url.PathEscape(runID), url.QueryEscape(c.token))
	respBody, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var env runEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal run")
	}
	return &env.Data, nil
}

func (c *httpClient) DatasetItems(ctx context.Context, datasetID string, clean bool, limit int) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("token", c.token)
	q.Set("format", "json")
	q.Set("clean", strconv.FormatBool(clean))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?%s", c.baseURL, url.PathEscape(datasetID), q.Encode())

	respBody, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal dataset items")
	}
	return items, nil
}

func (c *httpClient) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "apify: rate limit wait")
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, eris.Wrap(err, "apify: create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "apify: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apify: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
