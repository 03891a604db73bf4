// Package client talks to a remote adhyaya server and keeps a local,
// non-authoritative copy of the learner's items.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

// Options configure a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int // applied to reads only
	HTTPClient *http.Client
}

// Client is a tracker.Backend backed by the REST API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base URL required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		maxRetries: max(opts.MaxRetries, 0),
		httpClient: hc,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListRevisions(ctx context.Context, learnerID string, filter tracker.Filter) ([]tracker.ItemView, error) {
	q := url.Values{"learner": {learnerID}}
	if filter != "" {
		q.Set("status", string(filter))
	}
	var resp struct {
		Revisions []tracker.ItemView `json:"revisions"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/revisions?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Revisions, nil
}

func (c *Client) GetRevision(ctx context.Context, id string) (tracker.ItemView, error) {
	var v tracker.ItemView
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/revisions/"+url.PathEscape(id), nil, &v)
	return v, err
}

func (c *Client) Stats(ctx context.Context, learnerID string) (dashboard.Summary, error) {
	var s dashboard.Summary
	q := url.Values{"learner": {learnerID}}
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/revisions/stats?"+q.Encode(), nil, &s)
	return s, err
}

func (c *Client) CreateRevision(ctx context.Context, learnerID, unitRef string) (tracker.ItemView, error) {
	body := map[string]string{"learnerId": learnerID, "unitRef": unitRef}
	var v tracker.ItemView
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/revisions", body, &v)
	return v, err
}

func (c *Client) AdvanceRevision(ctx context.Context, id string) (tracker.AdvanceResult, error) {
	var res tracker.AdvanceResult
	err := c.doJSON(ctx, http.MethodPatch, "/api/v1/revisions/"+url.PathEscape(id), nil, &res)
	return res, err
}

func (c *Client) SubmitQuizResult(ctx context.Context, id string, summary quiz.Summary) (tracker.QuizOutcome, error) {
	var out tracker.QuizOutcome
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/revisions/"+url.PathEscape(id)+"/quiz-results", summary, &out)
	return out, err
}

// Ping checks the server's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	retries := 0
	if method == http.MethodGet {
		retries = c.maxRetries
	}

	var lastErr error
	backoff := 200 * time.Millisecond
	for attempt := 0; attempt <= retries; attempt++ {
		lastErr = c.once(ctx, method, path, buf.Bytes(), out)
		if lastErr == nil || !retryable(lastErr) || attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrActionFailed, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrActionFailed, err)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrActionFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseHTTPError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var _ tracker.Backend = (*Client)(nil)
