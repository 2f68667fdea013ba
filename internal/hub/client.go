// Package hub implements the client for the upstream model catalog API.
//
// The client issues a single attempt per call: retry policy belongs to the
// callers (typically an orchestrator polling this proxy), not here.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const maxErrorBodyBytes = 4096

// ListOptions narrows a catalog listing. A zero value requests the upstream
// default page.
type ListOptions struct {
	// Limit is forwarded verbatim as the upstream "limit" query parameter.
	Limit int
}

// Client talks to the catalog API. It holds no per-request state and is safe
// for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	tokens  TokenSource
	httpc   *http.Client
	logger  *zap.Logger
}

// NewClient builds a catalog client. Every call is bounded by timeout,
// regardless of how patient the inbound request context is.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		tokens:  tokens,
		httpc:   &http.Client{},
		logger:  logger,
	}
}

// ListRepositories fetches the catalog listing. Order is whatever the
// upstream returned.
func (c *Client) ListRepositories(ctx context.Context, opts ListOptions) ([]RepoRecord, error) {
	endpoint := c.baseURL + "/models"
	if opts.Limit > 0 {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(opts.Limit))
		endpoint += "?" + q.Encode()
	}

	var records []RepoRecord
	if err := c.get(ctx, endpoint, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetRepository fetches one repository by identifier. The id is passed through
// unvalidated; a malformed id is the upstream's to reject. A 404 maps to
// ErrNotFound.
func (c *Client) GetRepository(ctx context.Context, repoID string) (*RepoRecord, error) {
	var record RepoRecord
	if err := c.get(ctx, c.baseURL+"/models/"+repoID, &record); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	// Resolved fresh for every call. Never logged.
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return c.classify(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("upstream call",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &StatusError{
			Status: resp.StatusCode,
			Body:   body,
			URL:    endpoint,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// classify maps transport failures to the local error taxonomy. Caller
// cancellation is propagated untouched so the handler can tell it apart from
// a slow upstream.
func (c *Client) classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
