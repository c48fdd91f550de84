// Package client provides an HTTP client for the plots REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/evcraddock/plot-visits/internal/plot"
	"github.com/evcraddock/plot-visits/internal/visit"
)

// DefaultBaseURL is the backend used when none is configured.
const DefaultBaseURL = "http://localhost:8000"

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code   int
	Detail string // "detail" field of the error body, if any
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server error: %d %s", e.Code, http.StatusText(e.Code))
}

// Client is an HTTP client for the plots API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client. A zero timeout means requests never time out.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPlots returns all plots in the order the API sends them.
func (c *Client) ListPlots(ctx context.Context) ([]plot.Plot, error) {
	var plots []plot.Plot
	if err := c.get(ctx, "/api/plots", &plots); err != nil {
		return nil, err
	}
	if plots == nil {
		plots = []plot.Plot{}
	}
	return plots, nil
}

// Seed asks the API to populate sample plots.
func (c *Client) Seed(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/seed", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// CreateVisitRequest submits a visit booking for a plot.
func (c *Client) CreateVisitRequest(ctx context.Context, r visit.Request) error {
	return c.post(ctx, "/api/visit-requests", r, nil)
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Detail: parseDetail(respBody)}
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// parseDetail extracts a string "detail" field from an error body.
// Bodies that are not JSON objects, or whose detail is not a string,
// yield an empty detail.
func parseDetail(body []byte) string {
	var errResp struct {
		Detail interface{} `json:"detail"`
	}
	if json.Unmarshal(body, &errResp) != nil {
		return ""
	}
	if s, ok := errResp.Detail.(string); ok {
		return s
	}
	return ""
}
