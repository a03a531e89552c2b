// Package api is the HTTP client for the brief generation service.
package api

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
)

// ErrDebugNotFound marks a 404 from the debug endpoint: the run exists but
// produced no debug data (novelty filtering was disabled). Callers surface
// it differently from transport failures.
var ErrDebugNotFound = errors.New("no debug data found for this brief")

// SubmissionError is a rejected or failed create call; no job exists yet.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit brief: %v", e.Err)
	}
	return "submit brief: " + e.Message
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// PollError is one failed status check. The poll loop logs it and keeps
// going.
type PollError struct {
	RequestID string
	Message   string
	Err       error
}

func (e *PollError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("poll status for %s: %v", e.RequestID, e.Err)
	}
	return fmt.Sprintf("poll status for %s: %s", e.RequestID, e.Message)
}

func (e *PollError) Unwrap() error { return e.Err }

// Client talks to the brief generation backend. The optional token is passed
// as a query parameter on every call, matching the service contract.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient overrides the underlying transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) endpoint(path string) string {
	u := c.baseURL + path
	if c.token != "" {
		q := url.Values{}
		q.Set("token", c.token)
		u += "?" + q.Encode()
	}
	return u
}

// serverDetail extracts the backend's {"detail": "..."} error message, falling
// back to a generic "HTTP error <code>" line.
func serverDetail(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fmt.Sprintf("HTTP error %d", resp.StatusCode)
}

// Create submits a generation request and returns the accepted job.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Accepted, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/briefs/create"), bytes.NewReader(body))
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SubmissionError{Message: serverDetail(resp)}
	}
	var accepted Accepted
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return nil, &SubmissionError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if accepted.RequestID == "" {
		return nil, &SubmissionError{Message: "no request_id received from server"}
	}
	return &accepted, nil
}

// Status fetches one snapshot of a generation run.
func (c *Client) Status(ctx context.Context, requestID string) (*StatusSnapshot, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/briefs/status/"+url.PathEscape(requestID)), nil)
	if err != nil {
		return nil, &PollError{RequestID: requestID, Err: err}
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &PollError{RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &PollError{RequestID: requestID, Message: serverDetail(resp)}
	}
	var snap StatusSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, &PollError{RequestID: requestID, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &snap, nil
}

// Debug fetches the novelty-filter trace of a run. A 404 maps to
// ErrDebugNotFound.
func (c *Client) Debug(ctx context.Context, requestID string) (*DebugData, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/briefs/debug/"+url.PathEscape(requestID)), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch debug data: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrDebugNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch debug data: %s", serverDetail(resp))
	}
	var data DebugData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode debug data: %w", err)
	}
	return &data, nil
}

// DatabaseStatus fetches the administrative storage counters.
func (c *Client) DatabaseStatus(ctx context.Context) (*DatabaseStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/briefs/database-status"), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch database status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch database status: %s", serverDetail(resp))
	}
	var status DatabaseStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode database status: %w", err)
	}
	return &status, nil
}
