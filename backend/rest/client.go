package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"qatrack/backend"
	"qatrack/internal/utils"
)

// DefaultTimeout applies when the config leaves timeout_seconds at 0
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept for debugging
const maxErrorBody = 4096

func init() {
	backend.RegisterType("http", func(config backend.GatewayConfig) (backend.Gateway, error) {
		return NewClient(config)
	})
}

// Client is a backend.Gateway talking to a QA server over JSON/HTTP:
//
//	POST   /cases       create, returns the stored case with its ID
//	PUT    /cases/{id}  update
//	DELETE /cases/{id}  delete
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// caseRequest is the wire form of a test case; sync bookkeeping stays local
type caseRequest struct {
	ID          string    `json:"id,omitempty"`
	TestID      string    `json:"test_id"`
	SuiteID     string    `json:"suite_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	Created     time.Time `json:"created,omitempty"`
	Modified    time.Time `json:"modified,omitempty"`
}

// errorResponse is the body servers send with non-2xx statuses
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewClient creates a client for config.URL
func NewClient(config backend.GatewayConfig) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("http gateway: url is required")
	}
	if _, err := url.ParseRequestURI(config.URL); err != nil {
		return nil, fmt.Errorf("http gateway: invalid url %q: %w", config.URL, err)
	}

	timeout := DefaultTimeout
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(config.URL, "/"),
		token:   config.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func toRequest(c backend.TestCase) caseRequest {
	return caseRequest{
		ID:          c.ID,
		TestID:      c.TestID,
		SuiteID:     c.SuiteID,
		Title:       c.Title,
		Description: c.Description,
		Status:      string(c.Status),
		Note:        c.Note,
		Created:     c.Created,
		Modified:    c.Modified,
	}
}

func (r caseRequest) toCase() backend.TestCase {
	return backend.TestCase{
		ID:          r.ID,
		TestID:      r.TestID,
		SuiteID:     r.SuiteID,
		Title:       r.Title,
		Description: r.Description,
		Status:      backend.Status(r.Status),
		Note:        r.Note,
		SyncState:   backend.Synced,
		Created:     r.Created,
		Modified:    r.Modified,
	}
}

// doRequest performs an HTTP request with authentication
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	utils.Debugf("http gateway: %s %s", method, endpoint)
	return c.httpClient.Do(req)
}

// statusError turns a non-2xx response into a RemoteError
func statusError(op, caseID string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := http.StatusText(resp.StatusCode)
	var parsed errorResponse
	if json.Unmarshal(raw, &parsed) == nil {
		if parsed.Message != "" {
			message = parsed.Message
		} else if parsed.Error != "" {
			message = parsed.Error
		}
	}

	return backend.NewRemoteError(op, resp.StatusCode, message).
		WithCaseID(caseID).
		WithBody(string(raw))
}

func transportError(op, caseID string, err error) error {
	return backend.NewRemoteError(op, 0, err.Error()).WithCaseID(caseID).WithError(err)
}

func (c *Client) send(ctx context.Context, op, method, endpoint string, tc backend.TestCase) (backend.TestCase, error) {
	resp, err := c.doRequest(ctx, method, endpoint, toRequest(tc))
	if err != nil {
		return backend.TestCase{}, transportError(op, tc.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backend.TestCase{}, statusError(op, tc.ID, resp)
	}

	var stored caseRequest
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		if err == io.EOF {
			// no body: the server accepted the case as sent
			return tc, nil
		}
		return backend.TestCase{}, transportError(op, tc.ID, fmt.Errorf("failed to decode response: %w", err))
	}
	return stored.toCase(), nil
}

// CreateCase posts a new case. The local ID is not sent.
func (c *Client) CreateCase(ctx context.Context, tc backend.TestCase) (backend.TestCase, error) {
	local := tc
	local.ID = ""
	stored, err := c.send(ctx, "CreateCase", http.MethodPost, "/cases", local)
	if err != nil {
		return backend.TestCase{}, err
	}
	if stored.ID == "" {
		return backend.TestCase{}, backend.NewRemoteError("CreateCase", 0, "server returned no id").WithCaseID(tc.ID)
	}
	return stored, nil
}

// UpdateCase replaces a stored case
func (c *Client) UpdateCase(ctx context.Context, tc backend.TestCase) (backend.TestCase, error) {
	return c.send(ctx, "UpdateCase", http.MethodPut, "/cases/"+url.PathEscape(tc.ID), tc)
}

// DeleteCase removes a stored case
func (c *Client) DeleteCase(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/cases/"+url.PathEscape(id), nil)
	if err != nil {
		return transportError("DeleteCase", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError("DeleteCase", id, resp)
	}
	return nil
}
