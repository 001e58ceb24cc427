package taskwatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minimind-ai/minimind/pkg/json"
)

// Client is the HTTP implementation of Gateway against the minimind server.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

var _ Gateway = (*Client)(nil)

// NewClient creates a client for the given base URL. A nil httpClient gets a
// default with a 30 second timeout; the watcher itself imposes no timeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: httpClient,
	}
}

// TaskSnapshot implements Gateway.
func (c *Client) TaskSnapshot(ctx context.Context, taskID int64) (*TaskSnapshot, error) {
	var snap TaskSnapshot
	if err := c.get(ctx, fmt.Sprintf("/tasks/%d", taskID), &snap); err != nil {
		return nil, err
	}
	if snap.TaskID == 0 || snap.Status == "" {
		return nil, fmt.Errorf("task snapshot missing required fields: %w", ErrMalformed)
	}
	return &snap, nil
}

// UserTasks implements Gateway.
func (c *Client) UserTasks(ctx context.Context, userID int64) ([]Task, error) {
	var tasks []Task
	if err := c.get(ctx, fmt.Sprintf("/users/%d/tasks", userID), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements Gateway.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*CreateTaskResult, error) {
	var result CreateTaskResult
	if err := c.post(ctx, "/tasks", req, &result); err != nil {
		return nil, err
	}
	if result.TaskID == 0 {
		return nil, fmt.Errorf("task creation response missing task_id: %w", ErrMalformed)
	}
	return &result, nil
}

// DemoUser is one of the parameterless demo conveniences: it creates (or
// reuses) the demo user and returns its id.
func (c *Client) DemoUser(ctx context.Context) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.post(ctx, "/demo/create-user", nil, &resp); err != nil {
		return 0, err
	}
	if resp.ID == 0 {
		return 0, fmt.Errorf("demo user response missing id: %w", ErrMalformed)
	}
	return resp.ID, nil
}

// DemoTask creates the canned demo task and returns the creation ack.
func (c *Client) DemoTask(ctx context.Context) (*CreateTaskResult, error) {
	var result CreateTaskResult
	if err := c.post(ctx, "/demo/task", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DemoTaskProgress returns the raw progress document for a demo task.
func (c *Client) DemoTaskProgress(ctx context.Context, taskID int64) (map[string]any, error) {
	var progress map[string]any
	if err := c.get(ctx, fmt.Sprintf("/demo/tasks/%d", taskID), &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, ErrTransport)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %v: %w", err, ErrTransport)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s %s: server returned %d: %w", method, path, resp.StatusCode, ErrTransport)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%s %s: server returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %v: %w", method, path, err, ErrMalformed)
	}
	return nil
}
