// Package taskclient reads tasks from the task service on behalf of a caller,
// presenting the caller's own bearer token.
package taskclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"task_deadlines/internal/domain"
	"task_deadlines/internal/logger"
)

var (
	// ErrNotFound means the task service answered 404.
	ErrNotFound = errors.New("task not found")
	// ErrUnauthorized means the task service rejected the forwarded token.
	ErrUnauthorized = errors.New("task service rejected credentials")
)

// StatusError is any other non-200 answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("task service: unexpected status %d: %s", e.Code, e.Body)
}

const maxBodyBytes = 1 << 20

// Client is a task service API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with a hard per-request timeout. Redirects are
// not followed so the forwarded token only ever goes to baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// wireTask is decoded strictly: userId must be a JSON integer and present.
type wireTask struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"userId"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GetTask fetches one task by id using token as the credential.
func (c *Client) GetTask(ctx context.Context, token string, id int64) (*domain.Task, error) {
	url := fmt.Sprintf("%s/tasks/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if rid := logger.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("task service request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var wt wireTask
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&wt); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	if wt.UserID == nil {
		return nil, errors.New("decode task: userId missing")
	}

	return &domain.Task{
		ID:          wt.ID,
		UserID:      *wt.UserID,
		Description: wt.Description,
		Done:        wt.Done,
		CreatedAt:   wt.CreatedAt,
		UpdatedAt:   wt.UpdatedAt,
	}, nil
}
