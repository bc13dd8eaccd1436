// Package api implements the typed client for the to-do REST backend.
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
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tuido/internal/model"
)

// Client wraps the backend REST API. All methods are safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// New builds a client for the given base URL (scheme://host[:port], no
// trailing slash).
func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// APIError is a non-2xx response, carrying the backend's error envelope.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Detail)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

// NewListRef is the creation receipt from POST /api/lists. Interactive
// callers ignore it and refetch; the CLI prints the id.
type NewListRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PingResult is the body of GET /api/dummy, used for connectivity checks.
type PingResult struct {
	ID   string    `json:"id"`
	When Timestamp `json:"when"`
}

// Timestamp decodes the backend's datetimes, which come without a UTC
// offset (naive datetimes on the wire, e.g. "2026-08-29T10:00:00.123456").
// Offset-carrying values are accepted too.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", s)
}

// Lists fetches all list summaries.
func (c *Client) Lists(ctx context.Context) ([]model.ListSummary, error) {
	var out []model.ListSummary
	if err := c.do(ctx, http.MethodGet, "/api/lists", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateList creates an empty list with the given name.
func (c *Client) CreateList(ctx context.Context, name string) (NewListRef, error) {
	body := map[string]string{"name": name}
	var out NewListRef
	if err := c.do(ctx, http.MethodPost, "/api/lists", body, &out); err != nil {
		return NewListRef{}, err
	}
	return out, nil
}

// DeleteList removes a whole list.
func (c *Client) DeleteList(ctx context.Context, listID string) error {
	// response body is a bare bool; nothing useful in it
	return c.do(ctx, http.MethodDelete, "/api/lists/"+url.PathEscape(listID), nil, nil)
}

// List fetches one list with its items.
func (c *Client) List(ctx context.Context, listID string) (model.ToDoList, error) {
	var out model.ToDoList
	if err := c.do(ctx, http.MethodGet, "/api/lists/"+url.PathEscape(listID), nil, &out); err != nil {
		return model.ToDoList{}, err
	}
	out.Normalize()
	return out, nil
}

// CreateItem appends an unchecked item and returns the updated list.
func (c *Client) CreateItem(ctx context.Context, listID, label string) (model.ToDoList, error) {
	body := map[string]string{"label": label}
	var out model.ToDoList
	path := "/api/lists/" + url.PathEscape(listID) + "/items"
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return model.ToDoList{}, err
	}
	out.Normalize()
	return out, nil
}

// DeleteItem removes one item and returns the updated list.
func (c *Client) DeleteItem(ctx context.Context, listID, itemID string) (model.ToDoList, error) {
	var out model.ToDoList
	path := "/api/lists/" + url.PathEscape(listID) + "/items/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return model.ToDoList{}, err
	}
	out.Normalize()
	return out, nil
}

// SetChecked updates an item's checked state and returns the updated list.
func (c *Client) SetChecked(ctx context.Context, listID, itemID string, checked bool) (model.ToDoList, error) {
	body := map[string]any{"item_id": itemID, "checked_state": checked}
	var out model.ToDoList
	path := "/api/lists/" + url.PathEscape(listID) + "/items/checked_state"
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return model.ToDoList{}, err
	}
	out.Normalize()
	return out, nil
}

// Ping checks that the backend is reachable.
func (c *Client) Ping(ctx context.Context) (PingResult, error) {
	var out PingResult
	if err := c.do(ctx, http.MethodGet, "/api/dummy", nil, &out); err != nil {
		return PingResult{}, err
	}
	return out, nil
}

// errorEnvelope matches the backend's {"detail": ...} error body. Detail
// may be a string or structured, so it is kept loose here.
type errorEnvelope struct {
	Detail any `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ae := &APIError{Status: resp.StatusCode, Detail: string(data)}
		var env errorEnvelope
		if json.Unmarshal(data, &env) == nil && env.Detail != nil {
			ae.Detail = fmt.Sprintf("%v", env.Detail)
		}
		c.logger.Warn("request failed", "method", method, "path", path, "status", resp.StatusCode)
		return ae
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
