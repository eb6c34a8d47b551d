package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wricardo/slide-puzzle/game/engine"
	"github.com/wricardo/slide-puzzle/game/service"
)

// Client plays one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client is playing
func (c *Client) SessionID() string { return c.sessionID }

// UseSession points the client at an existing session
func (c *Client) UseSession(id string) { c.sessionID = id }

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a new shuffled session and plays it from now on
func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.GameState, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = info.ID
	return info.GameState, nil
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

// BulkActivate sends activations in batches the server accepts and returns
// the last result. It stops early once a batch is rejected or solves the puzzle.
func (c *Client) BulkActivate(ctx context.Context, activations []int) (*service.BulkMoveResult, error) {
	var last *service.BulkMoveResult
	for start := 0; start < len(activations); start += engine.MaxBulkActivations {
		end := start + engine.MaxBulkActivations
		if end > len(activations) {
			end = len(activations)
		}

		req := map[string]interface{}{"indices": activations[start:end]}
		var result service.BulkMoveResult
		if err := c.do(ctx, http.MethodPost, c.sessionPath("/bulk-activate"), req, &result); err != nil {
			return last, fmt.Errorf("bulk activate: %w", err)
		}
		last = &result

		if !result.Success || result.Solved {
			break
		}
	}
	return last, nil
}

type stateResponse struct {
	Message string            `json:"message"`
	State   *engine.GameState `json:"state"`
}

func (c *Client) Shuffle(ctx context.Context) (*engine.GameState, error) {
	var resp stateResponse
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/shuffle"), nil, &resp); err != nil {
		return nil, fmt.Errorf("shuffle: %w", err)
	}
	return resp.State, nil
}
