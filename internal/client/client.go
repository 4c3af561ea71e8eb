// internal/client/client.go
//
// HTTP wrapper over the online-game endpoints, used by the polling
// synchronizer and by anything driving a match remotely. Every call takes
// a context; cancelling it abandons the request without touching server
// state.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/era91k/puissance4-go/internal/game"
)

// APIError carries the HTTP status and the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to one server about one online game code.
type Client struct {
	http    *http.Client
	baseURL string
	code    string
}

// New builds a Client for the game at code on baseURL
// (e.g. "http://localhost:8001").
func New(baseURL, code string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		code:    code,
	}
}

// Create registers a new online game under the client's code.
func (c *Client) Create(ctx context.Context, playerName string) (game.Session, error) {
	var s game.Session
	err := c.do(ctx, http.MethodPost, "/game/online", map[string]string{
		"playerName": playerName,
		"gameCode":   c.code,
	}, &s)
	return s, err
}

// Join takes the second player slot of an existing game.
func (c *Client) Join(ctx context.Context, playerName string) (game.Session, error) {
	var s game.Session
	err := c.do(ctx, http.MethodPost, "/game/online/join", map[string]string{
		"playerName": playerName,
		"gameCode":   c.code,
	}, &s)
	return s, err
}

// Snapshot fetches the authoritative session state (one poll tick).
func (c *Client) Snapshot(ctx context.Context) (game.Session, error) {
	var s game.Session
	err := c.do(ctx, http.MethodGet, "/game/online/"+url.PathEscape(c.code), nil, &s)
	return s, err
}

// Play submits a move and returns the server's diff.
func (c *Client) Play(ctx context.Context, column, playerID int) (game.MoveResult, error) {
	path := "/game/online/" + url.PathEscape(c.code) + "/play" +
		"?column=" + strconv.Itoa(column) + "&player_id=" + strconv.Itoa(playerID)
	var res game.MoveResult
	err := c.do(ctx, http.MethodPut, path, nil, &res)
	return res, err
}

// Reset blanks the game back to active.
func (c *Client) Reset(ctx context.Context) (game.Session, error) {
	var s game.Session
	err := c.do(ctx, http.MethodPut, "/game/online/"+url.PathEscape(c.code)+"/reset", nil, &s)
	return s, err
}

// do issues one JSON request/response round trip. Non-2xx responses become
// *APIError with the body's error message when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
