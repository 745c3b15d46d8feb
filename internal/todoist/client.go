// Package todoist is a thin client for the remote task API. It moves JSON
// bytes over HTTP and leaves interpretation of items to the task package.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brandonszeto/todo/internal/core/logging"
	"github.com/brandonszeto/todo/internal/core/task"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	quickAddPath    = "/sync/v9/quick/add"
	projectDataPath = "/sync/v9/projects/get_data"
	itemGetPath     = "/sync/v9/items/get"
	syncPath        = "/sync/v9/sync"
	restTasksPath   = "/rest/v2/tasks/"
)

// ErrUnauthorized matches API errors caused by a missing or rejected token.
var ErrUnauthorized = errors.New("unauthorized: check the API token")

// APIError is returned for any non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, body)
}

// Is reports 401 and 403 responses as ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client talks to the sync and REST endpoints of the remote API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	newID   func() string
}

// New returns a Client that authenticates every request with a static
// bearer token.
func New(ctx context.Context, opts Options) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = opts.Timeout

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		log:     opts.Logger,
		newID:   func() string { return uuid.NewString() },
	}
}

// QuickAdd creates a task in the inbox from natural language text. Dates in
// the text are parsed by the server.
func (c *Client) QuickAdd(ctx context.Context, text string) (task.Task, error) {
	body := map[string]any{"text": text, "auto_reminder": true}

	data, err := c.post(ctx, quickAddPath, body, nil)
	if err != nil {
		return task.Task{}, fmt.Errorf("quick add: %w", err)
	}

	return task.DecodeTask(data)
}

// ProjectItems returns every item in a project, including completed ones.
func (c *Client) ProjectItems(ctx context.Context, projectID string) ([]task.Task, error) {
	body := map[string]any{"project_id": projectID}

	data, err := c.post(ctx, projectDataPath, body, nil)
	if err != nil {
		return nil, fmt.Errorf("project items %s: %w", projectID, err)
	}

	return task.DecodeTasks(data)
}

// Item returns a single item by id.
func (c *Client) Item(ctx context.Context, itemID string) (task.Task, error) {
	data, err := c.post(ctx, itemGetPath, map[string]any{"item_id": itemID}, nil)
	if err != nil {
		return task.Task{}, fmt.Errorf("get item %s: %w", itemID, err)
	}

	var body struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return task.Task{}, fmt.Errorf("could not parse response for item: %w", err)
	}
	if len(body.Item) == 0 {
		return task.Task{}, fmt.Errorf("get item %s: response has no item", itemID)
	}
	return task.DecodeTask(body.Item)
}

// MoveItem moves an item to another project.
func (c *Client) MoveItem(ctx context.Context, itemID, projectID string) error {
	cmd := command{
		Type: "item_move",
		UUID: c.newID(),
		Args: map[string]any{"id": itemID, "project_id": projectID},
	}

	if err := c.sync(ctx, cmd); err != nil {
		return fmt.Errorf("move item %s: %w", itemID, err)
	}
	return nil
}

// CloseItem completes an item.
func (c *Client) CloseItem(ctx context.Context, itemID string) error {
	cmd := command{
		Type:   "item_close",
		UUID:   c.newID(),
		TempID: c.newID(),
		Args:   map[string]any{"id": itemID},
	}

	if err := c.sync(ctx, cmd); err != nil {
		return fmt.Errorf("close item %s: %w", itemID, err)
	}
	return nil
}

// UpdatePriority sets the stored priority (1 normal .. 4 urgent) of an item.
func (c *Client) UpdatePriority(ctx context.Context, itemID string, priority int) error {
	headers := map[string]string{"X-Request-Id": c.newID()}
	body := map[string]any{"priority": priority}

	if _, err := c.post(ctx, restTasksPath+itemID, body, headers); err != nil {
		return fmt.Errorf("update priority %s: %w", itemID, err)
	}
	return nil
}

type command struct {
	Type   string         `json:"type"`
	UUID   string         `json:"uuid"`
	TempID string         `json:"temp_id,omitempty"`
	Args   map[string]any `json:"args"`
}

func (c *Client) sync(ctx context.Context, cmds ...command) error {
	_, err := c.post(ctx, syncPath, map[string]any{"commands": cmds}, nil)
	return err
}

func (c *Client) post(ctx context.Context, path string, body any, headers map[string]string) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if id := req.Header.Get("X-Request-Id"); id != "" {
		ctx = logging.WithRequestID(ctx, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Ctx(ctx).Err(err).Msg("close response body")
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Ctx(ctx).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}
