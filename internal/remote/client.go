// Package remote talks to the REST resource that owns the todos.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/todotable/internal/logging"
	"github.com/idilsaglam/todotable/internal/model"
)

// DefaultBaseURL is the public placeholder API the app was built against.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com/todos"

// RequestIDHeader carries a per-request id that also ends up in the logs.
const RequestIDHeader = "X-Request-Id"

// Client performs the four operations against the todos resource.
// Each call blocks until the round-trip completes; nothing is retried.
type Client interface {
	// List returns every todo, reduced to the canonical fields.
	List(ctx context.Context) ([]model.Todo, error)
	// Create submits t without an id and returns it as stored, id assigned.
	Create(ctx context.Context, t model.Todo) (model.Todo, error)
	// Update replaces everything but the id of the todo with the given id.
	Update(ctx context.Context, id int, t model.Todo) (model.Todo, error)
	// Delete removes the todo and returns its id.
	Delete(ctx context.Context, id int) (int, error)
}

type httpClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	log        *slog.Logger
}

// Option configures the HTTP client.
type Option func(*httpClient)

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(c *httpClient) {
		c.log = logging.Component(l, "remote")
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// New creates a Client for the collection at baseURL,
// e.g. "https://jsonplaceholder.typicode.com/todos".
func New(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  "todotable",
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) List(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, "list", http.MethodGet, c.baseURL, nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (c *httpClient) Create(ctx context.Context, t model.Todo) (model.Todo, error) {
	var out model.Todo
	if err := c.do(ctx, "create", http.MethodPost, c.baseURL, payloadOf(t), &out); err != nil {
		return model.Todo{}, err
	}
	return out, nil
}

func (c *httpClient) Update(ctx context.Context, id int, t model.Todo) (model.Todo, error) {
	var out model.Todo
	if err := c.do(ctx, "update", http.MethodPut, c.itemURL(id), payloadOf(t), &out); err != nil {
		return model.Todo{}, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return out, nil
}

func (c *httpClient) Delete(ctx context.Context, id int) (int, error) {
	if err := c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), nil, nil); err != nil {
		return 0, err
	}
	return id, nil
}

// payload is the request body; the remote assigns and owns ids.
type payload struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func payloadOf(t model.Todo) *payload {
	return &payload{Title: t.Title, Completed: t.Completed}
}

func (c *httpClient) itemURL(id int) string {
	return c.baseURL + "/" + strconv.Itoa(id)
}

func (c *httpClient) do(ctx context.Context, op, method, url string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "op", op, "request_id", reqID, "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("request done", "op", op, "method", method, "url", url,
		"status", resp.StatusCode, "request_id", reqID, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return &NetworkError{Op: op, StatusCode: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
