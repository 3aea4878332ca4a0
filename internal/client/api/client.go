package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/common"
	"github.com/dmitrijs2005/afteryou/internal/logging"
)

const maxBodySize = 8 << 20

// TokenStore persists the session tokens. Tokens returns empty strings when
// nothing is stored.
type TokenStore interface {
	Tokens(ctx context.Context) (models.Tokens, error)
	SaveTokens(ctx context.Context, t models.Tokens) error
	ClearTokens(ctx context.Context) error
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	log     logging.Logger

	refreshGroup singleflight.Group

	mu          sync.Mutex
	onLoggedOut func()

	requestID func() string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for the backend at baseURL, e.g. http://localhost:8000.
func New(baseURL string, tokens TokenStore, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
		tokens:    tokens,
		log:       logging.Nop(),
		requestID: uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// OnLoggedOut registers fn to run after a failed refresh has cleared the
// session.
func (c *Client) OnLoggedOut(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLoggedOut = fn
}

type call struct {
	method string
	path   string
	body   any
	public bool
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, call{method: http.MethodPut, path: path, body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: path}, nil)
}

func (c *Client) publicGet(ctx context.Context, path string, out any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path, public: true}, out)
}

func (c *Client) publicPost(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, body: body, public: true}, out)
}

// do sends r and decodes a 2xx body into out. Authenticated calls go through
// at most one refresh and one retry.
func (c *Client) do(ctx context.Context, r call, out any) error {
	if r.public {
		status, body, err := c.send(ctx, r, "")
		if err != nil {
			return err
		}
		return decode(status, body, out)
	}

	tokens, err := c.tokens.Tokens(ctx)
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}

	status, body, err := c.send(ctx, r, tokens.Access)
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized {
		return decode(status, body, out)
	}

	access, err := c.refresh(ctx, tokens.Access)
	if err != nil {
		return err
	}

	status, body, err = c.send(ctx, r, access)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", r.method, r.path, NewError(status, body))
	}
	return decode(status, body, out)
}

func (c *Client) send(ctx context.Context, r call, access string) (int, []byte, error) {
	var rdr io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, rdr)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	reqID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !r.public && access != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+access)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		c.log.Warn(ctx, "request failed", "method", r.method, "path", r.path, "request_id", reqID, "error", err)
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)
	return resp.StatusCode, body, nil
}

func decode(status int, body []byte, out any) error {
	if status < 200 || status > 299 {
		return NewError(status, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

