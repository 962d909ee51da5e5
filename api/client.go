package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL   = "http://localhost:5000"
	defaultUserAgent = "venue-cli"
	defaultTimeout   = 15 * time.Second
)

// Session is the token holder the client authenticates with. A 401 or 403
// from the API clears it.
type Session interface {
	CurrentToken() string
	SetToken(token string) error
	ClearToken() error
}

type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	Session   Session
	Logger    *slog.Logger

	tasks *inflight
}

func NewClient(baseURL string, session Session) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		HTTP:      &http.Client{Timeout: defaultTimeout},
		BaseURL:   baseURL,
		UserAgent: defaultUserAgent,
		Session:   session,
		Logger:    slog.New(slog.DiscardHandler),
		tasks:     newInflight(),
	}
}

// WithSession returns a client bound to another session. The HTTP client and
// in-flight registry are shared.
func (c *Client) WithSession(session Session) *Client {
	clone := *c
	clone.Session = session
	return &clone
}

// CancelAll aborts every outstanding request.
func (c *Client) CancelAll() {
	c.tasks.cancelAll(ErrCancelled)
}

func (c *Client) token() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.CurrentToken()
}

// taskKey identifies a request by operation, caller identity and parameters.
// The token is hashed so it never sits in the registry in clear.
func (c *Client) taskKey(op Operation, identity string, params ...string) string {
	if identity == "" {
		identity = "anonymous"
	} else {
		identity = uuid.NewSHA1(uuid.NameSpaceOID, []byte(identity)).String()
	}
	parts := append([]string{string(op), identity}, params...)
	return strings.Join(parts, "|")
}

type viewKey struct{}

// WithView tags ctx with the view issuing requests. Requests from different
// views never supersede each other.
func WithView(ctx context.Context, view string) context.Context {
	return context.WithValue(ctx, viewKey{}, view)
}

func viewFrom(ctx context.Context) string {
	view, _ := ctx.Value(viewKey{}).(string)
	return view
}

type call struct {
	op      Operation
	method  string
	path    string
	body    any
	useAuth bool
	key     []string
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, useAuth bool) (*http.Request, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	// path arrives escaped; JoinPath keeps Path and RawPath consistent.
	endpoint := base.JoinPath(strings.TrimPrefix(path, "/"))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if useAuth {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// do issues exactly one request and decodes a 2xx body into dest. Every
// failure comes back as a *RequestError.
func (c *Client) do(ctx context.Context, cl call, dest any) error {
	identity := ""
	if cl.useAuth {
		identity = c.token()
	}
	params := cl.key
	if view := viewFrom(ctx); view != "" {
		params = append([]string{"view=" + view}, cl.key...)
	}
	ctx, done := c.tasks.begin(ctx, c.taskKey(cl.op, identity, params...))
	defer done()

	req, err := c.newRequest(ctx, cl.method, cl.path, cl.body, cl.useAuth)
	if err != nil {
		return &RequestError{Op: cl.op, Message: cl.op.FallbackMessage(), Err: err}
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			err = fmt.Errorf("%w: %w", cause, err)
		}
		c.Logger.Debug("api request failed",
			"op", cl.op,
			"request_id", req.Header.Get("X-Request-ID"),
			"error", err,
		)
		return &RequestError{Op: cl.op, Message: cl.op.FallbackMessage(), Err: err}
	}
	defer resp.Body.Close()

	c.Logger.Debug("api request",
		"op", cl.op,
		"method", cl.method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		reqErr := &RequestError{
			Op:         cl.op,
			StatusCode: resp.StatusCode,
			Message:    messageFromBody(body),
			Err:        fmt.Errorf("request failed: %s", resp.Status),
		}
		if reqErr.Message == "" {
			reqErr.Message = cl.op.FallbackMessage()
		}
		if reqErr.Unauthorized() && cl.useAuth {
			c.dropSession(cl.op)
		}
		return reqErr
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if err == io.EOF {
			return nil
		}
		return &RequestError{
			Op:         cl.op,
			StatusCode: resp.StatusCode,
			Message:    cl.op.FallbackMessage(),
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func (c *Client) dropSession(op Operation) {
	if c.Session == nil {
		return
	}
	if err := c.Session.ClearToken(); err != nil {
		c.Logger.Warn("clear rejected session", "op", op, "error", err)
		return
	}
	c.Logger.Info("session rejected by API, token cleared", "op", op)
}
