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

	"go.uber.org/zap"
)

// Error is the failure variant of every call: a non-2xx status, a falsy
// success flag, or a transport or decoding failure (Status 0 for transport).
// Message holds only text the server sent.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	case e.Err != nil:
		return "api: " + e.Err.Error()
	default:
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ServerMessage returns the server-provided text carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	metrics *Metrics
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
	// key names the payload field; empty decodes the whole envelope
	key string
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, cl, out)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		c.log.Debug("api call failed",
			zap.String("endpoint", cl.endpoint),
			zap.String("method", cl.method),
			zap.Error(err),
		)
	}
	c.metrics.observe(cl.endpoint, outcome, time.Since(start))
	return err
}

func (c *Client) roundTrip(ctx context.Context, cl call, out any) error {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return &Error{Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return &Error{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return &Error{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	return decode(resp.StatusCode, raw, cl.key, out)
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decode applies the success/payload contract to one response body.
func decode(status int, raw []byte, key string, out any) error {
	var env envelope
	jsonErr := json.Unmarshal(raw, &env)

	if status < 200 || status > 299 {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return &Error{Status: status, Message: msg}
	}
	if jsonErr != nil {
		return &Error{Status: status, Err: fmt.Errorf("decode response: %w", jsonErr)}
	}
	if !env.Success {
		return &Error{Status: status, Message: env.Error, Err: errors.New("success flag not set")}
	}
	if out == nil {
		return nil
	}
	if key == "" {
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{Status: status, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &Error{Status: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	payload, ok := fields[key]
	if !ok {
		return &Error{Status: status, Err: fmt.Errorf("response has no %q field", key)}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Status: status, Err: fmt.Errorf("decode %s: %w", key, err)}
	}
	return nil
}

func get(endpoint, path string, query url.Values, key string) call {
	return call{endpoint: endpoint, method: http.MethodGet, path: path, query: query, key: key}
}

func send(endpoint, method, path string, body any) call {
	return call{endpoint: endpoint, method: method, path: path, body: body}
}

func q(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			v.Set(kv[i], kv[i+1])
		}
	}
	return v
}

func seg(s string) string {
	return url.PathEscape(s)
}
