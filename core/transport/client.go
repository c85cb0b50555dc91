package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Request describes one HTTP call.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	// Body is JSON-encoded when non-nil.
	Body   any
	Header http.Header
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &NonRetriableError{StatusCode: r.StatusCode, Body: truncate(string(r.Body)), Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues HTTP requests through a retry Policy.
type Client struct {
	http     Doer
	policy   Policy
	logger   *zap.Logger
	username string
	password string
}

// Option customizes a Client.
type Option func(*Client)

// WithBasicAuth sends the credential pair as an HTTP basic-auth header.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithPolicy replaces the retry policy.
func WithPolicy(p Policy) Option {
	return func(c *Client) { c.policy = p }
}

// NewClient creates a transport client with per-request timeouts from cfg.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		http:   &http.Client{Transport: transport, Timeout: timeoutDuration},
		policy: cfg.Policy(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the client's retry policy.
func (c *Client) Policy() Policy {
	return c.policy
}

// Send performs the request, retrying retriable failures according to the policy.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	return c.SendWithPolicy(ctx, req, c.policy)
}

// SendWithPolicy is Send with an explicit policy (e.g. a higher attempt ceiling).
func (c *Client) SendWithPolicy(ctx context.Context, req Request, p Policy) (*Response, error) {
	var resp *Response
	err := p.Do(ctx, func(ctx context.Context) error {
		r, err := c.once(ctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		c.logger.Warn("Request failed, retrying",
			zap.String("method", req.Method),
			zap.String("url", req.URL),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.MaxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) once(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &NonRetriableError{Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	target := req.URL
	if len(req.Query) > 0 {
		u, err := url.Parse(req.URL)
		if err != nil {
			return nil, &NonRetriableError{Err: fmt.Errorf("invalid url %q: %w", req.URL, err)}
		}
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &NonRetriableError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" || c.password != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classify(err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, classify(err)
	}

	if httpResp.StatusCode >= 500 {
		return nil, &RetriableError{StatusCode: httpResp.StatusCode, Err: fmt.Errorf("server error: %s", truncate(string(data)))}
	}
	if httpResp.StatusCode >= 400 {
		return nil, &NonRetriableError{StatusCode: httpResp.StatusCode, Body: truncate(string(data))}
	}

	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

// classify sorts a transport-level failure into retriable or not.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return &NonRetriableError{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &RetriableError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return &RetriableError{Err: err}
	}
	return &NonRetriableError{Err: err}
}

func truncate(s string) string {
	const max = 512
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func millis(n int) time.Duration  { return time.Duration(n) * time.Millisecond }
func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
