// Package bankapi is the HTTP client for the banking backend. Each visitor gets
// its own Client bound to its own cookie jar; all clients share one transport.
package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/target/banksim-ui/internal/observability/metrics"
	"github.com/target/banksim-ui/internal/observability/statsd"
	"github.com/target/banksim-ui/internal/ports"
)

// DefaultMaxBodyBytes caps how much of a backend response is read into memory.
const DefaultMaxBodyBytes = 16 << 20

// ErrBodyTooLarge reports a backend response longer than the client's cap.
// The partial body is discarded rather than returned as a success.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// ResponseError is a non-2xx answer from the backend. Body holds the raw
// response so callers can pull a message out of it.
type ResponseError struct {
	Operation  string
	StatusCode int
	Body       []byte
	Header     http.Header
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("bankapi %s: backend returned %d", e.Operation, e.StatusCode)
}

// HTTPStatus returns the backend status code.
func (e *ResponseError) HTTPStatus() int { return e.StatusCode }

// ResponseBody returns the raw backend response.
func (e *ResponseError) ResponseBody() []byte { return e.Body }

var _ ports.BackendError = (*ResponseError)(nil)

// AsResponseError unwraps err to a *ResponseError.
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	ok := errors.As(err, &re)
	return re, ok
}

// NewTransport returns the transport shared by every visitor client.
func NewTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConnsPerHost = 32
	return t
}

// NewJar returns an empty cookie jar suitable for one visitor.
func NewJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// visitorJar lets a Client drop every cookie at once by swapping the
// underlying jar, which net/http's jar cannot do in place.
type visitorJar struct {
	mu  sync.RWMutex
	jar http.CookieJar
}

func (j *visitorJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *visitorJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

func (j *visitorJar) reset(fresh http.CookieJar) {
	j.mu.Lock()
	j.jar = fresh
	j.mu.Unlock()
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Transport http.RoundTripper
	// Jar holds the visitor's backend session cookie. A fresh jar is created when nil.
	Jar     http.CookieJar
	Metrics statsd.Sink
	Logger  *slog.Logger
	// MaxBodyBytes defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Client issues credentialed requests against a fixed base URL. It never
// retries and sets no timeout of its own.
type Client struct {
	base    *url.URL
	hc      *http.Client
	jar     *visitorJar
	metrics statsd.Sink
	logger  *slog.Logger
	maxBody int64
}

// New builds a Client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("bankapi: base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("bankapi: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("bankapi: unsupported base url scheme %q", base.Scheme)
	}

	jar := opts.Jar
	if jar == nil {
		if jar, err = NewJar(); err != nil {
			return nil, fmt.Errorf("bankapi: cookie jar: %w", err)
		}
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	vj := &visitorJar{jar: jar}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	return &Client{
		base:    base,
		hc:      &http.Client{Transport: transport, Jar: vj},
		jar:     vj,
		metrics: sink,
		logger:  logger.With("component", "bankapi"),
		maxBody: maxBody,
	}, nil
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

// Cookies returns the backend cookies currently held for this visitor.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.base)
}

// RestoreCookies seeds the jar with previously persisted cookies.
func (c *Client) RestoreCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	restored := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		if ck == nil || ck.Name == "" {
			continue
		}
		restored = append(restored, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	c.jar.SetCookies(c.base, restored)
}

// ClearCookies forgets every backend cookie this client holds.
func (c *Client) ClearCookies() {
	fresh, err := NewJar()
	if err != nil {
		c.logger.Error("failed to create cookie jar", "error", err)
		return
	}
	c.jar.reset(fresh)
}

// request describes one backend call.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	accept string
}

// response is a successful backend answer.
type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, r request) (*response, error) {
	start := time.Now()
	resp, err := c.roundTrip(ctx, r)

	status := 0
	if resp != nil {
		status = resp.status
	}
	if re, ok := AsResponseError(err); ok {
		status = re.StatusCode
	}
	metrics.EmitBackendCall(c.metrics, metrics.BackendCall{
		Operation: r.op,
		Status:    status,
		Duration:  time.Since(start),
		Err:       err,
	})
	c.logger.DebugContext(ctx, "backend call",
		"operation", r.op,
		"method", r.method,
		"path", r.path,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)
	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, r request) (*response, error) {
	u := c.base.JoinPath(r.path)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("bankapi %s: encode body: %w", r.op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("bankapi %s: build request: %w", r.op, err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	accept := r.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)

	// Transport failures reach the caller as the *url.Error from net/http.
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("bankapi %s: read body: %w", r.op, err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("bankapi %s: %w (%d bytes)", r.op, ErrBodyTooLarge, c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ResponseError{
			Operation:  r.op,
			StatusCode: resp.StatusCode,
			Body:       data,
			Header:     resp.Header.Clone(),
		}
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// call performs r and decodes a JSON body into T.
func call[T any](ctx context.Context, c *Client, r request) (T, error) {
	var out T
	resp, err := c.do(ctx, r)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return out, fmt.Errorf("bankapi %s: decode response: %w", r.op, err)
	}
	return out, nil
}
