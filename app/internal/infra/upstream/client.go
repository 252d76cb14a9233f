// Package upstream talks to the third-party e-commerce REST API. It is the
// only place that knows its paths, headers and JSON shapes.
package upstream

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"example.com/storefront/app/internal/domain/outcome"
)

const (
	DefaultBaseURL = "https://ecommerce.routemisr.com/api/v1"

	// credentialHeader is where the upstream expects the bearer credential.
	credentialHeader = "token"

	// maxResponseBodySize bounds what is read from the upstream.
	maxResponseBodySize = 10 * 1024 * 1024
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *Metrics
	log        *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout caps every upstream call. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Accounts() *AccountAPI { return &AccountAPI{c: c} }
func (c *Client) Cart() *CartAPI { return &CartAPI{c: c} }
func (c *Client) Wishlist() *WishlistAPI { return &WishlistAPI{c: c} }
func (c *Client) Orders() *OrderAPI { return &OrderAPI{c: c} }
func (c *Client) Catalog() *CatalogAPI { return &CatalogAPI{c: c} }
func (c *Client) Relay(prefix string) *Relay { return &Relay{c: c, prefix: prefix} }

// envelope is the status part every upstream answer may carry.
type envelope struct {
	Status    string `json:"status"`
	StatusMsg string `json:"statusMsg"`
	Message   string `json:"message"`
	Errors    *struct {
		Msg string `json:"msg"`
	} `json:"errors"`
}

func (e envelope) failed() bool {
	for _, s := range []string{e.Status, e.StatusMsg} {
		switch strings.ToLower(s) {
		case "fail", "error":
			return true
		}
	}
	return false
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Errors != nil {
		return e.Errors.Msg
	}
	return ""
}

type call struct {
	op         string
	method     string
	path       string
	credential string
	query      url.Values
	body       any
}

// do runs one upstream call and decodes the body into out when out is
// non-nil. Failures come back as *outcome.Error so callers can classify
// them with errors.Is.
func (c *Client) do(ctx context.Context, in call, out any) (envelope, error) {
	start := time.Now()
	env, err := c.roundTrip(ctx, in, out)
	c.metrics.observe(in.op, err, time.Since(start))
	if err != nil {
		c.log.Debug("upstream call failed", slog.String("op", in.op), slog.Any("err", err))
	}
	return env, err
}

func (c *Client) roundTrip(ctx context.Context, in call, out any) (envelope, error) {
	var env envelope

	u := c.baseURL + in.path
	if len(in.query) > 0 {
		u += "?" + in.query.Encode()
	}

	var body io.Reader
	if in.body != nil {
		payload, err := json.Marshal(in.body)
		if err != nil {
			return env, fmt.Errorf("encode %s request: %w", in.op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, u, body)
	if err != nil {
		return env, fmt.Errorf("build %s request: %w", in.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if in.credential != "" {
		req.Header.Set(credentialHeader, in.credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, outcome.Transport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return env, outcome.Transport(err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		if ok && len(trimmed) == 0 && out == nil {
			return env, nil
		}
		if ok {
			return env, outcome.Transport(fmt.Errorf("%s: unparseable upstream body", in.op))
		}
		msg := string(trimmed)
		if msg == "" {
			msg = "Upstream error"
		}
		return env, outcome.Rejected(resp.StatusCode, msg)
	}

	if len(trimmed) > 0 && trimmed[0] == '{' {
		_ = json.Unmarshal(trimmed, &env)
	}
	if !ok || env.failed() {
		msg := env.message()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return env, outcome.Rejected(resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return env, outcome.Transport(fmt.Errorf("decode %s response: %w", in.op, err))
		}
	}
	return env, nil
}

// isNotFound reports an upstream 404.
func isNotFound(err error) bool {
	var oe *outcome.Error
	return errors.As(err, &oe) && oe.Status == http.StatusNotFound
}
