package stackexchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits to prevent resource exhaustion across cycles
const (
	defaultMaxIdleConns        = 20
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

const defaultRequestTimeout = 10 * time.Second

// Response holds the result of one per-tag HTTP request.
//
// Errors are captured in the Error field rather than returned separately;
// this keeps the aggregation loop uniform regardless of how a request
// failed.
type Response struct {
	// Body contains the HTTP response body, limited to 1MB.
	Body []byte

	// StatusCode is the HTTP status code. Zero if the request failed
	// before receiving a response.
	StatusCode int

	// Latency is the total time taken for the request.
	Latency time.Duration

	// Error contains any transport-level error. nil indicates the request
	// completed (though the status may still indicate an API error).
	Error error
}

// ClientConfig configures a [Client]. Zero values get sensible defaults.
type ClientConfig struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Timeout is the per-request timeout. Defaults to 10s.
	Timeout time.Duration

	// MaxConcurrency limits in-flight requests per cycle.
	// Defaults to [MaxQueryTags].
	MaxConcurrency int

	// Ignorable classifies transport errors that should not be surfaced
	// as cycle failures (e.g. the host machine is briefly offline).
	// Defaults to [DefaultIgnorable].
	Ignorable func(error) bool

	// Logger receives per-request and per-item diagnostics.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// HTTPClient overrides the pooled client. Intended for tests.
	HTTPClient *http.Client

	// Now overrides the clock used for the fromdate parameter.
	// Intended for tests.
	Now func() time.Time
}

// Client issues per-tag queries against the Stack Exchange API and
// aggregates them into a single batch per cycle.
//
// Client holds no per-cycle state; [Client.RunCycle] may be aborted at any
// time by cancelling its context, and a new cycle started immediately.
type Client struct {
	httpClient     *http.Client
	userAgent      string
	timeout        time.Duration
	maxConcurrency int
	ignorable      func(error) bool
	logger         *slog.Logger
	now            func() time.Time
}

// NewClient creates a [Client] from cfg, applying defaults for zero
// fields.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			// no global timeout, per-request timeouts are applied via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = MaxQueryTags
	}
	ignorable := cfg.Ignorable
	if ignorable == nil {
		ignorable = DefaultIgnorable
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		httpClient:     httpClient,
		userAgent:      cfg.UserAgent,
		timeout:        timeout,
		maxConcurrency: maxConcurrency,
		ignorable:      ignorable,
		logger:         logger,
		now:            now,
	}
}

// fetch performs a single GET and returns a structured [Response].
//
// The timeout is applied via context cancellation. Response bodies are
// limited to 1MB.
func (c *Client) fetch(ctx context.Context, url string) Response {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// DefaultIgnorable reports whether err is a transient local condition that
// should not be surfaced as a cycle failure.
//
// It recognizes cancelled requests and no-network conditions (DNS failure,
// connection refused/unreachable), so the normal disconnect/reconnect of
// the host machine does not flood the error surface. Anything else is
// reportable.
func DefaultIgnorable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
