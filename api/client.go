// Package api is the HTTP client for the articles and crypto feeds.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/go-live-dashboard/config"
	"github.com/aluiziolira/go-live-dashboard/models"
	"github.com/aluiziolira/go-live-dashboard/parser"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

// Client sends requests to one API base URL. It is safe for concurrent use.
type Client struct {
	baseURL      *url.URL
	http         *http.Client
	logger       *slog.Logger
	limiter      *rate.Limiter
	userAgent    string
	cacheSize    int
	cacheTTL     time.Duration
	demoFallback bool
	Metrics      *Metrics

	optErr error
}

// Option customises a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport, mostly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// WithLogger sets the logger used for request and response logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics shares a metrics bundle between clients.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.Metrics = m
	}
}

// WithBaseURL overrides cfg.BaseURL. NewClient fails if raw does not parse.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		parsed, err := url.Parse(raw)
		if err != nil {
			c.optErr = errors.Join(c.optErr, fmt.Errorf("parse base url override: %w", err))
			return
		}
		c.baseURL = parsed
	}
}

// NewClient builds a client from cfg.
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &Client{
		baseURL: parsed,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   cfg.Timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger:       slog.Default(),
		userAgent:    cfg.UserAgent,
		cacheSize:    cfg.CacheSize,
		cacheTTL:     cfg.CacheTTL,
		demoFallback: cfg.DemoFallback,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.optErr != nil {
		return nil, c.optErr
	}
	if c.Metrics == nil {
		c.Metrics = NewMetrics()
	}
	if c.baseURL.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}
	return c, nil
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	body, err := c.send(ctx, call{
		method:   http.MethodGet,
		endpoint: "health",
		path:     []string{"health"},
	})
	if err != nil {
		return nil, err
	}

	var status models.HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, c.malformed("health", err)
	}
	if status.Status == "" {
		if wrapped, err := parser.DecodeData[models.HealthStatus](body); err == nil {
			status = *wrapped
		}
	}
	return &status, nil
}

// wait blocks on the rate limiter. A wait that cannot finish before the
// context deadline is reported as a timeout.
func (c *Client) wait(ctx context.Context, cl call) error {
	if c.limiter == nil {
		return nil
	}
	err := c.limiter.Wait(ctx)
	if err == nil {
		return nil
	}

	classified := classifyError(fmt.Errorf("rate limit wait: %w", err), 0)
	if Label(classified) == "other" && !errors.Is(err, context.Canceled) {
		classified = ErrTimeout{Err: classified}
	}
	c.logger.Error("api request not sent",
		slog.String("method", cl.method),
		slog.String("path", "/"+strings.Join(cl.path, "/")),
		slog.String("category", Label(classified)),
		slog.Any("error", err),
	)
	c.Metrics.IncError(Label(classified))
	c.Metrics.IncRequest(cl.endpoint, "error")
	return classified
}

type call struct {
	method   string
	endpoint string
	path     []string
	query    url.Values
}

func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.wait(ctx, cl); err != nil {
		return nil, err
	}

	escaped := make([]string, 0, len(cl.path))
	for _, segment := range cl.path {
		escaped = append(escaped, url.PathEscape(segment))
	}
	target := c.baseURL.JoinPath(escaped...)
	if len(cl.query) > 0 {
		target.RawQuery = cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	path := "/" + strings.Join(cl.path, "/")
	c.logger.Debug("api request",
		slog.String("method", cl.method),
		slog.String("path", path),
		slog.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	c.Metrics.ObserveDuration(elapsed)
	if err != nil {
		classified := classifyError(err, 0)
		c.logger.Error("api request failed",
			slog.String("method", cl.method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.String("category", Label(classified)),
			slog.Any("error", err),
		)
		c.Metrics.IncError(Label(classified))
		c.Metrics.IncRequest(cl.endpoint, "error")
		return nil, classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		classified := classifyError(err, 0)
		c.Metrics.IncError(Label(classified))
		c.Metrics.IncRequest(cl.endpoint, "error")
		return nil, fmt.Errorf("read response: %w", classified)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		statusErr := &StatusError{
			Method:     cl.method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    parser.DecodeMessage(body),
		}
		classified := classifyError(statusErr, resp.StatusCode)
		c.logger.Error("api error response",
			slog.String("method", cl.method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Int("status", resp.StatusCode),
			slog.String("message", statusErr.Message),
			slog.Duration("duration", elapsed),
		)
		c.Metrics.IncError(Label(classified))
		c.Metrics.IncRequest(cl.endpoint, "error")
		return nil, classified
	}

	c.logger.Debug("api response",
		slog.String("method", cl.method),
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
	)
	c.Metrics.IncRequest(cl.endpoint, "ok")
	return body, nil
}

func (c *Client) malformed(endpoint string, err error) error {
	wrapped := ErrMalformed{Err: err}
	c.logger.Error("malformed api response",
		slog.String("endpoint", endpoint),
		slog.Any("error", err),
	)
	c.Metrics.IncError(Label(wrapped))
	return wrapped
}

func getPage[T any](ctx context.Context, c *Client, endpoint string, q url.Values, validate func(T) error, path ...string) (*models.PageResult[T], error) {
	body, err := c.send(ctx, call{method: http.MethodGet, endpoint: endpoint, path: path, query: q})
	if err != nil {
		return nil, err
	}
	page, err := parser.DecodePage(body, validate)
	if err != nil {
		return nil, c.malformed(endpoint, err)
	}
	return page, nil
}

func getList[T any](ctx context.Context, c *Client, endpoint string, limit int, validate func(T) error, path ...string) ([]T, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{}
		q.Set("limit", fmt.Sprint(limit))
	}
	body, err := c.send(ctx, call{method: http.MethodGet, endpoint: endpoint, path: path, query: q})
	if err != nil {
		return nil, err
	}
	items, err := parser.DecodeList(body, validate)
	if err != nil {
		return nil, c.malformed(endpoint, err)
	}
	return items, nil
}

func getData[T any](ctx context.Context, c *Client, endpoint string, validate func(T) error, path ...string) (*T, error) {
	body, err := c.send(ctx, call{method: http.MethodGet, endpoint: endpoint, path: path})
	if err != nil {
		return nil, err
	}
	item, err := parser.DecodeData[T](body)
	if err != nil {
		return nil, c.malformed(endpoint, err)
	}
	if validate != nil {
		if err := validate(*item); err != nil {
			return nil, c.malformed(endpoint, err)
		}
	}
	return item, nil
}

func (c *Client) triggerScrape(ctx context.Context, endpoint string, path ...string) (*models.ScrapeResult, error) {
	body, err := c.send(ctx, call{method: http.MethodPost, endpoint: endpoint, path: path})
	if err != nil {
		return nil, err
	}
	result := &models.ScrapeResult{Success: true}
	if len(strings.TrimSpace(string(body))) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, c.malformed(endpoint, err)
	}
	return result, nil
}

func (c *Client) remove(ctx context.Context, endpoint string, path ...string) error {
	_, err := c.send(ctx, call{method: http.MethodDelete, endpoint: endpoint, path: path})
	return err
}
