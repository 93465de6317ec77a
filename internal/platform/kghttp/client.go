package kghttp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/greenur/plantbasics/internal/observability"
	"github.com/greenur/plantbasics/internal/pkg/httpx"
	"github.com/greenur/plantbasics/internal/platform/logger"
)

const (
	DefaultUserAgent = "GreenurBot/1.0 (https://github.com/greenur/greenur; contact@greenur.com) plantbasics/1.0"
	DefaultTimeout   = 30 * time.Second

	maxBodyBytes = 16 << 20
)

// Cache stores raw response bodies keyed by request URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
}

type Options struct {
	Service           string
	UserAgent         string
	Timeout           time.Duration
	MaxRetries        int
	RetryBase         time.Duration
	RetryMax          time.Duration
	RequestsPerSecond float64

	HTTPClient *http.Client
	Cache      Cache
	Metrics    *observability.Metrics
	Logger     *logger.Logger
}

// Client is the shared GET+JSON transport behind the knowledge graph clients.
type Client struct {
	service    string
	userAgent  string
	maxRetries int
	retryBase  time.Duration
	retryMax   time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	metrics    *observability.Metrics
	log        *logger.Logger
}

func New(opts Options) *Client {
	service := strings.TrimSpace(opts.Service)
	if service == "" {
		service = "kg"
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	base := opts.RetryBase
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	maxWait := opts.RetryMax
	if maxWait <= 0 {
		maxWait = 10 * time.Second
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		service:    service,
		userAgent:  ua,
		maxRetries: retries,
		retryBase:  base,
		retryMax:   maxWait,
		httpClient: hc,
		limiter:    limiter,
		cache:      opts.Cache,
		metrics:    opts.Metrics,
		log:        log.With("client", service),
	}
}

func (c *Client) Service() string { return c.service }

// GetJSON fetches rawURL and decodes the JSON body into out. Successful bodies
// are written to the cache, and a cached body short-circuits the request.
func (c *Client) GetJSON(ctx context.Context, op, rawURL string, out any) (err error) {
	ctx, span := observability.StartSpan(ctx, c.service+"."+op,
		attribute.String("kg.service", c.service),
		attribute.String("kg.op", op),
	)
	defer func() { observability.EndSpan(span, err) }()

	key := c.cacheKey(rawURL)
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, key); ok {
			if decErr := json.Unmarshal(body, out); decErr == nil {
				c.metrics.ObserveKGCache(c.service, true)
				span.SetAttributes(attribute.Bool("kg.cache_hit", true))
				return nil
			}
		}
		c.metrics.ObserveKGCache(c.service, false)
	}

	body, err := c.fetch(ctx, op, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.opErr(op, OperationErrorDecodeFailed, http.StatusOK, "", err)
	}
	if c.cache != nil {
		c.cache.Set(ctx, key, body)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, op, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, c.opErr(op, OperationErrorTransportFailed, 0, "", err)
			}
		}
		body, resp, err := c.do(ctx, op, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if attempt == c.maxRetries || !c.retryable(ctx, err) {
			break
		}
		wait := httpx.JitterSleep(httpx.Backoff(c.retryBase, attempt, c.retryMax))
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			wait = httpx.RetryAfterDuration(resp, wait, c.retryMax)
		}
		c.log.Warn("request failed, retrying", "op", op, "attempt", attempt+1, "wait", wait.String(), "error", err)
		if err := httpx.Sleep(ctx, wait); err != nil {
			return nil, c.opErr(op, OperationErrorTransportFailed, 0, "", err)
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, op, rawURL string) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, c.opErr(op, OperationErrorEncodeFailed, 0, "", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveKGRequest(c.service, op, 0, time.Since(start))
		return nil, nil, c.opErr(op, OperationErrorTransportFailed, 0, "", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveKGRequest(c.service, op, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, resp, c.opErr(op, OperationErrorTransportFailed, resp.StatusCode, "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp, c.opErr(op, OperationErrorHTTPStatus, resp.StatusCode, snippet(body), nil)
	}
	return body, resp, nil
}

func (c *Client) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var oe *OperationError
	if !errors.As(err, &oe) {
		return httpx.IsRetryableError(err)
	}
	switch oe.Code {
	case OperationErrorTransportFailed:
		return !errors.Is(oe.Cause, context.Canceled)
	case OperationErrorHTTPStatus:
		return httpx.IsRetryableHTTPStatus(oe.StatusCode)
	}
	return false
}

func (c *Client) cacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("kg:%s:%s", c.service, hex.EncodeToString(sum[:]))
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
