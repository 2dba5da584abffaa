// Package transport fetches suggestion fragments over HTTP.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/oakwood-commons/combox/internal/combobox"
	"github.com/oakwood-commons/combox/pkg/logger"
	"github.com/oakwood-commons/combox/pkg/settings"
)

const (
	// DefaultQueryParam is the query string parameter carrying the query.
	DefaultQueryParam = "q"
	// DefaultMaxBodyBytes caps the response body.
	DefaultMaxBodyBytes = 1 << 20

	acceptHeader = "text/html, application/json;q=0.9"
)

// ErrBodyTooLarge is returned when the response exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// Config holds configuration for an HTTP suggestion transport.
type Config struct {
	Endpoint     string
	QueryParam   string
	Timeout      time.Duration
	RateLimit    float64 // requests per second, 0 disables pacing
	Burst        int
	MaxBodyBytes int64
	UserAgent    string
	Header       http.Header
}

// HTTP is a combobox.Transport issuing GET requests.
type HTTP struct {
	endpoint   *url.URL
	queryParam string
	maxBody    int64
	userAgent  string
	header     http.Header
	limiter    *rate.Limiter
	httpClient *http.Client
}

var _ combobox.Transport = (*HTTP)(nil)

// New validates cfg and returns a transport.
func New(cfg Config) (*HTTP, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	u, err := ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must be non-negative, got %g", cfg.RateLimit)
	}

	t := &HTTP{
		endpoint:   u,
		queryParam: cfg.QueryParam,
		maxBody:    cfg.MaxBodyBytes,
		userAgent:  cfg.UserAgent,
		header:     cfg.Header.Clone(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if t.queryParam == "" {
		t.queryParam = DefaultQueryParam
	}
	if t.maxBody <= 0 {
		t.maxBody = DefaultMaxBodyBytes
	}
	if t.userAgent == "" {
		t.userAgent = settings.UserAgent()
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return t, nil
}

// ParseEndpoint checks that raw is an absolute http or https URL.
func ParseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint must include a host (e.g., https://example.com/suggest)")
	}
	return u, nil
}

// URL returns the request URL for query. Existing query parameters of the
// endpoint are kept.
func (t *HTTP) URL(query string) string {
	u := *t.endpoint
	q := u.Query()
	q.Set(t.queryParam, query)
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch implements combobox.Transport.
func (t *HTTP) Fetch(ctx context.Context, query string) (combobox.Response, error) {
	lgr := logger.FromContext(ctx).WithValues(logger.QueryKey, query)

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return combobox.Response{}, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL(query), nil)
	if err != nil {
		return combobox.Response{}, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range t.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("User-Agent", t.userAgent)

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return combobox.Response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return combobox.Response{}, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(body)) > t.maxBody {
		return combobox.Response{}, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, t.maxBody)
	}

	lgr.V(1).Info("suggestion response",
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start).String(),
	)
	return combobox.Response{
		Status:      resp.StatusCode,
		Body:        body,
		ContentType: strings.TrimSpace(resp.Header.Get("Content-Type")),
	}, nil
}
