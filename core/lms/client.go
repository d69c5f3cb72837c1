package lms

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	headerAPIKey    = "x-api-key"
	headerNamespace = "x-wise-namespace"

	// maxErrorBody caps how much of a failed response is kept in StatusError.
	maxErrorBody = 512
)

// Record is one loosely structured JSON object returned by the LMS.
type Record map[string]any

// Client talks to the remote LMS. Requests are sequential, rate limited and never
// retried; each round trip is bounded by Config.Timeout.
type Client struct {
	cfg     Config
	http    *http.Client
	headers http.Header
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient builds a client. Authentication headers are computed once here.
// A client built from an unconfigured Config is valid; every call returns ErrNotConfigured.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout()},
		headers: authHeaders(cfg),
		logger:  logger.Named("lms"),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// authHeaders returns the static header set, or nil when credentials are missing.
func authHeaders(cfg Config) http.Header {
	if !cfg.Configured() {
		return nil
	}
	basic := base64.StdEncoding.EncodeToString([]byte(cfg.UserID + ":" + cfg.APIKey))

	h := http.Header{}
	h.Set("Authorization", "Basic "+basic)
	h.Set(headerAPIKey, cfg.APIKey)
	h.Set(headerNamespace, cfg.Namespace)
	h.Set("User-Agent", "VendorIntegrations/"+cfg.Namespace)
	h.Set("Content-Type", "application/json")
	return h
}

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool {
	return c.headers != nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// institutePath expands a path template holding one %s for the institute id.
func (c *Client) institutePath(tmpl string) string {
	return fmt.Sprintf(tmpl, url.PathEscape(c.cfg.InstituteID))
}

// do executes one request and decodes the JSON object body.
// Non-200 responses are returned as *StatusError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (map[string]any, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	fullURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = c.headers.Clone()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		text := string(raw)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: text}
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return decoded, nil
}
