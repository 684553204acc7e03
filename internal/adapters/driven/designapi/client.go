package designapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
	"github.com/custodia-labs/blueprint/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.DesignGenerator = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 120 * time.Second
)

const (
	// maxResponseBytes caps how much of a reply is read.
	maxResponseBytes = 32 << 20

	// maxSnippetBytes caps the body kept on a NetworkError.
	maxSnippetBytes = 512

	apiKeyHeader = "X-API-Key"
)

// ClientConfig holds configuration for the design service client.
type ClientConfig struct {
	// BaseURL is the service root (default: http://localhost:8000).
	BaseURL string

	// Timeout bounds one request (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64

	// CacheSize is the number of replies kept per request body. Zero disables caching.
	CacheSize int

	// APIKey, when set, is sent in the X-API-Key header.
	APIKey string

	// HTTPClient overrides the transport. Its Timeout is replaced by Timeout.
	HTTPClient *http.Client
}

// Client calls the design generation service over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rateLimiter
	cache   *lru.Cache[string, []byte]
}

// NewClient creates a new design service client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid design service URL %q", domain.ErrInvalidInput, cfg.BaseURL)
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		httpClient = &clone
	}
	httpClient.Timeout = cfg.Timeout

	c := &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limiter: newRateLimiter(cfg.RequestsPerSecond),
	}

	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, []byte](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create response cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// GenerateDesign posts the request to /generate and decodes the reply.
func (c *Client) GenerateDesign(ctx context.Context, req domain.DesignRequest) (*domain.DesignDocument, error) {
	payload, err := ToRequestPayload(req)
	if err != nil {
		return nil, err
	}

	key := string(payload)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			logger.Debug("Design served from cache")
			return FromResponsePayload(body)
		}
	}

	body, err := c.do(ctx, http.MethodPost, "/generate", payload)
	if err != nil {
		return nil, err
	}

	doc, err := FromResponsePayload(body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(key, body)
	}
	return doc, nil
}

// Ping checks the service's /health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err
}

// do sends one request and returns the body of a 2xx reply.
// Every failure is a *domain.NetworkError.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.NetworkError{Err: err}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("create request: %w", err)}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	logger.Debug("%s %s", method, req.URL)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	c.limiter.observe(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.NetworkError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}
	if err != nil {
		return nil, &domain.NetworkError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	return body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetBytes {
		s = s[:maxSnippetBytes] + "..."
	}
	return s
}
