// Package client implements the HTTP adapter and resource fetchers for an
// MLflow-compatible tracking server REST API.
package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/tracedump/tracedump/internal/pkg/errors"
)

const (
	// DefaultAPIPrefix is the REST prefix of the tracking API. Deployments
	// behind ingress rewrites can override it.
	DefaultAPIPrefix = "/api/2.0/mlflow"

	// DefaultTimeout bounds every request; the tool never retries.
	DefaultTimeout = 30 * time.Second
)

// Config holds the configuration for the tracking-server client.
type Config struct {
	// BaseURL is the tracking server URL without trailing slash.
	BaseURL string

	// APIPrefix is the REST prefix appended to BaseURL for API calls.
	// Defaults to DefaultAPIPrefix.
	APIPrefix string

	// Username and Password enable HTTP basic auth when both are set.
	// Credentials are static for the process lifetime.
	Username string
	Password string

	// Timeout is the per-request timeout. Defaults to DefaultTimeout.
	Timeout time.Duration

	// MaxResults is the page size for run searches. Defaults to 1000,
	// the server-side cap. Only the first page is fetched.
	MaxResults int
}

// Client issues GET requests against the tracking server. A transport
// failure surfaces as a Fetch error; non-2xx statuses are returned to the
// caller undisturbed since they are not fatal for non-critical calls.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a tracking-server client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = DefaultAPIPrefix
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the configured tracking server URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// get issues a GET against an API path and returns the status code and
// raw body. path is relative to the API prefix.
func (c *Client) get(ctx context.Context, path string, query url.Values) (int, []byte, error) {
	return c.getAbsolute(ctx, c.cfg.BaseURL+c.cfg.APIPrefix+path, query)
}

func (c *Client) getAbsolute(ctx context.Context, rawURL string, query url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, apperrors.Internal("invalid request URL").WithError(err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	if c.cfg.Username != "" && c.cfg.Password != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperrors.Fetch(req.URL.Path).WithError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, apperrors.Fetch(req.URL.Path).WithError(err)
	}

	return resp.StatusCode, body, nil
}

// Health probes the server's health endpoint. A transport failure is a
// Connectivity error and fatal to the caller; a non-200 status is only
// logged, since some deployments front the API with an ingress that does
// not expose /health.
func (c *Client) Health(ctx context.Context) error {
	status, _, err := c.getAbsolute(ctx, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return apperrors.Connectivity("tracking server unreachable").WithError(err)
	}
	if status != http.StatusOK {
		c.logger.Warn("tracking server health check returned non-200 status",
			zap.Int("status", status),
		)
		return nil
	}
	c.logger.Info("connected to tracking server", zap.String("url", c.cfg.BaseURL))
	return nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
