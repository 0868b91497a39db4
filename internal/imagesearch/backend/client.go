// Package backend talks to the image search backend over http.
package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/image-search-client/library/log"
)

const (
	searchPath = "/api/imagesearch"
	recentPath = "/api/recent"

	defaultRequestTimeout = 10 * time.Second
	// logBodyLimit caps the number of response bytes logged for debugging.
	logBodyLimit = 4096
)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used to reach the backend.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger overrides the logger used when no contextual logger is present.
func WithLogger(logger logSDK.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds every single request, 0 leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// Client issues the two read-only requests the search UI depends on.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  logSDK.Logger
}

// NewClient returns a client for the backend rooted at baseURL,
// like `http://localhost:3000`.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid backend url %q", baseURL)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Errorf("backend url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: defaultRequestTimeout,
		logger:  log.Logger.Named("backend"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// BaseURL returns the backend root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchImages fetches one page of images for term.
// term is sent percent-encoded, page is sent as is.
func (c *Client) SearchImages(ctx context.Context, term string, page int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("page", strconv.Itoa(page))

	resp := new(SearchResponse)
	if err := c.getJSON(ctx, searchPath, params, resp); err != nil {
		return nil, errors.Wrapf(err, "search images for %q page %d", term, page)
	}
	if resp.Images == nil {
		resp.Images = []Image{}
	}

	return resp, nil
}

// RecentSearches fetches the searches recorded by the backend, newest first
// as far as the backend orders them.
func (c *Client) RecentSearches(ctx context.Context) (*RecentResponse, error) {
	resp := new(RecentResponse)
	if err := c.getJSON(ctx, recentPath, nil, resp); err != nil {
		return nil, errors.Wrap(err, "load recent searches")
	}
	if resp.RecentSearches == nil {
		resp.RecentSearches = []RecentSearch{}
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + path
	if len(params) != 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return newError(KindTransport, 0, errors.Wrap(err, "create request"))
	}
	req.Header.Set("Accept", "application/json")

	logger := c.logger
	if ctxLogger := gmw.GetLogger(ctx); ctxLogger != nil {
		logger = ctxLogger.Named("backend")
	}

	logger.Debug("outgoing http request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	startAt := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return newError(KindTransport, 0, errors.Wrap(err, "send request"))
	}
	defer resp.Body.Close() // nolint: errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newError(KindTransport, resp.StatusCode, errors.Wrap(err, "read response body"))
	}

	truncatedBody, truncated := truncateForLog(body, logBodyLimit)
	logger.Debug("incoming http response",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.String("body", truncatedBody),
		zap.Bool("body_truncated", truncated),
		zap.Duration("cost", time.Since(startAt)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(KindStatus, resp.StatusCode,
			errors.Errorf("%s: %s", resp.Status, truncatedBody))
	}

	if err = json.Unmarshal(body, out); err != nil {
		return newError(KindDecode, resp.StatusCode, errors.Wrap(err, "unmarshal response"))
	}

	return nil
}

// truncateForLog limits the payload logged for debugging and reports whether truncation occurred.
func truncateForLog(body []byte, limit int) (string, bool) {
	if len(body) <= limit {
		return string(body), false
	}
	return string(body[:limit]), true
}
