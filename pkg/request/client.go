package request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"wikigate/pkg/tracker"
	"wikigate/pkg/version"
)

// Client performs outbound GETs against the upstream wiki APIs.
// No retries, no backoff, no caching: a single upstream failure surfaces
// directly to the caller. Timeouts are whatever the transport defaults to.
type Client struct {
	httpClient *http.Client
	userAgent  string
	tracker    *tracker.Tracker
}

// New creates a new Client. userAgent may be empty to use the default
// identifying header; t may be nil to skip upstream usage tracking.
func New(userAgent string, t *tracker.Tracker) *Client {
	if userAgent == "" {
		userAgent = fmt.Sprintf("wikigate/%s (https://github.com/wikigate/wikigate)", version.Version)
	}
	return &Client{
		httpClient: &http.Client{},
		userAgent:  userAgent,
		tracker:    t,
	}
}

// Get performs a GET request with the identifying User-Agent header.
func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	return c.GetWithHeaders(ctx, u, nil)
}

// GetWithHeaders performs a GET request with custom headers.
// Any non-2xx status fails with a generic api error carrying the status code.
func (c *Client) GetWithHeaders(ctx context.Context, u string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	provider := normalizeProvider(req.URL.Hostname())

	uaMatch := false
	for k, v := range headers {
		req.Header.Set(k, v)
		if http.CanonicalHeaderKey(k) == "User-Agent" {
			uaMatch = true
		}
	}
	if !uaMatch {
		req.Header.Set("User-Agent", c.userAgent)
	}

	slog.Debug("Network Request", "host", req.URL.Host, "path", req.URL.Path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.trackFailure(provider)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.trackFailure(provider)
		return nil, fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.trackFailure(provider)
		return nil, fmt.Errorf("read error: %w", err)
	}

	c.trackSuccess(provider)
	return body, nil
}

// normalizeProvider groups all subdomains of the upstream wikis into one
// provider key each, so counters survive language-edition fan-out.
func normalizeProvider(host string) string {
	if strings.HasSuffix(host, ".wikidata.org") || host == "wikidata.org" {
		return "wikidata"
	}
	if strings.HasSuffix(host, ".wikipedia.org") || host == "wikipedia.org" {
		return "wikipedia"
	}
	return host
}

func (c *Client) trackSuccess(provider string) {
	if c.tracker != nil {
		c.tracker.TrackAPISuccess(provider)
	}
}

func (c *Client) trackFailure(provider string) {
	if c.tracker != nil {
		c.tracker.TrackAPIFailure(provider)
	}
}
