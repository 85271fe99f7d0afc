// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package s2 is a small client for the Semantic Scholar Graph API. It
// fetches the papers citing (or cited by) a source paper in one request.
package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/citegap/internal/httputil"
	"github.com/pdiddy/citegap/pkg/types"
)

const (
	// DefaultBaseURL is the Graph API root.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the client.
	DefaultUserAgent = "citegap/0.1"
)

// LinkedPaper is one citing or referenced paper.
type LinkedPaper struct {
	PaperID       string
	Title         string
	Year          int
	CitationCount int
}

// PaperLinks is the source paper's S2 id and its linked papers.
type PaperLinks struct {
	PaperID string
	Papers  []LinkedPaper
}

// Client issues Graph API requests.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	policy     httputil.Policy
	direction  types.CitationDirection
	baseURL    string
	apiKey     string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the API root (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithAPIKey sets the key sent as x-api-key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRetryPolicy sets how HTTP 429 responses are retried.
func WithRetryPolicy(p httputil.Policy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithRateLimit caps the request rate in requests per second. Zero or
// negative leaves requests unthrottled.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithDirection selects citations (papers citing the source) or references
// (papers the source cites).
func WithDirection(d types.CitationDirection) ClientOption {
	return func(c *Client) {
		c.direction = d
	}
}

// NewClient creates a client with the given options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		direction:  types.DirectionCitations,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig builds a client from the fetch configuration. The
// 429 backoff is inter_request_delay × 2 × attempt.
func NewClientFromConfig(cfg types.FetchConfig) *Client {
	opts := []ClientOption{
		WithAPIKey(cfg.APIKey),
		WithRateLimit(cfg.RateLimit),
		WithRetryPolicy(httputil.Policy{
			MaxRetries: cfg.MaxRetries,
			Backoff:    httputil.LinearDoubling(cfg.InterRequestDelay),
		}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	if cfg.Direction != "" {
		opts = append(opts, WithDirection(cfg.Direction))
	}
	return NewClient(opts...)
}

// Fields returns the fields query parameter for a direction.
func Fields(d types.CitationDirection) string {
	list := string(types.DirectionCitations)
	if d == types.DirectionReferences {
		list = string(types.DirectionReferences)
	}
	return strings.Join([]string{
		"paperId", "title", "year", "citationCount",
		list,
		list + ".paperId",
		list + ".title",
		list + ".year",
		list + ".citationCount",
	}, ",")
}

// PaperCitations fetches the linked papers of the source identified by
// scheme and id. A 404 yields ErrNotFound; a 429 that survives all
// retries yields ErrRateLimited; any other non-200 yields *APIError.
func (c *Client) PaperCitations(ctx context.Context, scheme types.IdentifierScheme, id string) (PaperLinks, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return PaperLinks{}, err
		}
	}

	reqURL := fmt.Sprintf("%s/paper/%s:%s?fields=%s",
		c.baseURL, scheme, url.PathEscape(id), Fields(c.direction))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return PaperLinks{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.policy)
	if err != nil {
		if ctx.Err() != nil {
			return PaperLinks{}, ctx.Err()
		}
		return PaperLinks{}, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return PaperLinks{}, fmt.Errorf("%s:%s: %w", scheme, id, ErrNotFound)
	case http.StatusTooManyRequests:
		return PaperLinks{}, fmt.Errorf("%s:%s: %w", scheme, id, ErrRateLimited)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return PaperLinks{}, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			PaperID:    fmt.Sprintf("%s:%s", scheme, id),
		}
	}

	var pr paperResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return PaperLinks{}, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	linked := pr.Citations
	if c.direction == types.DirectionReferences {
		linked = pr.References
	}

	out := PaperLinks{PaperID: pr.PaperID}
	for _, p := range linked {
		out.Papers = append(out.Papers, LinkedPaper{
			PaperID:       p.PaperID,
			Title:         p.Title,
			Year:          int(p.Year),
			CitationCount: p.CitationCount,
		})
	}
	return out, nil
}

type paperResponse struct {
	PaperID    string        `json:"paperId"`
	Citations  []linkedPaper `json:"citations"`
	References []linkedPaper `json:"references"`
}

type linkedPaper struct {
	PaperID       string   `json:"paperId"`
	Title         string   `json:"title"`
	Year          flexYear `json:"year"`
	CitationCount int      `json:"citationCount"`
}

// flexYear decodes a year given as a number, a numeric string, or null.
// Anything else decodes as 0.
type flexYear int

func (y *flexYear) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*y = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*y = flexYear(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*y = flexYear(int(f))
		return nil
	}
	*y = 0
	return nil
}
