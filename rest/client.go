// Package rest is a minimal HTTP transport for the chat API. It implements
// every client interface of the iterators package and nothing else: requests
// are single attempts, and rate limits or retries are left to the
// *http.Client the caller supplies.
package rest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/snowflake"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultBaseURL   = "https://discord.com/api/v10"
	DefaultUserAgent = "chat-paging-go (https://github.com/nrfta/chat-paging-go, 1.0)"
)

// Client performs authenticated API requests.
type Client struct {
	token     string
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for a proxy or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger logs every request at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client authenticating with a bot token.
//
// Example:
//
//	client := rest.New(os.Getenv("CHAT_TOKEN"), rest.WithLogger(logger))
//	history, err := iterators.NewHistory(client, state, iterators.HistoryOptions{ChannelID: id})
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:     token,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		http:      http.DefaultClient,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("chat api: %d %s (code %d)", e.Status, e.Message, e.Code)
}

// get issues a GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "request",
		"method", http.MethodGet,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		// the body is informative only; a non-JSON body still yields an Error
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// pageQuery renders the position of a page request.
func pageQuery(p paging.FetchParams) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.Limit))
	setID(q, "before", p.Before)
	setID(q, "after", p.After)
	setID(q, "around", p.Around)
	return q
}

func setID(q url.Values, key string, id *snowflake.ID) {
	if id != nil {
		q.Set(key, id.String())
	}
}
