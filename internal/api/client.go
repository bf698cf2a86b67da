// Package api is the HTTP client for the Pi's dashboard API.
//
// Every method issues exactly one request and returns its own error; no
// method retries, and none depends on another having succeeded. Without a
// configured timeout a request that never completes never returns, which is
// what the dashboard expects: the affected card simply keeps its old value.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rileyhilliard/pimanager/internal/logger"
)

// Endpoint paths.
const (
	PathLog       = "/api/log"
	PathStatus    = "/api/status"
	PathStats     = "/api/stats"
	PathSpeedTest = "/api/speedtest"
	PathSpeedLog  = "/api/speedlog"
	PathFastfetch = "/api/fastfetch"
	PathStui      = "/api/stui"
	PathSystem    = "/api/system"
	PathBundle    = "/api/reports/zip"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError is returned when the Pi answers with a non-2xx status.
// Body holds whatever the server sent, which for the command endpoints is
// usually the command's own error output.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if body := strings.TrimSpace(e.Body); body != "" && len(body) <= 200 {
		msg += ": " + body
	}
	return msg
}

// Client talks to one Pi.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchLog returns the update/report log.
func (c *Client) FetchLog(ctx context.Context) (string, error) {
	return c.Text(ctx, PathLog)
}

// FetchStatus returns the ad-blocker status summary.
func (c *Client) FetchStatus(ctx context.Context) (string, error) {
	return c.Text(ctx, PathStatus)
}

// FetchSpeedTest runs a speed test on the Pi and returns its text result.
func (c *Client) FetchSpeedTest(ctx context.Context) (string, error) {
	return c.Text(ctx, PathSpeedTest)
}

// FetchStats returns the live query, blocked and device statistics.
func (c *Client) FetchStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.getJSON(ctx, PathStats, &s)
	return s, err
}

// FetchSpeedHistory returns the recorded speed test history.
func (c *Client) FetchSpeedHistory(ctx context.Context) ([]SpeedSample, error) {
	var samples []SpeedSample
	err := c.getJSON(ctx, PathSpeedLog, &samples)
	return samples, err
}

// FetchSystem returns the Pi's platform summary.
func (c *Client) FetchSystem(ctx context.Context) (SystemInfo, error) {
	var info SystemInfo
	err := c.getJSON(ctx, PathSystem, &info)
	return info, err
}

// Trigger starts a remote action. The returned body is informational only:
// a 2xx answer means the Pi accepted the request, not that the action worked.
func (c *Client) Trigger(ctx context.Context, action Action) (string, error) {
	return c.Text(ctx, action.Path())
}

// Bundle asks the Pi to zip the outputs of the given reports and returns
// the archive bytes.
func (c *Client) Bundle(ctx context.Context, reports []string) ([]byte, error) {
	payload, err := json.Marshal(struct {
		Reports []string `json:"reports"`
	}{Reports: reports})
	if err != nil {
		return nil, fmt.Errorf("encode bundle request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, PathBundle, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Text GETs path and returns the body as a string. On a non-2xx answer the
// body is still returned alongside a *StatusError.
func (c *Client) Text(ctx context.Context, path string) (string, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil, "")
	return string(body), err
}

// RenderText turns the result of a text fetch into what an output pane
// shows. A non-2xx answer with a body shows the body, as the command
// endpoints report their own failures that way; any other failure shows
// "Error: <message>".
func RenderText(body string, err error) string {
	if err == nil {
		return body
	}
	var se *StatusError
	if errors.As(err, &se) && strings.TrimSpace(body) != "" {
		return body
	}
	return "Error: " + err.Error()
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("%s %s failed after %v: %v", method, path, time.Since(start), err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	c.log.Debug("%s %s -> %d (%d bytes, %v)", method, path, resp.StatusCode, len(data), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return data, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	return data, nil
}
