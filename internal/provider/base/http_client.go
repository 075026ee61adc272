package base

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a whole gateway exchange when the caller sets none.
const DefaultTimeout = 30 * time.Second

// HTTPClient provides common HTTP functionality for providers
type HTTPClient struct {
	client    *http.Client
	baseURL   string
	name      string // provider name for logging
	userAgent string
	debug     io.Writer
}

// NewHTTPClient creates a new HTTP client with default settings
func NewHTTPClient(providerName string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		name:      providerName,
		userAgent: fmt.Sprintf("PayGate/%s", providerName),
	}
}

// SetBaseURL sets the base URL for all requests
func (c *HTTPClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SetUserAgent overrides the User-Agent sent with every request.
func (c *HTTPClient) SetUserAgent(ua string) {
	c.userAgent = ua
}

// SetDebugOutput mirrors raw wire traffic to w. nil disables it.
func (c *HTTPClient) SetDebugOutput(w io.Writer) {
	c.debug = w
}

// SetTransport replaces the underlying client, keeping its own timeout if
// it has one.
func (c *HTTPClient) SetTransport(hc *http.Client) {
	if hc == nil {
		return
	}
	if hc.Timeout == 0 {
		cp := *hc
		cp.Timeout = c.client.Timeout
		hc = &cp
	}
	c.client = hc
}

// PostForm makes a POST request with a form-encoded payload
func (c *HTTPClient) PostForm(ctx context.Context, endpoint string, form url.Values, headers map[string]string) (*HTTPResponse, error) {
	target := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	log.Debug().
		Str("provider", c.name).
		Str("method", http.MethodPost).
		Str("url", target).
		Msg("making HTTP request")

	if c.debug != nil {
		if dump, err := httputil.DumpRequestOut(req, true); err == nil {
			_, _ = c.debug.Write(dump)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().
			Str("provider", c.name).
			Str("url", target).
			Err(err).
			Msg("HTTP request failed")
		return nil, err
	}

	return c.handleResponse(resp)
}

// handleResponse processes the HTTP response
func (c *HTTPClient) handleResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()

	if c.debug != nil {
		if dump, err := httputil.DumpResponse(resp, false); err == nil {
			_, _ = c.debug.Write(dump)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if c.debug != nil {
		_, _ = c.debug.Write(body)
	}

	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	log.Debug().
		Str("provider", c.name).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Msg("received HTTP response")

	return httpResp, nil
}

// IsTimeout reports whether err came from a deadline or client timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsOK checks if the response status is exactly 200
func (r *HTTPResponse) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// String returns the response body as a string
func (r *HTTPResponse) String() string {
	return string(r.Body)
}
