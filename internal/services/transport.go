package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const defaultTimeout = 30 * time.Second

// HTTPError is the transport failure for statuses >= 400.
type HTTPError struct {
	Status int
	Body   string
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d from %s: %s", e.Status, e.URL, strings.TrimSpace(e.Body))
}

// HTTPTransport implements [WebRequests] over [net/http].
//
// Redirects are returned to the caller instead of followed.
type HTTPTransport struct {
	client *http.Client
	logger *log.Logger
}

// NewHTTPTransport wraps client, which defaults to a client with a 30 second timeout.
// The client is copied so its redirect policy can be replaced.
func NewHTTPTransport(client *http.Client, logger *log.Logger) *HTTPTransport {
	var c http.Client
	if client != nil {
		c = *client
	} else {
		c.Timeout = defaultTimeout
	}
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	if logger == nil {
		logger = log.Default()
	}
	return &HTTPTransport{client: &c, logger: logger}
}

// Get performs a GET request.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string) (*Response, error) {
	return t.do(ctx, http.MethodGet, rawURL, "")
}

// Post performs a POST request with a form-encoded body, which may be empty.
func (t *HTTPTransport) Post(ctx context.Context, rawURL, body string) (*Response, error) {
	return t.do(ctx, http.MethodPost, rawURL, body)
}

func (t *HTTPTransport) do(ctx context.Context, method, rawURL, body string) (*Response, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	t.logger.Debug("http request", "method", method, "url", redact(rawURL))

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(data), URL: redact(rawURL)}
	}

	return &Response{Status: resp.StatusCode, Value: string(data)}, nil
}

// redact masks credentials carried in the query string.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	changed := false
	for _, key := range []string{"oauth_token", "client_secret"} {
		if q.Has(key) {
			q.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}

	u.RawQuery = q.Encode()
	return u.String()
}
