package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scx/internal/shared"
)

const invalidGrant = "invalid_grant"

// APIError is a failure reported by the service.
//
// It unwraps to [shared.ErrTokenExpired] for 401 responses, letting callers refresh and retry once,
// and to [shared.ErrAPIRequest] otherwise.
type APIError struct {
	Status  int
	Message string
	URL     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("soundcloud API error (status %d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return shared.ErrTokenExpired
	}
	return shared.ErrAPIRequest
}

// Executor signs requests with the session credentials and translates transport failures.
type Executor struct {
	transport WebRequests
	session   *Session
	clientID  string
	logger    *log.Logger
}

// NewExecutor creates an executor sending requests through transport.
//
// Authenticated requests carry the session's access token as oauth_token.
// Without a token, clientID is attached as client_id when set.
func NewExecutor(transport WebRequests, session *Session, clientID string, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{transport: transport, session: session, clientID: clientID, logger: logger}
}

// Execute expands the endpoint template with params and performs the request.
func (e *Executor) Execute(ctx context.Context, ep Endpoint, params map[string]string, body url.Values) (*Response, error) {
	target, err := ep.Expand(params)
	if err != nil {
		return nil, err
	}
	return e.ExecuteURL(ctx, ep, target, body)
}

// ExecuteURL performs the request for ep against an already built URL, such as a stored cursor.
//
// Endpoints that require authentication fail with [shared.ErrNotAuthenticated] before any network call.
func (e *Executor) ExecuteURL(ctx context.Context, ep Endpoint, target string, body url.Values) (*Response, error) {
	if ep.RequiresAuth && !e.session.Authenticated() {
		return nil, fmt.Errorf("%w: %s requires an access token", shared.ErrNotAuthenticated, ep.Name)
	}
	return e.send(ctx, ep.Method, e.sign(target), body)
}

// send performs an unsigned request and classifies the outcome.
func (e *Executor) send(ctx context.Context, method Method, target string, body url.Values) (*Response, error) {
	var (
		resp *Response
		err  error
	)

	switch method {
	case MethodGet:
		resp, err = e.transport.Get(ctx, target)
	case MethodPost:
		resp, err = e.transport.Post(ctx, target, body.Encode())
	default:
		return nil, fmt.Errorf("%w: unsupported method %s", shared.ErrInvalidArgument, method)
	}

	if err != nil {
		return nil, e.translate(err)
	}

	e.logger.Debug("response", "method", method, "url", redact(target), "status", resp.Status)
	return resp, nil
}

// sign attaches the auth query parameter to target.
func (e *Executor) sign(target string) string {
	if token := e.session.AccessToken(); token != "" {
		return setQuery(target, "oauth_token", token)
	}
	if e.clientID != "" {
		return appendQuery(target, "client_id", e.clientID)
	}
	return target
}

// translate maps a transport failure onto the error taxonomy.
func (e *Executor) translate(err error) error {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	message := errorMessage(httpErr.Body)
	if message == invalidGrant {
		return fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, message)
	}

	if message == "" {
		message = http.StatusText(httpErr.Status)
	}
	return &APIError{Status: httpErr.Status, Message: message, URL: httpErr.URL}
}

// errorBody covers the error shapes the API and its OAuth server return.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Errors  []struct {
		ErrorMessage string `json:"error_message"`
	} `json:"errors"`
}

// errorMessage extracts the reported error from a failure body, or "" when there is none.
func errorMessage(body string) string {
	var eb errorBody
	if err := json.Unmarshal([]byte(body), &eb); err != nil {
		return ""
	}

	switch {
	case eb.Error != "":
		return eb.Error
	case eb.Message != "":
		return eb.Message
	case len(eb.Errors) > 0:
		return eb.Errors[0].ErrorMessage
	}
	return ""
}

// appendQuery adds key=value to rawURL unless key is already present, leaving the rest untouched.
func appendQuery(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Query().Has(key) {
		return rawURL
	}

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

// setQuery is [appendQuery] but replaces a differing existing value.
func setQuery(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	if !q.Has(key) {
		return appendQuery(rawURL, key, value)
	}
	if q.Get(key) == value {
		return rawURL
	}

	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
