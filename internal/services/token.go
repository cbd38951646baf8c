package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scx/internal/shared"
	"golang.org/x/oauth2"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`

	// Error is set when the server reports a failure with a success status.
	Error string `json:"error"`
}

// TokenManager exchanges grants for tokens and owns the [Session].
//
// It never refreshes on its own; callers that see [shared.ErrTokenExpired] call [TokenManager.Refresh] and retry once.
type TokenManager struct {
	mu       sync.Mutex
	registry *Registry
	executor *Executor
	session  *Session
	prefs    Preferences
	creds    shared.SoundCloudConfig
	oauth    *oauth2.Config
	logger   *log.Logger
}

func NewTokenManager(registry *Registry, executor *Executor, session *Session, prefs Preferences, creds shared.SoundCloudConfig, authURL string, logger *log.Logger) *TokenManager {
	if logger == nil {
		logger = log.Default()
	}

	tokenURL := ""
	if ep, err := registry.Resolve(EndpointToken); err == nil {
		tokenURL = ep.URLTemplate
	}

	return &TokenManager{
		registry: registry,
		executor: executor,
		session:  session,
		prefs:    prefs,
		creds:    creds,
		oauth: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Endpoint:     oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL},
		},
		logger: shared.WithLogger(logger, "component", "tokens"),
	}
}

// AuthURL returns the authorization page URL that starts the authorization code flow.
func (m *TokenManager) AuthURL(state string) string {
	return m.oauth.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code, or a refresh token when refresh is set, for a token pair.
//
// Both tokens are persisted in a single preferences write before the session changes, so a failed
// exchange leaves the prior session untouched. A response without a refresh token keeps the current one.
func (m *TokenManager) ExchangeCode(ctx context.Context, code string, refresh bool) error {
	if code == "" {
		return fmt.Errorf("%w: grant code", shared.ErrMissingArgument)
	}
	if m.creds.ClientID == "" || m.creds.ClientSecret == "" {
		return fmt.Errorf("%w: client id and secret are required", shared.ErrMissingCredentials)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ep, err := m.registry.Resolve(EndpointToken)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("client_id", m.creds.ClientID)
	form.Set("client_secret", m.creds.ClientSecret)
	if refresh {
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", code)
	} else {
		form.Set("grant_type", "authorization_code")
		form.Set("redirect_uri", m.creds.RedirectURI)
		form.Set("code", code)
	}

	resp, err := m.executor.send(ctx, ep.Method, ep.URLTemplate, form)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			return err
		}
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	var tr tokenResponse
	err = json.Unmarshal([]byte(resp.Value), &tr)
	switch {
	case err == nil && tr.Error == invalidGrant:
		return fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, tr.Error)
	case err == nil && tr.Error != "":
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, tr.Error)
	}
	if err != nil || tr.AccessToken == "" {
		return fmt.Errorf("%w: could not obtain access token", shared.ErrAuthFailed)
	}

	refreshToken := tr.RefreshToken
	if refreshToken == "" {
		refreshToken = m.session.RefreshToken()
	}

	if err := m.prefs.Set(map[string]string{
		PrefAccessToken:  tr.AccessToken,
		PrefRefreshToken: refreshToken,
	}); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}

	m.session.set(tr.AccessToken, refreshToken)
	m.logger.Info("tokens updated", "grant", form.Get("grant_type"), "expires_in", tr.ExpiresIn)
	return nil
}

// Refresh exchanges the stored refresh token for a new token pair.
func (m *TokenManager) Refresh(ctx context.Context) error {
	token := m.session.RefreshToken()
	if token == "" {
		return shared.ErrNoRefreshToken
	}
	return m.ExchangeCode(ctx, token, true)
}

// Logout clears both tokens.
func (m *TokenManager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.prefs.Set(map[string]string{PrefAccessToken: "", PrefRefreshToken: ""}); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	m.session.set("", "")
	return nil
}
