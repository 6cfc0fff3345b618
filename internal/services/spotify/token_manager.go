package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"tunebridge/internal/config"
	"tunebridge/internal/services"
)

var (
	// ErrAuthorizationMissing is returned when no Spotify account has been linked yet.
	ErrAuthorizationMissing = errors.New("spotify account not linked")
)

const (
	tokenRefreshLeeway = time.Minute
	defaultAuthTimeout = 15 * time.Second
)

// HTTPDoer is the subset of *http.Client used by this package.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// TokenManagerOption customises TokenManager construction.
type TokenManagerOption func(*TokenManager)

// WithHTTPClient overrides the HTTP client used for token requests.
func WithHTTPClient(client HTTPDoer) TokenManagerOption {
	return func(m *TokenManager) {
		m.httpClient = client
	}
}

// WithAccountsURL overrides the accounts service base URL (used in tests).
func WithAccountsURL(baseURL string) TokenManagerOption {
	return func(m *TokenManager) {
		m.accountsURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTokenStore injects a custom persistence layer.
func WithTokenStore(store TokenStore) TokenManagerOption {
	return func(m *TokenManager) {
		m.store = store
	}
}

// WithClock overrides the time source (used in tests).
func WithClock(now func() time.Time) TokenManagerOption {
	return func(m *TokenManager) {
		if now != nil {
			m.now = now
		}
	}
}

// TokenManager persists Spotify OAuth state and refreshes the short-lived
// access token. It is safe for concurrent use.
type TokenManager struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string
	accountsURL  string

	httpClient HTTPDoer
	store      TokenStore
	now        func() time.Time

	stateMu sync.RWMutex
	state   TokenState
}

// NewTokenManager builds a TokenManager using the provided configuration.
func NewTokenManager(cfg *config.Config, opts ...TokenManagerOption) (*TokenManager, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	mgr := &TokenManager{
		clientID:     cfg.Spotify.ClientID,
		clientSecret: cfg.Spotify.ClientSecret,
		redirectURI:  cfg.Spotify.RedirectURI,
		scopes:       append([]string(nil), cfg.Spotify.Scopes...),
		accountsURL:  strings.TrimRight(cfg.Spotify.AccountsURL, "/"),
		httpClient:   &http.Client{Timeout: defaultAuthTimeout},
		store:        NewFileTokenStore(cfg.TokenStatePath()),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(mgr)
	}

	if mgr.httpClient == nil {
		mgr.httpClient = &http.Client{Timeout: defaultAuthTimeout}
	}
	if mgr.store == nil {
		mgr.store = NewFileTokenStore(cfg.TokenStatePath())
	}

	state, err := mgr.store.Load()
	if err != nil {
		return nil, err
	}
	mgr.state = state
	return mgr, nil
}

// HasAuthorization reports whether a refresh token is available.
func (m *TokenManager) HasAuthorization() bool {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return strings.TrimSpace(m.state.RefreshToken) != ""
}

// State returns a copy of the current token state.
func (m *TokenManager) State() TokenState {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

// GetValidAccessToken returns an access token that is valid for at least the
// refresh leeway, refreshing it first when needed.
func (m *TokenManager) GetValidAccessToken(ctx context.Context) (string, error) {
	if token, ok := m.cachedToken(); ok {
		return token, nil
	}
	return m.refreshToken(ctx)
}

// AuthHeaders returns the Authorization header for API requests.
func (m *TokenManager) AuthHeaders(ctx context.Context) (http.Header, error) {
	token, err := m.GetValidAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	header := make(http.Header)
	header.Set("Authorization", "Bearer "+token)
	return header, nil
}

func (m *TokenManager) fresh(state TokenState) bool {
	return state.AccessToken != "" && state.ExpiresAt.Sub(m.now()) > tokenRefreshLeeway
}

func (m *TokenManager) cachedToken() (string, bool) {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.fresh(m.state) {
		return m.state.AccessToken, true
	}
	return "", false
}

func (m *TokenManager) refreshToken(ctx context.Context) (string, error) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if m.fresh(m.state) {
		return m.state.AccessToken, nil
	}

	if strings.TrimSpace(m.state.RefreshToken) == "" {
		reloaded, err := m.store.Load()
		if err != nil {
			return "", err
		}
		m.state = reloaded
		if m.fresh(m.state) {
			return m.state.AccessToken, nil
		}
		if strings.TrimSpace(m.state.RefreshToken) == "" {
			return "", ErrAuthorizationMissing
		}
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", m.state.RefreshToken)

	updated, err := m.requestToken(ctx, form)
	if err != nil {
		return "", err
	}
	// Spotify omits the refresh token from refresh responses unless it rotates.
	if updated.RefreshToken == "" {
		updated.RefreshToken = m.state.RefreshToken
	}
	updated.LinkedAt = m.state.LinkedAt

	if err := m.store.Save(updated); err != nil {
		return "", err
	}
	m.state = updated
	return updated.AccessToken, nil
}

// AuthorizeURL returns the consent page URL for the authorization-code flow.
func (m *TokenManager) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", m.clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", m.redirectURI)
	params.Set("state", state)
	if len(m.scopes) > 0 {
		params.Set("scope", strings.Join(m.scopes, " "))
	}
	return m.accountsURL + "/authorize?" + params.Encode()
}

// Exchange trades an authorization code for tokens and persists them.
func (m *TokenManager) Exchange(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return services.Wrap(services.ErrValidation, "auth", "exchange code", "authorization code is empty", nil)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", m.redirectURI)

	state, err := m.requestToken(ctx, form)
	if err != nil {
		return err
	}
	state.LinkedAt = m.now().UTC()

	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if err := m.store.Save(state); err != nil {
		return err
	}
	m.state = state
	return nil
}

// Logout forgets the linked account.
func (m *TokenManager) Logout() error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if err := m.store.Save(TokenState{}); err != nil {
		return err
	}
	m.state = TokenState{}
	return nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (m *TokenManager) requestToken(ctx context.Context, form url.Values) (TokenState, error) {
	if m.clientID == "" || m.clientSecret == "" {
		return TokenState{}, services.Wrap(services.ErrConfiguration, "auth", "request token", "spotify client credentials are not configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return TokenState{}, fmt.Errorf("spotify: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.clientID, m.clientSecret)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return TokenState{}, services.Wrap(services.ErrTransient, "auth", "request token", "token endpoint unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return TokenState{}, fmt.Errorf("spotify: read token response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var payload tokenErrorResponse
		_ = json.Unmarshal(body, &payload)
		message := strings.TrimSpace(payload.ErrorDescription)
		if message == "" {
			message = strings.TrimSpace(payload.Error)
		}
		if message == "" {
			message = resp.Status
		}
		marker := services.ErrExternalTool
		if payload.Error == "invalid_grant" {
			marker = services.ErrConfiguration
			message += " (run `tunebridge auth login` again)"
		}
		return TokenState{}, services.Wrap(marker, "auth", "request token", message, &StatusError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return TokenState{}, fmt.Errorf("spotify: decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return TokenState{}, services.Wrap(services.ErrExternalTool, "auth", "request token", "token response missing access_token", nil)
	}

	return TokenState{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		TokenType:    payload.TokenType,
		Scope:        payload.Scope,
		ExpiresAt:    m.now().Add(time.Duration(payload.ExpiresIn) * time.Second).UTC(),
	}, nil
}
