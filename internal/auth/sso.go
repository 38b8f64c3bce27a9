package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/corriander/eve-telemetrics/internal/version"
)

const (
	DefaultBaseURL = "https://login.eveonline.com"

	tokenPath  = "/v2/oauth/token"
	verifyPath = "/oauth/verify"
)

// Error is a non-success response from SSO.
type Error struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("sso %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Token is an access token grant.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`

	IssuedAt time.Time `json:"-"`
}

// Expiry is when the access token stops being accepted.
func (t *Token) Expiry() time.Time {
	return t.IssuedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Verification identifies the character an access token belongs to.
type Verification struct {
	CharacterID        int64  `json:"CharacterID"`
	CharacterName      string `json:"CharacterName"`
	ExpiresOn          string `json:"ExpiresOn"`
	Scopes             string `json:"Scopes"`
	TokenType          string `json:"TokenType"`
	CharacterOwnerHash string `json:"CharacterOwnerHash"`
}

// SSO is an EVE SSO client.
type SSO struct {
	client       *resty.Client
	clientID     string
	clientSecret string
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures an SSO client.
type Option func(*SSO)

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *SSO) {
		s.client.SetTimeout(d)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SSO) {
		s.logger = logger
	}
}

// NewSSO creates a client for the application identified by clientID
// and clientSecret.
func NewSSO(baseURL, clientID, clientSecret string, opts ...Option) *SSO {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", version.UserAgent())

	s := &SSO{
		client:       client,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh exchanges a refresh token for an access token. SSO may rotate
// the refresh token; the returned Token carries the one to use next.
func (s *SSO) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	issued := s.now()

	var token Token
	resp, err := s.client.R().
		SetContext(ctx).
		SetBasicAuth(s.clientID, s.clientSecret).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": refreshToken,
		}).
		SetResult(&token).
		Post(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &Error{Op: "refresh", StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("refresh token: empty access token")
	}

	token.IssuedAt = issued
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}

	s.logger.Debug("access token refreshed", "expires_in", token.ExpiresIn)
	return &token, nil
}

// Verify returns the character owning accessToken.
func (s *SSO) Verify(ctx context.Context, accessToken string) (*Verification, error) {
	var v Verification
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&v).
		Get(verifyPath)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &Error{Op: "verify", StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &v, nil
}
