package auth

import (
	"context"
	"sync"
	"time"
)

// DefaultExpiryMargin is how long before expiry a token is replaced.
const DefaultExpiryMargin = time.Minute

// TokenSource hands out a valid access token, refreshing it through SSO
// when needed. It is safe for concurrent use.
type TokenSource struct {
	sso    *SSO
	margin time.Duration

	mu      sync.Mutex
	refresh string
	token   *Token
}

func NewTokenSource(sso *SSO, refreshToken string) *TokenSource {
	return &TokenSource{
		sso:     sso,
		margin:  DefaultExpiryMargin,
		refresh: refreshToken,
	}
}

// Token returns the cached access token or fetches a new one.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != nil && ts.sso.now().Before(ts.token.Expiry().Add(-ts.margin)) {
		return ts.token.AccessToken, nil
	}

	token, err := ts.sso.Refresh(ctx, ts.refresh)
	if err != nil {
		return "", err
	}
	ts.token = token
	ts.refresh = token.RefreshToken
	return token.AccessToken, nil
}

// Verify identifies the character behind the current token.
func (ts *TokenSource) Verify(ctx context.Context) (*Verification, error) {
	token, err := ts.Token(ctx)
	if err != nil {
		return nil, err
	}
	return ts.sso.Verify(ctx, token)
}
