package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestSSO(t *testing.T, refreshes *atomic.Int32) (*SSO, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			id, secret, ok := r.BasicAuth()
			if !ok || id != "client" || secret != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid_client"}`))
				return
			}
			if err := r.ParseForm(); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") == "bad" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			n := refreshes.Add(1)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-" + string(rune('0'+n)),
				"token_type":    "Bearer",
				"expires_in":    1199,
				"refresh_token": "rotated",
			})
		case verifyPath:
			if r.Header.Get("Authorization") != "Bearer access-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"CharacterID":2112625428,"CharacterName":"Some Pilot","ExpiresOn":"2018-07-02T18:53:33","Scopes":"esi-markets.read_character_orders.v1","TokenType":"Character"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return NewSSO(srv.URL, "client", "secret", WithTimeout(5*time.Second)), srv
}

func TestSSO_Refresh(t *testing.T) {
	var refreshes atomic.Int32
	sso, _ := newTestSSO(t, &refreshes)
	issued := time.Date(2018, 7, 2, 18, 33, 33, 0, time.UTC)
	sso.now = func() time.Time { return issued }

	token, err := sso.Refresh(context.Background(), "original")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if token.AccessToken != "access-1" {
		t.Errorf("AccessToken = %q, want access-1", token.AccessToken)
	}
	if token.RefreshToken != "rotated" {
		t.Errorf("RefreshToken = %q, want rotated", token.RefreshToken)
	}
	if want := issued.Add(1199 * time.Second); !token.Expiry().Equal(want) {
		t.Errorf("Expiry() = %v, want %v", token.Expiry(), want)
	}
}

func TestSSO_RefreshRejected(t *testing.T) {
	var refreshes atomic.Int32
	sso, _ := newTestSSO(t, &refreshes)

	_, err := sso.Refresh(context.Background(), "bad")
	var ssoErr *Error
	if !errors.As(err, &ssoErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if ssoErr.StatusCode != http.StatusBadRequest || ssoErr.Op != "refresh" {
		t.Errorf("Error = %+v", ssoErr)
	}
}

func TestSSO_Verify(t *testing.T) {
	var refreshes atomic.Int32
	sso, _ := newTestSSO(t, &refreshes)

	v, err := sso.Verify(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if v.CharacterID != 2112625428 || v.CharacterName != "Some Pilot" {
		t.Errorf("Verification = %+v", v)
	}

	if _, err := sso.Verify(context.Background(), "stale"); err == nil {
		t.Error("Verify() should fail for an unknown token")
	}
}

func TestTokenSource_CachesUntilExpiry(t *testing.T) {
	var refreshes atomic.Int32
	sso, _ := newTestSSO(t, &refreshes)

	now := time.Date(2018, 7, 2, 18, 0, 0, 0, time.UTC)
	sso.now = func() time.Time { return now }
	ts := NewTokenSource(sso, "original")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		token, err := ts.Token(ctx)
		if err != nil {
			t.Fatalf("Token failed: %v", err)
		}
		if token != "access-1" {
			t.Errorf("Token() = %q, want access-1", token)
		}
	}
	if got := refreshes.Load(); got != 1 {
		t.Errorf("refreshes = %d, want 1", got)
	}

	// Inside the expiry margin.
	now = now.Add(1199*time.Second - DefaultExpiryMargin)
	token, err := ts.Token(ctx)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "access-2" {
		t.Errorf("Token() = %q, want access-2", token)
	}
	if ts.refresh != "rotated" {
		t.Errorf("refresh token = %q, want rotated", ts.refresh)
	}
}

func TestTokenSource_Verify(t *testing.T) {
	var refreshes atomic.Int32
	sso, _ := newTestSSO(t, &refreshes)

	v, err := NewTokenSource(sso, "original").Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if v.CharacterName != "Some Pilot" {
		t.Errorf("CharacterName = %q", v.CharacterName)
	}
}
