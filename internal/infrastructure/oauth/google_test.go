package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestGoogle_LoginURL(t *testing.T) {
	g := NewGoogle(GoogleConfig{
		ClientID:    "client-1",
		RedirectURL: "https://app.example.com/v1/auth/oauth/google/callback",
	})

	raw := g.LoginURL("state-abc")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse login url: %v", err)
	}
	q := u.Query()
	if q.Get("client_id") != "client-1" {
		t.Fatalf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("state") != "state-abc" {
		t.Fatalf("state = %q", q.Get("state"))
	}
	if q.Get("response_type") != "code" {
		t.Fatalf("response_type = %q", q.Get("response_type"))
	}
	if !strings.Contains(q.Get("scope"), "email") {
		t.Fatalf("scope = %q", q.Get("scope"))
	}
}

func TestGoogle_Exchange(t *testing.T) {
	userinfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-token-1" {
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode(googleUserInfo{
			Sub:     "sub-123",
			Email:   "user@example.com",
			Name:    "User",
			Picture: "https://example.com/pic.png",
		})
	}))
	defer userinfo.Close()

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("code") != "auth-code" || r.Form.Get("grant_type") != "authorization_code" {
			t.Errorf("unexpected token request: %v", r.Form)
		}
		_ = json.NewEncoder(w).Encode(googleTokenResponse{AccessToken: "access-token-1", TokenType: "Bearer"})
	}))
	defer token.Close()

	g := NewGoogle(GoogleConfig{
		ClientID:     "client-1",
		ClientSecret: "secret",
		RedirectURL:  "https://app.example.com/callback",
		TokenURL:     token.URL,
		UserInfoURL:  userinfo.URL,
	})

	info, err := g.Exchange(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if info.Provider != "google" || info.ProviderID != "sub-123" || info.Email != "user@example.com" {
		t.Fatalf("unexpected user info: %+v", info)
	}
}

func TestGoogle_Exchange_TokenRejected(t *testing.T) {
	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer token.Close()

	g := NewGoogle(GoogleConfig{TokenURL: token.URL})
	if _, err := g.Exchange(context.Background(), "bad-code"); err == nil {
		t.Fatal("expected error for rejected code")
	}
}

func TestGoogle_Exchange_IncompleteProfile(t *testing.T) {
	userinfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(googleUserInfo{Sub: "sub-123"}) // no email
	}))
	defer userinfo.Close()

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(googleTokenResponse{AccessToken: "tok"})
	}))
	defer token.Close()

	g := NewGoogle(GoogleConfig{TokenURL: token.URL, UserInfoURL: userinfo.URL})
	if _, err := g.Exchange(context.Background(), "code"); err == nil {
		t.Fatal("expected error for incomplete profile")
	}
}
