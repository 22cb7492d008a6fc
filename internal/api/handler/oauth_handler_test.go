package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/draftforge/content-platform/internal/api/middleware"
	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
)

type stubProvider struct {
	info *ports.OAuthUserInfo
	err  error
	code string
}

func (p *stubProvider) Name() string { return "google" }

func (p *stubProvider) LoginURL(state string) string {
	return "https://provider.example.com/auth?state=" + state
}

func (p *stubProvider) Exchange(_ context.Context, code string) (*ports.OAuthUserInfo, error) {
	p.code = code
	return p.info, p.err
}

type stubOAuthService struct {
	stubAuthService
	token string
	user  *domain.Identity
	err   error
}

func (s *stubOAuthService) OAuthSignIn(_ context.Context, _ ports.OAuthUserInfo) (string, *domain.Identity, error) {
	return s.token, s.user, s.err
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestOAuthHandler_Redirect(t *testing.T) {
	h := NewOAuthHandler(&stubProvider{}, &stubOAuthService{}, time.Hour, zerolog.Nop())

	c, rec := newEchoContext(t, http.MethodGet, "/v1/auth/oauth/google?callbackUrl=/generate", "")
	if err := h.Redirect(c); err != nil {
		t.Fatalf("redirect failed: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	state := findCookie(cookies, "df_oauth_state")
	if state == nil || state.Value == "" {
		t.Fatalf("expected state cookie, got %+v", cookies)
	}
	if !strings.Contains(rec.Header().Get("Location"), "state="+state.Value) {
		t.Fatalf("consent url must carry the state, got %q", rec.Header().Get("Location"))
	}

	redirect := findCookie(cookies, "df_oauth_redirect")
	if redirect == nil || redirect.Value != "/generate" {
		t.Fatalf("expected callback path preserved, got %+v", redirect)
	}
}

func TestOAuthHandler_Redirect_RejectsOffSiteCallback(t *testing.T) {
	h := NewOAuthHandler(&stubProvider{}, &stubOAuthService{}, time.Hour, zerolog.Nop())

	tests := []struct {
		name     string
		callback string
	}{
		{"absolute url", "https://evil.example.com"},
		{"protocol-relative url", "//evil.example.com/phish"},
		{"empty", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newEchoContext(t, http.MethodGet,
				"/v1/auth/oauth/google?callbackUrl="+url.QueryEscape(tc.callback), "")
			if err := h.Redirect(c); err != nil {
				t.Fatalf("redirect failed: %v", err)
			}
			if findCookie(rec.Result().Cookies(), "df_oauth_redirect") != nil {
				t.Fatalf("off-site callback %q must not be stored", tc.callback)
			}
		})
	}
}

func TestOAuthHandler_Callback_IgnoresOffSiteRedirectCookie(t *testing.T) {
	// The redirect cookie is re-checked at consumption time: even a value
	// smuggled past the Redirect handler must not leave the site.
	provider := &stubProvider{info: &ports.OAuthUserInfo{ProviderID: "sub-1", Email: "u@e.com"}}
	svc := &stubOAuthService{token: "tok", user: &domain.Identity{ID: "u1"}}
	h := NewOAuthHandler(provider, svc, time.Hour, zerolog.Nop())

	c, rec := newEchoContext(t, http.MethodGet, "/callback?state=st-1&code=code-1", "")
	c.Request().AddCookie(&http.Cookie{Name: "df_oauth_state", Value: "st-1"})
	c.Request().AddCookie(&http.Cookie{Name: "df_oauth_redirect", Value: "//evil.example.com/phish"})

	if err := h.Callback(c); err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != middleware.LandingPath {
		t.Fatalf("protocol-relative redirect cookie must fall back to the landing page, got %q", loc)
	}
}

func TestOAuthHandler_Callback_Success(t *testing.T) {
	provider := &stubProvider{info: &ports.OAuthUserInfo{
		Provider:   "google",
		ProviderID: "sub-1",
		Email:      "user@example.com",
	}}
	svc := &stubOAuthService{token: "session-token", user: &domain.Identity{ID: "u1"}}
	h := NewOAuthHandler(provider, svc, time.Hour, zerolog.Nop())

	c, rec := newEchoContext(t, http.MethodGet, "/callback?state=st-1&code=code-1", "")
	c.Request().AddCookie(&http.Cookie{Name: "df_oauth_state", Value: "st-1"})
	c.Request().AddCookie(&http.Cookie{Name: "df_oauth_redirect", Value: "/generate"})

	if err := h.Callback(c); err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/generate" {
		t.Fatalf("expected redirect to stored path, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if provider.code != "code-1" {
		t.Fatalf("expected code exchanged, got %q", provider.code)
	}

	session := findCookie(rec.Result().Cookies(), middleware.SessionCookieName)
	if session == nil || session.Value != "session-token" {
		t.Fatalf("expected session cookie, got %+v", session)
	}
}

func TestOAuthHandler_Callback_DefaultsToLanding(t *testing.T) {
	provider := &stubProvider{info: &ports.OAuthUserInfo{ProviderID: "sub-1", Email: "u@e.com"}}
	svc := &stubOAuthService{token: "tok", user: &domain.Identity{ID: "u1"}}
	h := NewOAuthHandler(provider, svc, time.Hour, zerolog.Nop())

	c, rec := newEchoContext(t, http.MethodGet, "/callback?state=st-1&code=code-1", "")
	c.Request().AddCookie(&http.Cookie{Name: "df_oauth_state", Value: "st-1"})

	if err := h.Callback(c); err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if rec.Header().Get("Location") != middleware.LandingPath {
		t.Fatalf("expected landing redirect, got %q", rec.Header().Get("Location"))
	}
}

func TestOAuthHandler_Callback_StateMismatch(t *testing.T) {
	h := NewOAuthHandler(&stubProvider{}, &stubOAuthService{}, time.Hour, zerolog.Nop())

	c, rec := newEchoContext(t, http.MethodGet, "/callback?state=forged&code=code-1", "")
	c.Request().AddCookie(&http.Cookie{Name: "df_oauth_state", Value: "expected"})

	if err := h.Callback(c); err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	loc := rec.Header().Get("Location")
	if rec.Code != http.StatusFound || !strings.Contains(loc, "error=state_mismatch") {
		t.Fatalf("expected sign-in redirect with error, got %d %q", rec.Code, loc)
	}
}

func TestOAuthHandler_Callback_ExchangeFailure(t *testing.T) {
	provider := &stubProvider{err: context.DeadlineExceeded}
	h := NewOAuthHandler(provider, &stubOAuthService{}, time.Hour, zerolog.Nop())

	c, rec := newEchoContext(t, http.MethodGet, "/callback?state=st-1&code=code-1", "")
	c.Request().AddCookie(&http.Cookie{Name: "df_oauth_state", Value: "st-1"})

	if err := h.Callback(c); err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if !strings.Contains(rec.Header().Get("Location"), "error=exchange_failed") {
		t.Fatalf("expected exchange_failed redirect, got %q", rec.Header().Get("Location"))
	}
}
