package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	defer rl.Stop()

	e := echo.New()
	mw := rl.Middleware()

	do := func(ip string) error {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		req.Header.Set("X-Real-IP", ip)
		c := e.NewContext(req, httptest.NewRecorder())
		return mw(okHandler)(c)
	}

	if err := do("1.2.3.4"); err != nil {
		t.Fatalf("first request rejected: %v", err)
	}
	if err := do("1.2.3.4"); err != nil {
		t.Fatalf("second request within burst rejected: %v", err)
	}

	err := do("1.2.3.4")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over burst, got %v", err)
	}

	// Buckets are per IP.
	if err := do("5.6.7.8"); err != nil {
		t.Fatalf("fresh ip rejected: %v", err)
	}
}
