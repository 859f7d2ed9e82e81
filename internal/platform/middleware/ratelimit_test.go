package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func doRequest(e *echo.Echo, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	return rec, mw(handler)(c)
}

func TestRateLimit_SixthRequestRejected(t *testing.T) {
	e := echo.New()
	// 5 per minute: six rapid requests must trip the limiter on the sixth.
	mw := RateLimit(LoginRateLimitConfig(5))

	for i := 0; i < 5; i++ {
		_, err := doRequest(e, mw)
		if err != nil {
			t.Fatalf("request %d unexpectedly limited: %v", i+1, err)
		}
	}

	rec, err := doRequest(e, mw)
	if err == nil {
		t.Fatal("expected sixth request to be rate limited")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", httpErr.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on rate limited response")
	}
}

func TestRateLimit_RecoversAfterWindow(t *testing.T) {
	e := echo.New()
	// 50 req/s refills a token every 20ms; a short sleep is a full window.
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 50, BurstSize: 2})

	for i := 0; i < 2; i++ {
		if _, err := doRequest(e, mw); err != nil {
			t.Fatalf("request %d unexpectedly limited: %v", i+1, err)
		}
	}
	if _, err := doRequest(e, mw); err == nil {
		t.Fatal("expected request to be rate limited with the bucket drained")
	}

	time.Sleep(60 * time.Millisecond)

	if _, err := doRequest(e, mw); err != nil {
		t.Errorf("expected request to pass after the window elapsed: %v", err)
	}
}

func TestRateLimit_IndependentKeys(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.01, BurstSize: 1})

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	send := func(ip string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":4321"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		return mw(handler)(c)
	}

	if err := send("10.0.0.1"); err != nil {
		t.Fatalf("first request from 10.0.0.1 limited: %v", err)
	}
	if err := send("10.0.0.1"); err == nil {
		t.Error("expected second request from 10.0.0.1 to be limited")
	}
	// A different client key has its own bucket.
	if err := send("10.0.0.2"); err != nil {
		t.Errorf("request from 10.0.0.2 unexpectedly limited: %v", err)
	}
}

func TestRateLimit_SeparateInstancesSeparateClasses(t *testing.T) {
	e := echo.New()
	loginMW := RateLimit(RateLimitConfig{RequestsPerSecond: 0.01, BurstSize: 1})
	globalMW := RateLimit(DefaultRateLimitConfig())

	if _, err := doRequest(e, loginMW); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := doRequest(e, loginMW); err == nil {
		t.Fatal("expected login class to be exhausted")
	}
	// The global class still admits the same client.
	if _, err := doRequest(e, globalMW); err != nil {
		t.Errorf("global class unexpectedly limited: %v", err)
	}
}

func TestLoginRateLimitConfig_Defaults(t *testing.T) {
	cfg := LoginRateLimitConfig(0)
	if cfg.BurstSize != 5 {
		t.Errorf("expected default burst 5, got %d", cfg.BurstSize)
	}
}
