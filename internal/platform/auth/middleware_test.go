package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newAuthedContext(t *testing.T, e *echo.Echo, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	mw := Middleware(testCodec(), nil)
	c, _ := newAuthedContext(t, e, "")

	err := mw(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_BadScheme(t *testing.T) {
	e := echo.New()
	mw := Middleware(testCodec(), nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tc := testCodec()
	mw := Middleware(tc, nil)

	token, err := tc.Issue("dr_house", []string{RoleDoctor}, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ := newAuthedContext(t, e, token)

	var gotUser string
	var gotRoles []string
	handler := func(c echo.Context) error {
		gotUser = UsernameFromContext(c.Request().Context())
		gotRoles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}

	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUser != "dr_house" {
		t.Errorf("expected dr_house, got %s", gotUser)
	}
	if len(gotRoles) != 1 || gotRoles[0] != RoleDoctor {
		t.Errorf("expected doctor role, got %v", gotRoles)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()
	tc := testCodec()
	mw := Middleware(tc, nil)

	token, _ := tc.Issue("dr_house", []string{RoleDoctor}, 0)
	time.Sleep(5 * time.Millisecond)
	c, _ := newAuthedContext(t, e, token)

	err := mw(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if c.Get("auth_failure") != "expired" {
		t.Errorf("expected expired failure kind recorded, got %v", c.Get("auth_failure"))
	}
}

func TestMiddleware_Skipper(t *testing.T) {
	e := echo.New()
	mw := Middleware(testCodec(), func(echo.Context) bool { return true })
	c, _ := newAuthedContext(t, e, "")

	called := false
	if err := mw(func(c echo.Context) error { called = true; return nil })(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected handler to run when skipper allows")
	}
}

func TestRequireRole_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), RolesKey, []string{RoleDoctor})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireRole(RoleDoctor)
	if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		t.Fatalf("expected doctor to pass doctor check: %v", err)
	}
}

func TestRequireRole_AdminImpliesAll(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), RolesKey, []string{RoleAdmin})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireRole(RoleDoctor)
	if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		t.Fatalf("expected admin to pass doctor check: %v", err)
	}
}

func TestRequireRole_DeniesByDefault(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), RolesKey, []string{RolePatient})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireRole(RoleDoctor)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}

	// No roles at all is also a deny.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	c2 := e.NewContext(req2, httptest.NewRecorder())
	err = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c2)
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing roles, got %v", err)
	}
}

func TestSkipper_PublicPaths(t *testing.T) {
	e := echo.New()

	public := []struct {
		method, path string
	}{
		{http.MethodGet, "/health"},
		{http.MethodPost, "/api/v1/auth/login"},
		{http.MethodPost, "/api/v1/auth/register/patient"},
		{http.MethodPost, "/api/v1/contact"},
	}
	for _, p := range public {
		req := httptest.NewRequest(p.method, p.path, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if !Skipper(c) {
			t.Errorf("expected %s %s to be public", p.method, p.path)
		}
	}

	protected := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/contact"},
		{http.MethodGet, "/api/v1/patients/me"},
		{http.MethodDelete, "/api/v1/contact/123"},
	}
	for _, p := range protected {
		req := httptest.NewRequest(p.method, p.path, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if Skipper(c) {
			t.Errorf("expected %s %s to require auth", p.method, p.path)
		}
	}
}
