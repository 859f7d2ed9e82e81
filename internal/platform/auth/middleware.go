package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserKey  contextKey = "auth_user"
	RolesKey contextKey = "auth_roles"
)

// Role identifiers carried in token claims. A principal's role is fixed at
// registration; admin is granted by configuration on top of the base role.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Middleware extracts and verifies the bearer token on each request and
// stores the subject and roles on the request context. Requests for which
// skipper returns true bypass authentication entirely.
func Middleware(codec *TokenCodec, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := codec.Verify(parts[1])
			if err != nil {
				// The client gets a uniform 401; the audit log keeps the
				// specific failure kind for operators.
				logAuthFailure(c, err)
				if errors.Is(err, ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserKey, claims.Subject)
			ctx = context.WithValue(ctx, RolesKey, claims.Roles)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// logAuthFailure stashes the failure kind on the echo context; the request
// logger emits it as the auth_failure field.
func logAuthFailure(c echo.Context, err error) {
	kind := "invalid_signature"
	switch {
	case errors.Is(err, ErrTokenExpired):
		kind = "expired"
	case errors.Is(err, ErrTokenMalformed):
		kind = "malformed"
	}
	c.Set("auth_failure", kind)
}

// UsernameFromContext returns the verified token subject, or "".
func UsernameFromContext(ctx context.Context) string {
	u, _ := ctx.Value(UserKey).(string)
	return u
}

// RolesFromContext returns the verified token roles.
func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(RolesKey).([]string)
	return roles
}

// HasRole reports whether the request context carries the given role.
// Admin satisfies every role check.
func HasRole(ctx context.Context, role string) bool {
	for _, r := range RolesFromContext(ctx) {
		if r == role || r == RoleAdmin {
			return true
		}
	}
	return false
}
