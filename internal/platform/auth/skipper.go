package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that bypass authentication: infrastructure
// endpoints, registration/login, and the public contact form.
var publicPaths = map[string]bool{
	"/health":                       true,
	"/health/db":                    true,
	"/api/v1/auth/login":            true,
	"/api/v1/auth/register/patient": true,
	"/api/v1/auth/register/doctor":  true,
}

// Skipper returns true for requests whose path should skip authentication.
// POST /api/v1/contact is public (anyone may submit the form); every other
// contact operation requires admin and stays behind auth.
func Skipper(c echo.Context) bool {
	path := c.Request().URL.Path
	if publicPaths[path] {
		return true
	}
	if c.Request().Method == "POST" && strings.TrimSuffix(path, "/") == "/api/v1/contact" {
		return true
	}
	return false
}
