package middleware

// identity.go holds small helpers for reading the identity that
// JWTAuth stored in the request context. Handlers use these instead of
// repeating type assertions.

import "github.com/labstack/echo/v4"

// CurrentUserID returns the authenticated user's id, or "" when the
// request is unauthenticated.
func CurrentUserID(c echo.Context) string {
    if v, ok := c.Get(CtxUserID).(string); ok {
        return v
    }
    return ""
}

// CurrentRole returns the authenticated user's role, or "" when the
// request is unauthenticated.
func CurrentRole(c echo.Context) string {
    if v, ok := c.Get(CtxRole).(string); ok {
        return v
    }
    return ""
}
