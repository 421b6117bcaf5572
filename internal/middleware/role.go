package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the
// authenticated user has one of the specified roles. It only consults
// the context value stored by JWTAuth; when that value is absent (the
// auth stage was skipped) the check fails closed with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get(CtxRole).(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
