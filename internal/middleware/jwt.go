package middleware // reusable HTTP middleware shared by all route groups

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/peerview/peerview-api/internal/utils"
)

// Context keys populated by JWTAuth and consumed by RequireRole and
// the handlers.
const (
    CtxUserID = "user_id"
    CtxEmail  = "email"
    CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the resolved identity into the request context.
// The provided secret must match the one used when issuing tokens.
// Handlers behind this middleware read the identity via
// c.Get(CtxUserID) etc.
//
// Failure modes map onto the HTTP surface as follows: a missing or
// malformed Authorization header, a forged/undecodable token, and an
// expired token all produce 401, with a distinct body for expiry so
// clients know to re-authenticate.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                if errors.Is(err, utils.ErrTokenExpired) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxEmail, claims.Email)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}
