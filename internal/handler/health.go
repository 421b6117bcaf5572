package handler // HTTP handlers for the PeerView API

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is the unauthenticated liveness probe used by load balancers
// and monitoring.
func Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "status":  "healthy",
        "service": "PeerView API",
        "version": "1.0",
    })
}
