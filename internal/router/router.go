// Package router wires HTTP routes to their handlers and attaches the
// middleware each group needs.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/peerview/peerview-api/internal/config"
	"github.com/peerview/peerview-api/internal/handler"
	"github.com/peerview/peerview-api/internal/middleware"
	"github.com/peerview/peerview-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// The health check is used by load balancers and monitoring to verify
// the service is up; media downloads are public because question and
// answer documents carry the media URLs in the open.
func RegisterRoutes(e *echo.Echo, m *handler.MediaHandler) {
	e.GET("/health", handler.Health)
	e.GET("/v1/media/:name", m.Serve)
}

// RegisterAuth registers the account endpoints. Register and login live
// under /v1/auth without a token but behind the rate limiter, since
// they are the natural target for credential stuffing. /v1/users/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rl config.RateLimitConfig, rdb *redis.Client, jwtSecret string) {
	g := e.Group("/v1/auth", middleware.RateLimit(rl, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/users/me", a.Me)
}

// RegisterQuestions registers the question and answer endpoints. Every
// route requires a valid token; any role may post questions, while
// answering is restricted to teachers and admins. The paginated feed is
// served through the response cache when Redis is available.
func RegisterQuestions(e *echo.Echo, q *handler.QuestionHandler, a *handler.AnswerHandler, cache config.CacheConfig, rdb *redis.Client, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.GET("/questions", q.List, middleware.ResponseCache(cache, rdb))
	g.GET("/questions/:id", q.Get)
	g.POST("/questions", q.Create)
	g.PUT("/questions/:id", q.Update)
	g.DELETE("/questions/:id", q.Delete)

	answers := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
	)
	answers.POST("/questions/:id/answers", a.Create)
	answers.PUT("/answers/:id", a.Update)
	answers.DELETE("/answers/:id", a.Delete)
}

// RegisterMedia registers the authenticated upload endpoints. Tickets
// and uploads are open to any signed-in role; downloads are public and
// registered in RegisterRoutes.
func RegisterMedia(e *echo.Echo, m *handler.MediaHandler, jwtSecret string) {
	g := e.Group("/v1/media", middleware.JWTAuth(jwtSecret))
	g.POST("/upload-url", m.UploadURL)
	g.PUT("/:name", m.Upload)
}

// RegisterAdmin registers the moderation and administration endpoints
// under /v1/admin. The whole group is gated on the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/stats", a.Stats)
	g.POST("/moderation", a.Moderate)
	g.GET("/flagged-content", a.FlaggedContent)
	g.GET("/users", a.ListUsers)
	g.GET("/users/:id/activity", a.UserActivity)
	g.DELETE("/users/:id", a.DeactivateUser)
}
