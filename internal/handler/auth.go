package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peerview/peerview-api/internal/config"
	"github.com/peerview/peerview-api/internal/middleware"
	"github.com/peerview/peerview-api/internal/model"
	"github.com/peerview/peerview-api/internal/repository"
	"github.com/peerview/peerview-api/internal/utils"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"` // student | teacher; defaults to student
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResp is the wire shape of a user. The password hash never leaves
// the repository layer.
type userResp struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`
}

type authResp struct {
	User  userResp `json:"user"`
	Token string   `json:"token"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		IsActive:  u.IsActive,
	}
}

// Register creates a student or teacher account and returns the user
// together with a fresh access token. Admin accounts cannot be
// self-registered.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and fullName required"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleStudent
	}
	if role != model.RoleStudent && role != model.RoleTeacher {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be student or teacher"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Password, strings.TrimSpace(req.FullName), role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, authResp{User: toUserResp(u), Token: access.Token})
}

// Login verifies credentials and returns the user with a new token.
// Unknown email, wrong password and deactivated account produce the
// same response so accounts cannot be enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{User: toUserResp(u), Token: access.Token})
}

// Me returns the authenticated user's profile, re-read from the
// credential store rather than echoed from token claims.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}
