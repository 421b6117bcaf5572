package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRole(t *testing.T, role string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/moderation", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(CtxRole, role)
	}

	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	if rec := runRole(t, "admin", "admin"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := runRole(t, "teacher", "teacher", "admin"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRoleRejects(t *testing.T) {
	if rec := runRole(t, "student", "teacher", "admin"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleFailsClosed(t *testing.T) {
	// No role in context at all, e.g. route registered without JWTAuth.
	if rec := runRole(t, "", "admin"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
