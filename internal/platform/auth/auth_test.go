package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

func issueTestToken(t *testing.T, role string) string {
	t.Helper()
	issuer := NewTokenIssuer(testSecret, time.Hour)
	token, err := issuer.Issue(uuid.New(), "Dr Test", role)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return token
}

func TestMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "docteur"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if role := RoleFromContext(c.Request().Context()); role != "docteur" {
			t.Errorf("expected role docteur, got %q", role)
		}
		return c.String(http.StatusOK, "ok")
	}

	if err := Middleware(testSecret)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_MissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return nil }
	err := Middleware(testSecret)(handler)(c)
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddleware_WrongSecret(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "docteur"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return nil }
	if err := Middleware([]byte("other-secret"))(handler)(c); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, -time.Minute)
	token, err := issuer.Issue(uuid.New(), "Dr Test", "docteur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return nil }
	if err := Middleware(testSecret)(handler)(c); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "secretaire"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	chained := Middleware(testSecret)(RequireRole("secretaire")(handler))
	if err := chained(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "admin"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	chained := Middleware(testSecret)(RequireRole("docteur")(handler))
	if err := chained(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_RejectsOtherRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "secretaire"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	chained := Middleware(testSecret)(RequireRole("docteur")(handler))
	err := chained(c)
	if err == nil {
		t.Fatal("expected error for role mismatch")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}
