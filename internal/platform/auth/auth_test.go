package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("0499370899", "سارا محمدی", RoleSecretary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "0499370899" {
		t.Errorf("expected subject 0499370899, got %s", claims.Subject)
	}
	if claims.Role != RoleSecretary {
		t.Errorf("expected role %s, got %s", RoleSecretary, claims.Role)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue("0499370899", "x", RoleNurse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Error("expected parse failure with wrong secret")
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, err := issuer.Issue("0499370899", "x", RoleDoctor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := issuer.Parse(token); err == nil {
		t.Error("expected parse failure for expired token")
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware(issuer)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_SetsContext(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, _ := issuer.Issue("0499370899", "دکتر احمدی", RoleDoctor)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware(issuer)(func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != "0499370899" {
			t.Errorf("unexpected user id: %s", UserIDFromContext(ctx))
		}
		if RoleFromContext(ctx) != RoleDoctor {
			t.Errorf("unexpected role: %s", RoleFromContext(ctx))
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func requestWithRole(t *testing.T, role string) echo.Context {
	t.Helper()
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, _ := issuer.Issue("0499370899", "x", role)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Run the JWT middleware to populate the request context.
	mw := JWTMiddleware(issuer)(func(c echo.Context) error { return nil })
	if err := mw(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return c
}

func TestRequireRole_Allowed(t *testing.T) {
	c := requestWithRole(t, RoleSecretary)
	handler := RequireRole(RoleSecretary)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	c := requestWithRole(t, RoleNurse)
	handler := RequireRole(RoleSecretary)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	c := requestWithRole(t, RoleAdmin)
	handler := RequireRole(RoleDoctor)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Errorf("expected admin to pass any role check, got %v", err)
	}
}
