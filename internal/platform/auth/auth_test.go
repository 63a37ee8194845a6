package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func testConfig() Config {
	return Config{
		SigningKey: []byte("test-signing-key"),
		Issuer:     "carehome",
		TokenTTL:   time.Hour,
	}
}

func TestIssueToken_RoundTrip(t *testing.T) {
	cfg := testConfig()
	tok, err := IssueToken(cfg, "n1", "Alice", "nurse")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		ctx := c.Request().Context()
		if got := StaffIDFromContext(ctx); got != "n1" {
			t.Errorf("staff id = %q, want n1", got)
		}
		if got := RoleFromContext(ctx); got != "nurse" {
			t.Errorf("role = %q, want nurse", got)
		}
		return c.NoContent(http.StatusOK)
	}

	if err := JWTMiddleware(cfg)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTMiddleware(testConfig())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	tok, err := IssueToken(Config{SigningKey: []byte("other-key"), TokenTTL: time.Hour}, "n1", "Alice", "nurse")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = JWTMiddleware(testConfig())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.TokenTTL = -time.Minute
	tok, err := IssueToken(cfg, "n1", "Alice", "nurse")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = JWTMiddleware(testConfig())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestDevAuthMiddleware_Defaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := DevAuthMiddleware()(func(c echo.Context) error {
		ctx := c.Request().Context()
		if got := StaffIDFromContext(ctx); got != "dev-user" {
			t.Errorf("staff id = %q, want dev-user", got)
		}
		if got := RoleFromContext(ctx); got != "manager" {
			t.Errorf("role = %q, want manager", got)
		}
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func requestWithRole(t *testing.T, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	cfg := testConfig()
	tok, err := IssueToken(cfg, "s1", "Someone", role)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		required []string
		allowed  bool
	}{
		{"exact match", "nurse", []string{"nurse"}, true},
		{"one of several", "doctor", []string{"doctor", "nurse"}, true},
		{"manager override", "manager", []string{"nurse"}, true},
		{"wrong role", "nurse", []string{"doctor"}, false},
		{"no role", "", []string{"manager"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := requestWithRole(t, tt.role)

			chain := JWTMiddleware(testConfig())(RequireRole(tt.required...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}))

			err := chain(c)
			if tt.allowed {
				if err != nil {
					t.Fatalf("expected access, got %v", err)
				}
				return
			}
			httpErr, ok := err.(*echo.HTTPError)
			if !ok || httpErr.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %v", err)
			}
		})
	}
}
