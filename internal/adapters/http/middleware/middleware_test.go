package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nfc-cooperative/internal/config"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "middleware-secret"

func testApp(guards ...fiber.Handler) *fiber.App {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthMiddleware(cfg)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("username").(string))
	})
	app.Get("/", handlers...)
	return app
}

func tokenFor(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(9, "user-"+string(role), string(role), uint8(role.Permissions()), testSecret, 5)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return token
}

func status(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp.StatusCode
}

func TestAuthMiddlewareTokenSources(t *testing.T) {
	app := testApp()
	token := tokenFor(t, domain.RoleOperator)

	bearer := httptest.NewRequest(http.MethodGet, "/", nil)
	bearer.Header.Set("Authorization", "Bearer "+token)

	cookie := httptest.NewRequest(http.MethodGet, "/", nil)
	cookie.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	other, _ := jwt.GenerateAccessToken(9, "x", "Admin", 15, "another-secret", 5)
	forged.Header.Set("Authorization", "Bearer "+other)

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"bearer header", bearer, http.StatusOK},
		{"cookie", cookie, http.StatusOK},
		{"no token", httptest.NewRequest(http.MethodGet, "/", nil), http.StatusUnauthorized},
		{"wrong secret", forged, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status(t, app, tt.req); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPermissionGuards(t *testing.T) {
	tests := []struct {
		name  string
		guard fiber.Handler
		role  domain.Role
		want  int
	}{
		{"admin only lets admin in", AdminOnly(), domain.RoleAdmin, http.StatusOK},
		{"admin only blocks manager", AdminOnly(), domain.RoleManager, http.StatusForbidden},
		{"edit allows manager", RequirePermission(domain.PermEdit), domain.RoleManager, http.StatusOK},
		{"edit blocks operator", RequirePermission(domain.PermEdit), domain.RoleOperator, http.StatusForbidden},
		{"reports block operator", RequirePermission(domain.PermViewReports), domain.RoleOperator, http.StatusForbidden},
		{"any of operate or reports allows auditor", RequireAnyPermission(domain.PermOperate, domain.PermViewReports), domain.RoleAuditor, http.StatusOK},
		{"any of operate or reports allows operator", RequireAnyPermission(domain.PermOperate, domain.PermViewReports), domain.RoleOperator, http.StatusOK},
		{"any of edit or maintain blocks auditor", RequireAnyPermission(domain.PermEdit, domain.PermMaintain), domain.RoleAuditor, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tt.role))
			if got := status(t, testApp(tt.guard), req); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequirePermissionWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequirePermission(domain.PermOperate), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	if got := status(t, app, httptest.NewRequest(http.MethodGet, "/", nil)); got != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", got)
	}
}

func TestOptionalAuth(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	app := fiber.New()
	app.Get("/", OptionalAuth(cfg), func(c *fiber.Ctx) error {
		name, _ := c.Locals("username").(string)
		return c.SendString(name)
	})

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := status(t, app, anon); got != http.StatusOK {
		t.Errorf("anonymous status = %d", got)
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer garbage")
	if got := status(t, app, bad); got != http.StatusOK {
		t.Errorf("bad token status = %d, want 200", got)
	}
}

func TestCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/cached", NoCacheHeaders(), CacheControl(2*time.Minute), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fresh", NoCacheHeaders(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/cached", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(fiber.HeaderCacheControl); got != "private, max-age=120" {
		t.Errorf("cached Cache-Control = %q", got)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/fresh", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(fiber.HeaderCacheControl); got != "no-store, no-cache, must-revalidate" {
		t.Errorf("fresh Cache-Control = %q", got)
	}
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusTeapot, "short and stout") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	if got := status(t, app, httptest.NewRequest(http.MethodGet, "/teapot", nil)); got != http.StatusTeapot {
		t.Errorf("fiber error status = %d", got)
	}
	if got := status(t, app, httptest.NewRequest(http.MethodGet, "/boom", nil)); got != http.StatusInternalServerError {
		t.Errorf("plain error status = %d", got)
	}
	if got := status(t, app, httptest.NewRequest(http.MethodGet, "/missing", nil)); got != http.StatusNotFound {
		t.Errorf("unknown route status = %d", got)
	}
}
