package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"nfc-cooperative/internal/adapters/http/middleware"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/config"
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	password.Cost = bcrypt.MinCost

	cfg := &config.Config{
		AppMode:  "dev",
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "api.db")},
		JWT: config.JWTConfig{
			Secret:           "routes-test-secret",
			RefreshSecret:    "routes-test-refresh",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
		Seed:   config.SeedConfig{AdminUsername: "admin", AdminPassword: "admin123456"},
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { config.CloseDatabase() })
	if err := config.Migrate(db, cfg.Seed); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, services.New(repositories.NewStore(db), cfg), cfg)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func login(t *testing.T, app *fiber.App, username, pass string) string {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"username": username, "password": pass})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d (%s)", username, status, env.Error)
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		t.Fatalf("login %s: no access token in %s", username, env.Data)
	}
	return data.AccessToken
}

func TestHealthAndInfo(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	if status, _ := call(t, app, http.MethodGet, "/api/v1/", "", nil); status != http.StatusOK {
		t.Errorf("api info status = %d", status)
	}
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		method string
		path   string
		token  string
	}{
		{http.MethodGet, "/api/v1/members", ""},
		{http.MethodGet, "/api/v1/auth/me", ""},
		{http.MethodGet, "/api/v1/loans", "not-a-jwt"},
	}
	for _, tt := range tests {
		if status, _ := call(t, app, tt.method, tt.path, tt.token, nil); status != http.StatusUnauthorized {
			t.Errorf("%s %s: status %d, want 401", tt.method, tt.path, status)
		}
	}

	if status, env := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"username": "admin", "password": "wrong123"}); status != http.StatusUnauthorized {
		t.Errorf("bad login: status %d (%s)", status, env.Error)
	}
}

func TestMemberFlowAndPermissions(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "admin", "admin123456")

	status, env := call(t, app, http.MethodPost, "/api/v1/users", admin, fiber.Map{
		"username": "teller", "password": "teller1234", "full_name": "Teller", "role": "Operator",
	})
	if status != http.StatusCreated {
		t.Fatalf("create operator: status %d (%s)", status, env.Error)
	}
	teller := login(t, app, "teller", "teller1234")

	if status, _ := call(t, app, http.MethodPost, "/api/v1/stations", teller, fiber.Map{"city": "Lagos"}); status != http.StatusForbidden {
		t.Errorf("operator creates station: status %d, want 403", status)
	}
	if status, env := call(t, app, http.MethodPost, "/api/v1/stations", admin, fiber.Map{"city": "Lagos"}); status != http.StatusCreated {
		t.Fatalf("admin creates station: status %d (%s)", status, env.Error)
	}

	status, env = call(t, app, http.MethodPost, "/api/v1/members", teller, fiber.Map{"station_id": "01", "full_name": "Ada Obi", "gender": "Female"})
	if status != http.StatusCreated {
		t.Fatalf("register member: status %d (%s)", status, env.Error)
	}
	var created struct {
		MemberID string `json:"member_id"`
		FullName string `json:"full_name"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode member: %v", err)
	}
	if created.MemberID != "NFC0001" || created.FullName != "Ada Obi" {
		t.Errorf("member = %+v, want NFC0001 Ada Obi", created)
	}

	checks := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"operator reads member", http.MethodGet, "/api/v1/members/NFC0001", teller, nil, http.StatusOK},
		{"missing member", http.MethodGet, "/api/v1/members/NFC0099", teller, nil, http.StatusNotFound},
		{"operator cannot edit status", http.MethodPatch, "/api/v1/members/NFC0001/status", teller, fiber.Map{"status": "inactive"}, http.StatusForbidden},
		{"operator cannot see reports", http.MethodGet, "/api/v1/reports/dashboard", teller, nil, http.StatusForbidden},
		{"operator cannot change settings", http.MethodPut, "/api/v1/settings/death_benefit_amount", teller, fiber.Map{"value": "2000"}, http.StatusForbidden},
		{"admin sees reports", http.MethodGet, "/api/v1/reports/dashboard", admin, nil, http.StatusOK},
		{"counter setting is read only", http.MethodPut, "/api/v1/settings/next_member_number", admin, fiber.Map{"value": "50"}, http.StatusUnprocessableEntity},
		{"open premium account", http.MethodPost, "/api/v1/savings", teller, fiber.Map{"member_id": "NFC0001", "type_code": "PREMIUM"}, http.StatusCreated},
		{"duplicate account", http.MethodPost, "/api/v1/savings", teller, fiber.Map{"member_id": "NFC0001", "type_code": "PREMIUM"}, http.StatusConflict},
		{"loan quote", http.MethodGet, "/api/v1/loans/quote?loan_type_id=1&principal=100000&months=24", teller, nil, http.StatusOK},
	}
	for _, tt := range checks {
		t.Run(tt.name, func(t *testing.T) {
			if status, env := call(t, app, tt.method, tt.path, tt.token, tt.body); status != tt.want {
				t.Errorf("status %d, want %d (%s)", status, tt.want, env.Error)
			}
		})
	}
}
