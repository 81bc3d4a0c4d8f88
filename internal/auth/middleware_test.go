package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quantix-backend/internal/config"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	protected := app.Group("", JWTMiddleware(cfg))
	protected.Get("/whoami", func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": userID})
	})
	protected.Get("/admin-only", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
}

func TestMissingTokenRejected(t *testing.T) {
	app := testApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestMalformedAuthorizationHeaderRejected(t *testing.T) {
	app := testApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	app := testApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestValidTokenAccepted(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	user := &models.User{ID: 42, Email: "staff@example.com", Role: models.RoleStaff}
	token, err := GenerateToken(cfg.JWTSecret, user)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestTokenSignedWithWrongSecretRejected(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	user := &models.User{ID: 1, Email: "a@example.com", Role: models.RoleStaff}
	token, err := GenerateToken("ffffffffffffffffffffffffffffffff", user)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRequireRoleBlocksStaff(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	staff := &models.User{ID: 2, Email: "staff@example.com", Role: models.RoleStaff}
	staffToken, err := GenerateToken(cfg.JWTSecret, staff)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}

	admin := &models.User{ID: 3, Email: "admin@example.com", Role: models.RoleAdmin}
	adminToken, err := GenerateToken(cfg.JWTSecret, admin)
	if err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
