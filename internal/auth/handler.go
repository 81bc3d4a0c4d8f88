package auth

import (
	"strings"

	"quantix-backend/internal/config"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"` // "admin" requires an admin bearer token on the request
}

// resolveSignupRole decides the new account's role. The first account is
// always admin; later accounts are staff unless an authenticated admin
// explicitly asks for admin.
func resolveSignupRole(requested models.UserRole, existingUsers int64, callerIsAdmin bool) (models.UserRole, error) {
	if requested != "" && requested != models.RoleAdmin && requested != models.RoleStaff {
		return "", fiber.NewError(fiber.StatusBadRequest, "role must be admin or staff")
	}
	if existingUsers == 0 {
		return models.RoleAdmin, nil
	}
	if requested != models.RoleAdmin {
		return models.RoleStaff, nil
	}
	if !callerIsAdmin {
		return "", fiber.NewError(fiber.StatusForbidden, "Only an admin can create admin accounts")
	}
	return models.RoleAdmin, nil
}

// bearerIsAdmin reports whether the request carries a valid admin token.
// Signup is a public route, so the header is optional here.
func bearerIsAdmin(c *fiber.Ctx, cfg *config.Config) bool {
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return false
	}
	claims, err := ParseClaims(cfg.JWTSecret, parts[1])
	return err == nil && claims.Role == models.RoleAdmin
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/user/signup
func SignupHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SignupRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 8 characters")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Email is already registered")
		}

		var total int64
		database.DB.Model(&models.User{}).Count(&total)
		role, err := resolveSignupRole(body.Role, total, bearerIsAdmin(c, cfg))
		if err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         role,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
			"token": token,
		})
	}
}

// POST /api/user/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Incorrect email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Incorrect email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
			"token": token,
		})
	}
}

// GET /api/user/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(fiber.Map{
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
		})
	}
}
