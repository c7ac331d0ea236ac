package middleware

import (
	"strings"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenVerifier validates a session token and returns the subject.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// AuthMiddleware guards the admin routes with bearer token auth.
type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token and stores
// the authenticated username in c.Locals("admin_user").
func (m *AuthMiddleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			appErr := models.NewAuthenticationError("Authentication required")
			return c.Status(appErr.StatusCode).JSON(fiber.Map{
				"error":  appErr.Message,
				"status": "error",
				"type":   string(appErr.Type),
			})
		}

		username, err := m.verifier.VerifyToken(token)
		if err != nil {
			appErr := models.NewAuthenticationError("Invalid or expired token")
			return c.Status(appErr.StatusCode).JSON(fiber.Map{
				"error":  appErr.Message,
				"status": "error",
				"type":   string(appErr.Type),
			})
		}

		c.Locals("admin_user", username)
		return c.Next()
	}
}

// AdminUser returns the authenticated username set by RequireAuth.
func AdminUser(c *fiber.Ctx) string {
	if username, ok := c.Locals("admin_user").(string); ok {
		return username
	}
	return ""
}

func extractToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return strings.TrimSpace(header)
}
