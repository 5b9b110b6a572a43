package auth

import (
	"strings"

	"retail-transfers/app/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	store        UserStore
	signer       *Signer
	log          *zap.Logger
	secureCookie bool
}

func NewHandler(store UserStore, signer *Signer, log *zap.Logger, secureCookie bool) *Handler {
	return &Handler{store: store, signer: signer, log: log, secureCookie: secureCookie}
}

func SetupAuthRoutes(router fiber.Router, h *Handler) {
	auth := router.Group("/auth")

	// Public routes
	auth.Post("/login", h.LoginAPI)
	auth.Post("/logout", h.LogoutAPI)

	// Protected routes
	auth.Use(h.AuthMiddleware)
	auth.Get("/me", h.MeAPI)
	auth.Post("/change-password", h.ChangePasswordAPI)
}

// AuthMiddleware validates JWT and sets user context
func (h *Handler) AuthMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies(CookieName)
	if tokenString == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			tokenString = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	if tokenString == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "No token found")
	}

	claims, err := h.signer.ValidateJWT(tokenString)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	user := claims.User()
	c.Locals("user_id", user.ID)
	c.Locals("user_roles", user.Roles)
	c.Locals("user", user)

	return c.Next()
}

// CurrentUser returns the caller set by AuthMiddleware, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// RoleMiddleware checks if user has required role
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRoles, _ := c.Locals("user_roles").([]*models.Role)

		for _, userRole := range userRoles {
			for _, allowedRole := range allowedRoles {
				if userRole.Name == allowedRole {
					return c.Next()
				}
			}
		}

		return fiber.NewError(fiber.StatusForbidden, "Insufficient permissions")
	}
}
