package auth

import (
	"database/sql"
	"errors"
	"time"

	"retail-transfers/app/routes/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) LoginAPI(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		h.log.Error("failed to load user", zap.String("email", req.Email), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Database error")
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	roles, err := h.store.GetUserRoles(user.ID)
	if err != nil {
		h.log.Error("failed to load roles", zap.String("user_id", user.ID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get user roles")
	}
	user.Roles = roles

	token, err := h.signer.GenerateJWT(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
	})

	h.log.Info("user logged in", zap.String("user_id", user.ID))
	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	}, "Login successful")
}

func (h *Handler) LogoutAPI(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return response.JSON(c, fiber.StatusOK, nil, "Logged out")
}

func (h *Handler) MeAPI(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{"user": CurrentUser(c)})
}

func (h *Handler) ChangePasswordAPI(c *fiber.Ctx) error {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	if len(req.NewPassword) < 8 {
		return response.Invalid(c, map[string]string{"new_password": "must be at least 8 characters"})
	}

	caller := CurrentUser(c)
	user, err := h.store.GetUserByEmail(caller.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Database error")
	}

	if !CheckPasswordHash(req.CurrentPassword, user.Password) {
		return fiber.NewError(fiber.StatusBadRequest, "Current password is incorrect")
	}

	hashedPassword, err := HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	if err := h.store.UpdateUserPassword(user.ID, hashedPassword); err != nil {
		h.log.Error("failed to update password", zap.String("user_id", user.ID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update password")
	}

	return response.JSON(c, fiber.StatusOK, nil, "Password changed successfully")
}
