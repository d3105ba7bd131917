package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sandunudayakantha/TransitEquity/internal/api/dto"
	"github.com/sandunudayakantha/TransitEquity/internal/auth"
	"github.com/sandunudayakantha/TransitEquity/internal/service"
	apperrors "github.com/sandunudayakantha/TransitEquity/pkg/util/errorutil"
)

// AuthHandler exposes registration, login, logout and the identity probe.
type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
}

// NewAuthHandler constructs handler. secureCookie should be true in
// production builds only.
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: authService, secureCookie: secureCookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if msg := req.Validate(); msg != "" {
		return apperrors.NewValidationError(msg, nil)
	}

	result, err := h.auth.Register(c.Context(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}

	if result.Pending {
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"message": "Account created successfully. Please wait for admin approval.",
			"user":    dto.NewUserResponse(result.User),
		})
	}

	// Token computed once, then delivered on both channels.
	auth.SetTokenCookie(c, result.Token, result.ExpiresAt, h.secureCookie)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"token": result.Token,
		"user":  dto.NewUserResponse(result.User),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	auth.SetTokenCookie(c, result.Token, result.ExpiresAt, h.secureCookie)
	return c.JSON(fiber.Map{
		"token": result.Token,
		"user":  dto.NewUserResponse(result.User),
	})
}

// Logout handles POST /api/auth/logout. Always succeeds, authenticated or not.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	auth.ClearTokenCookie(c, h.secureCookie)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authorized")
	}
	return c.JSON(dto.MeResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}
