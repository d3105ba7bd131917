package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sandunudayakantha/TransitEquity/internal/api/dto"
	"github.com/sandunudayakantha/TransitEquity/internal/service"
)

// UsersHandler exposes the administrative account endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserListResponse(users))
}

// ListPending handles GET /api/users/pending.
func (h *UsersHandler) ListPending(c *fiber.Ctx) error {
	users, err := h.users.ListPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserListResponse(users))
}

// Approve handles PUT /api/users/:id/approve.
func (h *UsersHandler) Approve(c *fiber.Ctx) error {
	user, err := h.users.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
