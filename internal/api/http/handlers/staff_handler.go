package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/protekweb/support-chatbot/internal/api/dto"
	"github.com/protekweb/support-chatbot/internal/service"
)

// StaffHandler exposes staff authentication endpoints.
type StaffHandler struct {
	authService *service.StaffAuthService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.StaffAuthService) *StaffHandler {
	return &StaffHandler{authService: authService}
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	agent, token, exp, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"agent": dto.NewAgentResponse(agent),
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
