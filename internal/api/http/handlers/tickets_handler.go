package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/protekweb/support-chatbot/internal/api/dto"
	"github.com/protekweb/support-chatbot/internal/domain"
	"github.com/protekweb/support-chatbot/internal/repository"
	"github.com/protekweb/support-chatbot/internal/service"
	apperrors "github.com/protekweb/support-chatbot/pkg/util"
)

var allowedStatusUpdates = map[domain.TicketStatus]struct{}{
	domain.TicketStatusOpen:      {},
	domain.TicketStatusEscalated: {},
	domain.TicketStatusForwarded: {},
	domain.TicketStatusResolved:  {},
	domain.TicketStatusClosed:    {},
}

// TicketsHandler exposes staff ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// ListOpen handles GET /tickets/open.
func (h *TicketsHandler) ListOpen(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListOpen(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketListResponse(tickets)})
}

// GetByID handles GET /tickets/:id.
func (h *TicketsHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	ticket, err := h.tickets.GetByID(c.UserContext(), id)
	if err != nil {
		if err == repository.ErrTicketNotFound {
			return apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListByCustomer handles GET /customers/:customerID/tickets.
func (h *TicketsHandler) ListByCustomer(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListByCustomer(c.UserContext(), c.Params("customerID"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketListResponse(tickets)})
}

// UpdateStatus handles PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.TicketStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	status := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if _, ok := allowedStatusUpdates[status]; !ok {
		return apperrors.NewValidationError("unsupported status", map[string]any{"status": req.Status})
	}

	id := c.Params("id")
	if err := h.tickets.UpdateStatus(c.UserContext(), id, status, req.Note); err != nil {
		if err == repository.ErrTicketNotFound {
			return apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	ticket, err := h.tickets.GetByID(c.UserContext(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}
