package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/protekweb/support-chatbot/internal/api/dto"
	"github.com/protekweb/support-chatbot/internal/repository"
	"github.com/protekweb/support-chatbot/internal/service"
	apperrors "github.com/protekweb/support-chatbot/pkg/util"
)

// ConversationHandler exposes the dialogue engine over HTTP: a JSON chat
// endpoint and an SMS webhook in the form-encoded shape SMS providers post.
type ConversationHandler struct {
	conversations *service.ConversationService
}

// NewConversationHandler constructs handler.
func NewConversationHandler(conversations *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// Chat handles POST /chat.
func (h *ConversationHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.CallerID) == "" || strings.TrimSpace(req.Text) == "" {
		return fiber.NewError(http.StatusBadRequest, "caller_id and text required")
	}

	reply, err := h.conversations.HandleMessage(c.UserContext(), req.CallerID, req.Text)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.ChatResponse{
		CallerID: req.CallerID,
		Reply:    reply,
	}})
}

// SMSWebhook handles POST /webhook/sms. The provider posts form fields From
// and Body; the plain-text response body is sent back to the caller.
func (h *ConversationHandler) SMSWebhook(c *fiber.Ctx) error {
	from := strings.TrimSpace(c.FormValue("From"))
	body := strings.TrimSpace(c.FormValue("Body"))
	if from == "" || body == "" {
		return fiber.NewError(http.StatusBadRequest, "From and Body required")
	}

	reply, err := h.conversations.HandleMessage(c.UserContext(), from, body)
	if err != nil {
		return apperrors.MapError(err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(reply)
}

// GetSession handles GET /sessions/:callerID for staff review.
func (h *ConversationHandler) GetSession(c *fiber.Ctx) error {
	callerID := c.Params("callerID")
	sess, err := h.conversations.GetSession(c.UserContext(), callerID)
	if err != nil {
		if err == repository.ErrSessionNotFound {
			return apperrors.NewNotFound("session", map[string]any{"caller_id": callerID})
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(sess)})
}

// EndSession handles DELETE /sessions/:callerID.
func (h *ConversationHandler) EndSession(c *fiber.Ctx) error {
	if err := h.conversations.EndSession(c.UserContext(), c.Params("callerID")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
