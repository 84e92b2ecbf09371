package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservices/internal/api/dto"
	"github.com/spec-kit/homeservices/internal/service"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// ChatHandler manages job thread endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ListMessages GET /jobs/:id/messages.
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	msgs, err := h.chat.Thread(c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, messageResponse(m))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddMessage POST /jobs/:id/messages.
func (h *ChatHandler) AddMessage(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.chat.Send(c.UserContext(), c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}
