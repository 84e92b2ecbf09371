package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservices/internal/api/dto"
	"github.com/spec-kit/homeservices/internal/auth"
	"github.com/spec-kit/homeservices/internal/service"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// PaymentsHandler exposes charging and the notification inbox.
type PaymentsHandler struct {
	payments      *service.PaymentService
	notifications *service.NotificationService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService, notifications *service.NotificationService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments, notifications: notifications}
}

// Charge POST /jobs/:id/payments.
func (h *PaymentsHandler) Charge(c *fiber.Ctx) error {
	payment, err := h.payments.Charge(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": paymentResponse(payment)})
}

// ListPayments GET /jobs/:id/payments.
func (h *PaymentsHandler) ListPayments(c *fiber.Ctx) error {
	history, err := h.payments.History(c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.PaymentResponse, 0, len(history))
	for _, p := range history {
		items = append(items, paymentResponse(p))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Notifications GET /notifications.
func (h *PaymentsHandler) Notifications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	inbox := h.notifications.Inbox(principal.User.ID)
	items := make([]dto.NotificationResponse, 0, len(inbox))
	for _, n := range inbox {
		items = append(items, notificationResponse(n))
	}
	return c.JSON(fiber.Map{"data": items, "unread": h.notifications.Unread(principal.User.ID)})
}
