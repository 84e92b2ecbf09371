package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservices/internal/api/dto"
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/service"
	"github.com/spec-kit/homeservices/internal/session"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// SessionHandler exposes sign-in, sign-up and sign-out.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// SignIn handles POST /session/signin.
func (h *SessionHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	res, err := h.sessions.SignIn(c.UserContext(), domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.UserRole(req.UserType),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(res)})
}

// SignUp handles POST /session/signup.
func (h *SessionHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	categories := make([]domain.ServiceCategory, 0, len(req.ServiceCategories))
	for _, raw := range req.ServiceCategories {
		categories = append(categories, domain.ServiceCategory(raw))
	}
	res, err := h.sessions.SignUp(c.UserContext(), domain.Registration{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Password:          req.Password,
		ConfirmPassword:   req.ConfirmPassword,
		Role:              domain.UserRole(req.UserType),
		Address:           req.Address,
		BusinessName:      req.BusinessName,
		LicenseNumber:     req.LicenseNumber,
		InsuranceNumber:   req.InsuranceNumber,
		ServiceCategories: categories,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": authResponse(res)})
}

// Route handles GET /session/route. It needs no token: an anonymous
// caller learns it is unauthenticated.
func (h *SessionHandler) Route(c *fiber.Ctx) error {
	route := h.sessions.Route()
	return c.JSON(fiber.Map{"data": dto.RouteResponse{
		Route:   string(route),
		Screens: session.Graph(route),
	}})
}

// Me handles GET /session/me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	user, err := h.sessions.Current()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// SignOut handles POST /session/signout.
func (h *SessionHandler) SignOut(c *fiber.Ctx) error {
	h.sessions.SignOut(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

func authResponse(res service.SessionResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Route:     string(res.Route),
		User:      userResponse(res.User),
	}
}
