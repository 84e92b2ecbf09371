package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservices/internal/session"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// RequireRoute admits the caller only when one of routes is the reachable
// navigation root for their session.
func RequireRoute(routes ...session.Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, route := range routes {
			if session.Reachable(principal.Auth, route) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("not permitted for this account")
	}
}

// RequireCustomer is RequireRoute for the customer graph.
func RequireCustomer() fiber.Handler {
	return RequireRoute(session.RouteCustomerHome)
}

// RequireProfessional is RequireRoute for the professional graph.
func RequireProfessional() fiber.Handler {
	return RequireRoute(session.RouteProfessionalHome)
}

// RequireAny ensures the caller is authenticated in either role.
func RequireAny() fiber.Handler {
	return RequireRoute(session.RouteCustomerHome, session.RouteProfessionalHome)
}
