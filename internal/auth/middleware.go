package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/store"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User   domain.User
	Claims *Claims
	// Auth is the auth slice the request was admitted under.
	Auth store.AuthState
}

// SessionSource exposes the current application snapshot.
type SessionSource interface {
	State() *store.State
}

// AuthMiddleware validates bearer tokens against the live session.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionSource
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionSource) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes. A valid token is not
// enough: its subject must still be the signed-in user.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	snapshot := m.sessions.State()
	user, ok := snapshot.CurrentUser()
	if !ok || user.ID != claims.Subject || user.Role() != claims.Role {
		return apperrors.NewUnauthorized("session is no longer active")
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims, Auth: snapshot.Auth})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
