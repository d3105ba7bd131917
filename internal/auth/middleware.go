package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/sandunudayakantha/TransitEquity/internal/domain"
	"github.com/sandunudayakantha/TransitEquity/internal/repository"
	apperrors "github.com/sandunudayakantha/TransitEquity/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Middleware validates bearer tokens and loads the authenticated user.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Protect enforces authentication for protected routes. The token is read
// from the jwt cookie first, falling back to an Authorization: Bearer header;
// the cookie wins when both are present. Any missing, invalid or expired
// token is a uniform 401 so clients cannot distinguish the failure reason.
func (m *Middleware) Protect(c *fiber.Ctx) error {
	tokenStr := extractToken(c)
	if tokenStr == "" {
		return apperrors.NewUnauthenticated("not authorized, no token")
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return apperrors.NewUnauthenticated("not authorized, token failed")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthenticated("not authorized, user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, user)
	return c.Next()
}

func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(TokenCookieName); cookie != "" {
		return cookie
	}
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// PrincipalFromContext retrieves the authenticated user.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
