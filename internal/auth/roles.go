package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sandunudayakantha/TransitEquity/internal/domain"
	apperrors "github.com/sandunudayakantha/TransitEquity/pkg/util/errorutil"
)

// RequireRole ensures the authenticated user holds one of the allowed roles.
// Must run after Protect; a missing principal means the chain is mis-wired
// and fails closed as unauthenticated.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		user, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("not authorized")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[user.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
