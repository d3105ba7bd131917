package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// TokenCookieName is the cookie carrying the signed credential for browser
// clients; programmatic clients read the same token from the response body.
const TokenCookieName = "jwt"

// SetTokenCookie attaches the token to the response as an httpOnly cookie.
// The cookie expires together with the token.
func SetTokenCookie(c *fiber.Ctx, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearTokenCookie overwrites the credential cookie with an empty value that
// expired at the epoch. Safe to call for unauthenticated callers.
func ClearTokenCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
