package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"urlexport/internal/auth"
)

// SessionLocalKey is the key under which the verified *auth.SessionClaims are stored.
const SessionLocalKey = "session"

// Session rejects requests without a valid admin session with 401.
// The token is read from the named cookie, then from an "Authorization: Bearer" header.
func Session(m *auth.Manager, cookie string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookie)
		if token == "" {
			if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}

		claims, err := m.ParseSession(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, auth.ErrUnauthenticated.Error())
		}
		c.Locals(SessionLocalKey, claims)
		return c.Next()
	}
}

// SessionFrom returns the claims stored by Session, or nil.
func SessionFrom(c *fiber.Ctx) *auth.SessionClaims {
	claims, _ := c.Locals(SessionLocalKey).(*auth.SessionClaims)
	return claims
}
