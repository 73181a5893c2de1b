package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"reviewapi/internal/auth"
	"reviewapi/internal/model"
)

// PrincipalLocalKey is the key the authenticated principal is stored under in Fiber's context locals.
const PrincipalLocalKey = "principal"

// Authenticate resolves the caller from an "Authorization: Bearer <token>"
// header, falling back to the cookieName cookie, and rejects the request with
// 401 when no valid principal can be resolved.
func Authenticate(r auth.Resolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" && cookieName != "" {
			token = c.Cookies(cookieName)
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		p, err := r.Resolve(token)
		if err != nil || !p.Authenticated() {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}

		c.Locals(PrincipalLocalKey, p)
		return c.Next()
	}
}

// PrincipalFromCtx returns the principal stored by Authenticate, or the zero
// Principal when the request is anonymous.
func PrincipalFromCtx(c *fiber.Ctx) model.Principal {
	p, _ := c.Locals(PrincipalLocalKey).(model.Principal)
	return p
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
