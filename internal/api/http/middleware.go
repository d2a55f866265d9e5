package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"cityexplorer/internal/auth"
)

const principalKey = "principal"

// PrincipalResolver yields the authenticated principal for a request,
// if any. Satisfied by auth.Sessions.
type PrincipalResolver interface {
	Principal(c *fiber.Ctx) (auth.Principal, bool)
}

// Gate is the two-check auth gate protecting the record routes: a
// shared-secret header and a session-backed identity.
type Gate struct {
	apiKey   string
	sessions PrincipalResolver
}

// NewGate creates a Gate around the server-held API key and a session
// resolver.
func NewGate(apiKey string, sessions PrincipalResolver) *Gate {
	return &Gate{apiKey: apiKey, sessions: sessions}
}

// RequireAuth checks the x-api-key header first (no session lookup
// needed), then the session principal. Either failure short-circuits;
// success attaches the principal for downstream handlers.
func (g *Gate) RequireAuth(c *fiber.Ctx) error {
	key := c.Get("x-api-key")
	if key == "" || key != g.apiKey {
		return fiber.NewError(fiber.StatusForbidden, "invalid or missing API key")
	}

	principal, ok := g.sessions.Principal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "please login with Google OAuth")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

func principalFrom(c *fiber.Ctx) auth.Principal {
	p, _ := c.Locals(principalKey).(auth.Principal)
	return p
}
