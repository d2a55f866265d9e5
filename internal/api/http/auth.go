package httpapi

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"cityexplorer/internal/auth"
)

// RegisterAuthRoutes wires the session lifecycle endpoints: login
// initiation, provider callback, status check and logout.
func RegisterAuthRoutes(app *fiber.App, authenticator *auth.Authenticator, sessions *auth.Sessions) {
	grp := app.Group("/auth")

	grp.Get("/google", func(c *fiber.Ctx) error {
		state, redirectURL := authenticator.BeginLogin()
		if err := sessions.SetState(c, state); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to start login")
		}
		return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
	})

	grp.Get("/google/callback", func(c *fiber.Ctx) error {
		principal, err := authenticator.CompleteLogin(
			c.Context(),
			sessions.State(c),
			c.Query("state"),
			c.Query("code"),
		)
		if err != nil {
			log.Printf("auth: login failed: %v", err)
			return c.Redirect("/login-failed.html")
		}

		if err := sessions.SetPrincipal(c, principal); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to establish session")
		}
		return c.Redirect("/")
	})

	grp.Get("/status", func(c *fiber.Ctx) error {
		principal, ok := sessions.Principal(c)
		if !ok {
			return c.JSON(fiber.Map{
				"success":         true,
				"isAuthenticated": false,
				"user":            nil,
			})
		}

		return c.JSON(fiber.Map{
			"success":         true,
			"isAuthenticated": true,
			"user":            principal,
		})
	})

	grp.Get("/logout", func(c *fiber.Ctx) error {
		if err := sessions.Clear(c); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "error logging out")
		}
		return c.Redirect("/")
	})
}
