package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Session keys. The principal is stored as individual string fields so
// no session backend needs to encode a custom type.
const (
	keyUserID    = "user_id"
	keyUserName  = "user_name"
	keyUserEmail = "user_email"
	keyUserPhoto = "user_photo"
	keyState     = "oauth_state"
)

// Sessions wraps the Fiber session store with principal accessors.
type Sessions struct {
	store *session.Store
}

// NewSessions creates a session store with the given cookie lifetime.
func NewSessions(maxAge time.Duration) *Sessions {
	return &Sessions{
		store: session.New(session.Config{
			Expiration:     maxAge,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
	}
}

// Principal returns the authenticated principal for the request, if
// any.
func (s *Sessions) Principal(c *fiber.Ctx) (Principal, bool) {
	sess, err := s.store.Get(c)
	if err != nil {
		return Principal{}, false
	}

	id, _ := sess.Get(keyUserID).(string)
	if id == "" {
		return Principal{}, false
	}

	name, _ := sess.Get(keyUserName).(string)
	email, _ := sess.Get(keyUserEmail).(string)
	photo, _ := sess.Get(keyUserPhoto).(string)

	return Principal{ID: id, Name: name, Email: email, Photo: photo}, true
}

// SetPrincipal stores the principal in the request's session.
func (s *Sessions) SetPrincipal(c *fiber.Ctx, p Principal) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}

	sess.Set(keyUserID, p.ID)
	sess.Set(keyUserName, p.Name)
	sess.Set(keyUserEmail, p.Email)
	sess.Set(keyUserPhoto, p.Photo)
	sess.Delete(keyState)

	return sess.Save()
}

// SetState stores the OAuth state token for the pending login.
func (s *Sessions) SetState(c *fiber.Ctx, state string) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyState, state)
	return sess.Save()
}

// State returns the pending OAuth state token, if any.
func (s *Sessions) State(c *fiber.Ctx) string {
	sess, err := s.store.Get(c)
	if err != nil {
		return ""
	}
	state, _ := sess.Get(keyState).(string)
	return state
}

// Clear destroys the session, logging the user out.
func (s *Sessions) Clear(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
