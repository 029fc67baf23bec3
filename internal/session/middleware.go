package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const storeKey = "session_store"

// CookieConfig controls the browser-context cookie.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Middleware resolves the caller's browser context from its cookie, minting a
// new one when missing or malformed, and attaches an unhydrated Store.
func Middleware(m *Manager, cfg CookieConfig) fiber.Handler {
	name := cfg.Name
	if name == "" {
		name = "sid"
	}
	return func(c *fiber.Ctx) error {
		id := c.Cookies(name)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     name,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				Secure:   cfg.Secure,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(storeKey, m.Open(id))
		return c.Next()
	}
}

// FromContext returns the store attached by Middleware.
func FromContext(c *fiber.Ctx) (*Store, bool) {
	store, ok := c.Locals(storeKey).(*Store)
	return store, ok && store != nil
}
