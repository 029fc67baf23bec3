package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dashboard-gateway/internal/api/dto"
	"github.com/spec-kit/dashboard-gateway/internal/session"
)

// ViewsHandler serves the dashboard views once the guards let a request through.
type ViewsHandler struct{}

// NewViewsHandler constructs handler.
func NewViewsHandler() *ViewsHandler {
	return &ViewsHandler{}
}

// Render returns the handler for the named view.
func (h *ViewsHandler) Render(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := dto.ViewResponse{View: name}
		if store, ok := session.FromContext(c); ok {
			if sess, ok := store.Session(); ok {
				resp.UserID = sess.UserID
				resp.Role = sess.Role
			}
		}
		return c.JSON(fiber.Map{"data": resp})
	}
}
