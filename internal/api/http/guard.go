package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/dashboard-gateway/internal/access"
	"github.com/spec-kit/dashboard-gateway/internal/domain"
	"github.com/spec-kit/dashboard-gateway/internal/session"
	apperrors "github.com/spec-kit/dashboard-gateway/pkg/util/errorutil"
)

const authorizerKey = "access_authorizer"

type fiberNavigator struct {
	c *fiber.Ctx
}

func (n fiberNavigator) Redirect(path string) {
	_ = n.c.Redirect(path, fiber.StatusFound)
}

// PageGuard gates a view behind a validated session. It hydrates the
// browser-context store first; a store that cannot load in time is answered
// as pending (503, empty body) rather than as logged out.
func PageGuard(ctrl *access.Controller, hydrateTimeout time.Duration, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, ok := session.FromContext(c)
		if !ok {
			return apperrors.NewInternalError(nil)
		}

		if !ctrl.IsPublic(c.Path()) {
			ctx, cancel := context.WithTimeout(c.UserContext(), hydrateTimeout)
			err := store.Hydrate(ctx)
			cancel()
			if err != nil {
				logger.Warn("session hydration failed", zap.Error(err))
			}
		}

		authz := ctrl.Authorizer(store)
		result := ctrl.Guard(c.UserContext(), authz, c.Path(), fiberNavigator{c: c})
		switch result.Status {
		case domain.GuardAuthorized:
			c.Locals(authorizerKey, authz)
			return c.Next()
		case domain.GuardPending:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.SendStatus(fiber.StatusServiceUnavailable)
		default:
			// Guard already issued the redirect.
			return nil
		}
	}
}

// RoleGate renders the access-denied fallback unless the session satisfies
// at least one of required. It must run after PageGuard.
func RoleGate(ctrl *access.Controller, required ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz, ok := c.Locals(authorizerKey).(*access.Authorizer)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		result := ctrl.RoleGate(c.UserContext(), authz, c.Path(), required...)
		if !result.IsAuthorized() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "ACCESS_DENIED",
					"message": "you do not have access to this section",
				},
			})
		}
		return c.Next()
	}
}
