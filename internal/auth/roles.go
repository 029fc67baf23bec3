package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dashboard-gateway/internal/access"
	"github.com/spec-kit/dashboard-gateway/internal/domain"
	apperrors "github.com/spec-kit/dashboard-gateway/pkg/util/errorutil"
)

// RequireAuthenticated only requires a bearer principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the bearer principal ranks at least as high as min.
func RequireRole(min domain.Role) fiber.Handler {
	return RequireAnyRole(min)
}

// RequireAnyRole ensures the bearer principal satisfies at least one of the
// given roles. An empty set denies everyone, like the session role gate.
func RequireAnyRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !access.HasAnyRole(principal.Role, roles...) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
