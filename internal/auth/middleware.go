package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
	"github.com/spec-kit/dashboard-gateway/internal/repository"
	apperrors "github.com/spec-kit/dashboard-gateway/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller of a bearer-protected route.
type Principal struct {
	AccountID string
	Role      domain.Role
	Account   *domain.Account
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
}

// NewAuthMiddleware constructs middleware. accounts may be nil, in which case
// the principal is built from token claims alone.
func NewAuthMiddleware(tokens *TokenManager, accounts repository.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, accounts: accounts}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}

	principal, err := m.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// Authenticate validates an access token and, when accounts are configured,
// loads its account and rejects missing or inactive ones.
func (m *AuthMiddleware) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := m.tokens.ParseAccessToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{AccountID: claims.Subject, Role: claims.Role}
	if m.accounts == nil {
		return principal, nil
	}

	account, err := m.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("account not found")
		}
		return nil, apperrors.MapError(err)
	}
	if !account.Active {
		return nil, apperrors.NewUnauthorized("account inactive")
	}
	principal.Account = account
	principal.Role = account.Role
	return principal, nil
}

// VerifyAccessToken lets the session guard apply the /auth/check rules
// in-process.
func (m *AuthMiddleware) VerifyAccessToken(ctx context.Context, token string) error {
	_, err := m.Authenticate(ctx, token)
	return err
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
