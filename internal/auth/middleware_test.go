package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
	"github.com/spec-kit/dashboard-gateway/internal/repository"
	apperrors "github.com/spec-kit/dashboard-gateway/pkg/util/errorutil"
)

func newTestApp(mw *AuthMiddleware, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	handlers := append([]fiber.Handler{mw.Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(string(p.Role))
	})
	app.Get("/probe", handlers...)
	return app
}

func call(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("bearer  abc123 ")
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)

	for _, h := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		_, err := BearerToken(h)
		assert.Error(t, err, h)
	}
}

func TestMiddlewareClaimsOnly(t *testing.T) {
	tm := NewTokenManager("secret", 5, 60)
	token, _, err := tm.GenerateAccessToken("user-1", domain.RoleStaff)
	require.NoError(t, err)
	app := newTestApp(NewAuthMiddleware(tm, nil))

	assert.Equal(t, http.StatusOK, call(t, app, "Bearer "+token))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Bearer nope"))
}

func TestMiddlewareRejectsInactiveOrMissingAccounts(t *testing.T) {
	ctx := context.Background()
	tm := NewTokenManager("secret", 5, 60)
	repo := repository.NewMemoryAccountRepository()
	account := &domain.Account{Email: "a@x", Role: domain.RoleStaff, Active: true}
	require.NoError(t, repo.Create(ctx, account))
	app := newTestApp(NewAuthMiddleware(tm, repo))

	token, _, err := tm.GenerateAccessToken(account.ID, domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(t, app, "Bearer "+token))

	account.Active = false
	require.NoError(t, repo.Update(ctx, account))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Bearer "+token))

	ghost, _, err := tm.GenerateAccessToken("ghost", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Bearer "+ghost))
}

type brokenRepo struct{ repository.AccountRepository }

func (brokenRepo) GetByID(context.Context, string) (*domain.Account, error) {
	return nil, errors.New("connection reset")
}

func TestMiddlewareRepositoryFailureIsInternal(t *testing.T) {
	tm := NewTokenManager("secret", 5, 60)
	token, _, err := tm.GenerateAccessToken("user-1", domain.RoleStaff)
	require.NoError(t, err)
	app := newTestApp(NewAuthMiddleware(tm, brokenRepo{}))

	assert.Equal(t, http.StatusInternalServerError, call(t, app, "Bearer "+token))
}

func TestRequireRoleUsesAccountRole(t *testing.T) {
	ctx := context.Background()
	tm := NewTokenManager("secret", 5, 60)
	repo := repository.NewMemoryAccountRepository()
	account := &domain.Account{Email: "m@x", Role: domain.RoleManager, Active: true}
	require.NoError(t, repo.Create(ctx, account))

	// token minted before a promotion still carries STAFF
	token, _, err := tm.GenerateAccessToken(account.ID, domain.RoleStaff)
	require.NoError(t, err)

	mw := NewAuthMiddleware(tm, repo)
	assert.Equal(t, http.StatusOK, call(t, newTestApp(mw, RequireRole(domain.RoleManager)), "Bearer "+token))
	assert.Equal(t, http.StatusForbidden, call(t, newTestApp(mw, RequireRole(domain.RoleAdmin)), "Bearer "+token))
	assert.Equal(t, http.StatusOK, call(t, newTestApp(mw, RequireAnyRole(domain.RoleAdmin, domain.RoleStaff)), "Bearer "+token))
	assert.Equal(t, http.StatusForbidden, call(t, newTestApp(mw, RequireAnyRole()), "Bearer "+token))
	assert.Equal(t, http.StatusOK, call(t, newTestApp(mw, RequireAuthenticated()), "Bearer "+token))
}

func TestVerifyAccessTokenMatchesMiddleware(t *testing.T) {
	ctx := context.Background()
	tm := NewTokenManager("secret", 5, 60)
	repo := repository.NewMemoryAccountRepository()
	account := &domain.Account{Email: "s@x", Role: domain.RoleStaff, Active: true}
	require.NoError(t, repo.Create(ctx, account))
	mw := NewAuthMiddleware(tm, repo)

	token, _, err := tm.GenerateAccessToken(account.ID, domain.RoleStaff)
	require.NoError(t, err)
	require.NoError(t, mw.VerifyAccessToken(ctx, token))

	account.Active = false
	require.NoError(t, repo.Update(ctx, account))
	err = mw.VerifyAccessToken(ctx, token)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	refresh, _, err := tm.GenerateRefreshToken(account.ID)
	require.NoError(t, err)
	assert.Error(t, mw.VerifyAccessToken(ctx, refresh))
}
