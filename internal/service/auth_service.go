package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dashboard-gateway/internal/auth"
	"github.com/spec-kit/dashboard-gateway/internal/config"
	"github.com/spec-kit/dashboard-gateway/internal/domain"
	"github.com/spec-kit/dashboard-gateway/internal/repository"
	apperrors "github.com/spec-kit/dashboard-gateway/pkg/util/errorutil"
)

// LoginResult carries the session created by a successful sign-in.
type LoginResult struct {
	Account          *domain.Account
	Session          domain.Session
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// AuthService coordinates sign-in, token refresh and account management.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service. accounts may be nil when no database is
// configured; account operations then report service unavailable.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes, cfg.RefreshTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

var errNoAccounts = apperrors.NewServiceUnavailable("account store unavailable", nil)

// Login verifies credentials and issues a fresh access/refresh token pair.
// Unknown emails, inactive accounts and wrong passwords are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.accounts == nil {
		return nil, errNoAccounts
	}
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !account.Active || !account.Role.Valid() {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(account)
}

// Refresh exchanges a refresh token for a new token pair, re-reading the
// account so role changes and deactivation take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokenMgr.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}
	if s.accounts == nil {
		return nil, errNoAccounts
	}
	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("account not found")
		}
		return nil, err
	}
	if !account.Active || !account.Role.Valid() {
		return nil, apperrors.NewUnauthorized("account inactive")
	}
	return s.issue(account)
}

func (s *AuthService) issue(account *domain.Account) (*LoginResult, error) {
	accessToken, accessExp, err := s.tokenMgr.GenerateAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refreshToken, refreshExp, err := s.tokenMgr.GenerateRefreshToken(account.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{
		Account: account,
		Session: domain.Session{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			Role:         account.Role,
			UserID:       account.ID,
		},
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// CreateAccount registers a new operator.
func (s *AuthService) CreateAccount(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error) {
	if s.accounts == nil {
		return nil, errNoAccounts
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	account := &domain.Account{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// EnsureAdmin creates an ADMIN account for email unless one already exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	_, err := s.CreateAccount(ctx, "Administrator", email, password, domain.RoleAdmin)
	var de *apperrors.DomainError
	if errors.As(err, &de) && de.Code == "CONFLICT" {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAccounts returns accounts matching filter.
func (s *AuthService) ListAccounts(ctx context.Context, filter repository.AccountFilter) ([]domain.Account, error) {
	if s.accounts == nil {
		return nil, errNoAccounts
	}
	return s.accounts.List(ctx, filter)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
