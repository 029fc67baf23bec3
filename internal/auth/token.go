package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
)

// TokenKind separates access tokens from refresh tokens.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

var (
	errSigningMethod = errors.New("unexpected signing method")
	errTokenKind     = errors.New("unexpected token kind")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTLMinutes, refreshTTLMinutes int) *TokenManager {
	if accessTTLMinutes <= 0 {
		accessTTLMinutes = 60
	}
	if refreshTTLMinutes <= 0 {
		refreshTTLMinutes = 7 * 24 * 60
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshTTLMinutes) * time.Minute,
		now:        time.Now,
	}
}

// Claims describes JWT payload.
type Claims struct {
	Role domain.Role `json:"role,omitempty"`
	Kind TokenKind   `json:"typ"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a role-bearing token for the account.
func (tm *TokenManager) GenerateAccessToken(accountID string, role domain.Role) (string, time.Time, error) {
	return tm.generate(accountID, role, TokenAccess, tm.accessTTL)
}

// GenerateRefreshToken signs a long-lived token carrying no role.
func (tm *TokenManager) GenerateRefreshToken(accountID string) (string, time.Time, error) {
	return tm.generate(accountID, "", TokenRefresh, tm.refreshTTL)
}

func (tm *TokenManager) generate(accountID string, role domain.Role, kind TokenKind, ttl time.Duration) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(ttl)
	claims := &Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (tm *TokenManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return tm.parse(tokenStr, TokenAccess)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (tm *TokenManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return tm.parse(tokenStr, TokenRefresh)
}

func (tm *TokenManager) parse(tokenStr string, kind TokenKind) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errSigningMethod
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Kind != kind {
		return nil, errTokenKind
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
