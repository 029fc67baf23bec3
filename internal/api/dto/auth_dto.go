package dto

import (
	"time"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
)

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthResponse describes the session created by login or refresh.
type AuthResponse struct {
	UserID           string      `json:"user_id"`
	Role             domain.Role `json:"role"`
	AccessToken      string      `json:"access_token"`
	RefreshToken     string      `json:"refresh_token"`
	AccessExpiresAt  time.Time   `json:"access_expires_at"`
	RefreshExpiresAt time.Time   `json:"refresh_expires_at"`
}

// AccountCreateRequest payload for POST /api/accounts.
type AccountCreateRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
}

// ViewResponse is the placeholder payload of a dashboard view.
type ViewResponse struct {
	View   string      `json:"view"`
	UserID string      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}
