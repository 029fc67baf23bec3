package access

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
)

// SessionStore is the view of a browser-context session the authorizer needs.
type SessionStore interface {
	Hydrated() bool
	Session() (domain.Session, bool)
	AccessToken() (string, bool)
	Role() (domain.Role, bool)
	Clear(ctx context.Context) error
}

// Authorizer answers both authentication and role questions for one
// session. Route and capability gates share it so they cannot diverge.
type Authorizer struct {
	store   SessionStore
	checker Checker
	timeout time.Duration
	logger  *zap.Logger
}

// Authenticate runs the token round-trip.
//
// It reports Pending until the store is hydrated, Unauthorized(no-token) when
// no access token is stored and Unauthorized(invalid-token) when the probe
// fails for any reason, in which case the whole session is cleared first.
// The probe and the clear ignore cancellation of ctx so an in-flight check
// always applies its effect.
func (a *Authorizer) Authenticate(ctx context.Context) domain.GuardResult {
	if !a.store.Hydrated() {
		return domain.Pending()
	}
	token, ok := a.store.AccessToken()
	if !ok || token == "" {
		return domain.Unauthorized(domain.ReasonNoToken)
	}

	probeCtx := context.WithoutCancel(ctx)
	if a.timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(probeCtx, a.timeout)
		defer cancel()
	}

	if err := a.checker.Check(probeCtx, token); err != nil {
		a.logger.Debug("access token rejected", zap.Error(err))
		if err := a.store.Clear(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("failed to clear session", zap.Error(err))
		}
		return domain.Unauthorized(domain.ReasonInvalidToken)
	}
	return domain.Authorized()
}

// IsAuthenticated reports whether Authenticate grants access.
func (a *Authorizer) IsAuthenticated(ctx context.Context) bool {
	return a.Authenticate(ctx).IsAuthorized()
}

// HasRole checks the stored role against required. No session denies.
func (a *Authorizer) HasRole(required domain.Role) bool {
	role, ok := a.store.Role()
	if !ok {
		return false
	}
	return HasRole(role, required)
}

// HasAnyRole grants when the stored role passes any of required.
func (a *Authorizer) HasAnyRole(required ...domain.Role) bool {
	role, ok := a.store.Role()
	if !ok {
		return false
	}
	return HasAnyRole(role, required...)
}
