package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/dashboard-gateway/internal/api/dto"
	"github.com/spec-kit/dashboard-gateway/internal/events"
	"github.com/spec-kit/dashboard-gateway/internal/service"
	"github.com/spec-kit/dashboard-gateway/internal/session"
	apperrors "github.com/spec-kit/dashboard-gateway/pkg/util/errorutil"
)

// SessionHandler exposes the login boundary and session lifecycle endpoints.
type SessionHandler struct {
	auth           *service.AuthService
	events         events.Dispatcher
	loginPath      string
	hydrateTimeout time.Duration
	logger         *zap.Logger
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService, dispatcher events.Dispatcher, loginPath string, hydrateTimeout time.Duration, logger *zap.Logger) *SessionHandler {
	if dispatcher == nil {
		dispatcher = events.Nop
	}
	return &SessionHandler{
		auth:           authService,
		events:         dispatcher,
		loginPath:      loginPath,
		hydrateTimeout: hydrateTimeout,
		logger:         logger,
	}
}

// LoginPage handles GET /login.
func (h *SessionHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.ViewResponse{View: "login"}})
}

// Login handles POST /auth/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	store, err := storeFrom(c)
	if err != nil {
		return err
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := store.Save(c.UserContext(), result.Session); err != nil {
		return apperrors.NewServiceUnavailable("session storage unavailable", err)
	}

	h.events.Publish(c.UserContext(), events.Event{
		Type:      events.EventLoggedIn,
		UserID:    result.Session.UserID,
		Role:      result.Session.Role,
		Timestamp: time.Now().UTC(),
	})
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// Refresh handles POST /auth/refresh. A refresh token that is no longer
// accepted tears the session down like an invalid access token.
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	store, err := storeFrom(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), h.hydrateTimeout)
	err = store.Hydrate(ctx)
	cancel()
	if err != nil {
		return apperrors.NewServiceUnavailable("session storage unavailable", err)
	}

	sess, ok := store.Session()
	if !ok {
		return apperrors.NewUnauthorized("no session")
	}

	result, err := h.auth.Refresh(c.UserContext(), sess.RefreshToken)
	if err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) && de.Code == "UNAUTHORIZED" {
			if clearErr := store.Clear(context.WithoutCancel(c.UserContext())); clearErr != nil {
				h.logger.Warn("failed to clear session", zap.Error(clearErr))
			}
		}
		return err
	}
	if err := store.Save(c.UserContext(), result.Session); err != nil {
		return apperrors.NewServiceUnavailable("session storage unavailable", err)
	}
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// Logout handles POST /auth/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	store, err := storeFrom(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), h.hydrateTimeout)
	if err := store.Hydrate(ctx); err != nil {
		h.logger.Warn("session hydration failed before logout", zap.Error(err))
	}
	cancel()
	sess, _ := store.Session()

	if err := store.Clear(c.UserContext()); err != nil {
		return apperrors.NewServiceUnavailable("session storage unavailable", err)
	}
	h.events.Publish(c.UserContext(), events.Event{
		Type:      events.EventLoggedOut,
		UserID:    sess.UserID,
		Role:      sess.Role,
		Timestamp: time.Now().UTC(),
	})
	return c.Redirect(h.loginPath, fiber.StatusSeeOther)
}

// Check handles GET /auth/check. The bearer middleware has already validated
// the token when this runs.
func (h *SessionHandler) Check(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func storeFrom(c *fiber.Ctx) (*session.Store, error) {
	store, ok := session.FromContext(c)
	if !ok {
		return nil, apperrors.NewInternalError(errors.New("session middleware not installed"))
	}
	return store, nil
}

func authResponse(result *service.LoginResult) dto.AuthResponse {
	return dto.AuthResponse{
		UserID:           result.Session.UserID,
		Role:             result.Session.Role,
		AccessToken:      result.Session.AccessToken,
		RefreshToken:     result.Session.RefreshToken,
		AccessExpiresAt:  result.AccessExpiresAt,
		RefreshExpiresAt: result.RefreshExpiresAt,
	}
}
