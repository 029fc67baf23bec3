package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrTokenRejected is returned when the auth-check probe answers non-2xx.
var ErrTokenRejected = errors.New("token rejected")

// Checker probes whether an access token is still valid. Any error means
// the token must be treated as invalid.
type Checker interface {
	Check(ctx context.Context, token string) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, token string) error

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context, token string) error { return f(ctx, token) }

// HTTPChecker calls a remote auth-check endpoint with the token as bearer
// credentials. The request carries no body.
type HTTPChecker struct {
	url     string
	timeout time.Duration
}

// NewHTTPChecker builds a checker for url.
func NewHTTPChecker(url string, timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{url: url, timeout: timeout}
}

// Check implements Checker. Transport failures and non-2xx answers are both
// reported as errors.
func (h *HTTPChecker) Check(ctx context.Context, token string) error {
	timeout := h.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("auth check: %w", context.DeadlineExceeded)
		}
		if timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Get(h.url)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("auth check: %w", err)
	}

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("auth check: %w", errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("%w: status %d", ErrTokenRejected, code)
	}
	return nil
}

// TokenVerifier validates an access token together with the account it
// belongs to.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) error
}

// LocalChecker answers the auth-check probe in-process with the same
// verification the /auth/check endpoint applies.
type LocalChecker struct {
	verifier TokenVerifier
}

// NewLocalChecker builds a checker over verifier.
func NewLocalChecker(verifier TokenVerifier) *LocalChecker {
	return &LocalChecker{verifier: verifier}
}

// Check implements Checker.
func (l *LocalChecker) Check(ctx context.Context, token string) error {
	if err := l.verifier.VerifyAccessToken(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	return nil
}
