package access

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
	"github.com/spec-kit/dashboard-gateway/internal/events"
)

// Gate names used when recording decisions.
const (
	GateRoute = "route"
	GateRole  = "role"
)

// Navigator performs the redirect side effect.
type Navigator interface {
	Redirect(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Redirect implements Navigator.
func (f NavigatorFunc) Redirect(path string) { f(path) }

// DecisionRecorder observes every gate decision.
type DecisionRecorder interface {
	RecordDecision(gate string, result domain.GuardResult)
}

// Options configures a Controller.
type Options struct {
	LoginPath    string
	PublicPaths  []string
	Checker      Checker
	CheckTimeout time.Duration
	Events       events.Dispatcher
	Recorder     DecisionRecorder
	Logger       *zap.Logger
}

// Controller gates protected views behind a validated session and a minimum
// role. It holds no per-session state and is shared by all requests.
type Controller struct {
	loginPath string
	public    PublicPaths
	checker   Checker
	timeout   time.Duration
	events    events.Dispatcher
	recorder  DecisionRecorder
	logger    *zap.Logger
}

// NewController builds a controller. The login path is always public.
func NewController(opts Options) *Controller {
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	public := PublicPaths{loginPath}
	public = append(public, opts.PublicPaths...)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := opts.Events
	if dispatcher == nil {
		dispatcher = events.Nop
	}
	return &Controller{
		loginPath: loginPath,
		public:    public,
		checker:   opts.Checker,
		timeout:   opts.CheckTimeout,
		events:    dispatcher,
		recorder:  opts.Recorder,
		logger:    logger,
	}
}

// LoginPath returns the login boundary.
func (c *Controller) LoginPath() string { return c.loginPath }

// IsPublic reports whether path bypasses the guard.
func (c *Controller) IsPublic(path string) bool { return c.public.Allows(path) }

// Authorizer binds the controller's checker to a session store.
func (c *Controller) Authorizer(store SessionStore) *Authorizer {
	return &Authorizer{store: store, checker: c.checker, timeout: c.timeout, logger: c.logger}
}

// Guard decides whether the view at path may render. On Unauthorized it has
// already redirected to the login path through nav; on Pending it has done
// nothing.
func (c *Controller) Guard(ctx context.Context, authz *Authorizer, path string, nav Navigator) domain.GuardResult {
	if c.public.Allows(path) {
		result := domain.Authorized()
		c.record(GateRoute, result)
		return result
	}

	sess, _ := authz.store.Session()
	result := authz.Authenticate(ctx)
	c.record(GateRoute, result)

	if result.Status != domain.GuardUnauthorized {
		return result
	}

	event := events.Event{
		Path:      path,
		UserID:    sess.UserID,
		Role:      sess.Role,
		Reason:    result.Reason,
		Timestamp: time.Now().UTC(),
	}
	if result.Reason == domain.ReasonInvalidToken {
		event.Type = events.EventSessionInvalidated
		c.events.Publish(ctx, event)
	}
	event.Type = events.EventLoginRedirect
	c.events.Publish(ctx, event)

	nav.Redirect(c.loginPath)
	return result
}

// RoleGate decides whether a capability section may render. It never
// redirects; a denial means the caller renders its access-denied fallback.
func (c *Controller) RoleGate(ctx context.Context, authz *Authorizer, path string, required ...domain.Role) domain.GuardResult {
	result := domain.Authorized()
	if !authz.HasAnyRole(required...) {
		result = domain.Unauthorized(domain.ReasonForbidden)
		sess, _ := authz.store.Session()
		c.events.Publish(ctx, events.Event{
			Type:      events.EventAccessDenied,
			Path:      path,
			UserID:    sess.UserID,
			Role:      sess.Role,
			Reason:    result.Reason,
			Timestamp: time.Now().UTC(),
		})
	}
	c.record(GateRole, result)
	return result
}

func (c *Controller) record(gate string, result domain.GuardResult) {
	if c.recorder != nil {
		c.recorder.RecordDecision(gate, result)
	}
}
