package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/dashboard-gateway/internal/events"
)

// EventRecorder counts access events.
type EventRecorder interface {
	RecordEvent(eventType string)
}

// EventForwarder ships audit events out of process. Forward must not block.
type EventForwarder interface {
	Forward(event events.Event) bool
}

// AuditService writes the audit trail for access decisions and session
// lifecycle changes.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	recorder   EventRecorder
	forwarder  EventForwarder
}

// NewAuditService creates the service. recorder and forwarder may be nil.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, recorder EventRecorder, forwarder EventForwarder) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		recorder:   recorder,
		forwarder:  forwarder,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginRedirect, a.handleRedirect)
	a.dispatcher.Subscribe(events.EventSessionInvalidated, a.handleSecurityEvent)
	a.dispatcher.Subscribe(events.EventAccessDenied, a.handleSecurityEvent)
	a.dispatcher.Subscribe(events.EventLoggedIn, a.handleLifecycle)
	a.dispatcher.Subscribe(events.EventLoggedOut, a.handleLifecycle)
}

func (a *AuditService) handleRedirect(_ context.Context, event events.Event) error {
	a.count(event)
	a.logger.Debug("LoginRedirect", fields(event)...)
	return nil
}

func (a *AuditService) handleSecurityEvent(_ context.Context, event events.Event) error {
	a.count(event)
	a.logger.Warn(string(event.Type), fields(event)...)
	a.forward(event)
	return nil
}

func (a *AuditService) handleLifecycle(_ context.Context, event events.Event) error {
	a.count(event)
	a.logger.Info(string(event.Type), fields(event)...)
	a.forward(event)
	return nil
}

func (a *AuditService) count(event events.Event) {
	if a.recorder != nil {
		a.recorder.RecordEvent(string(event.Type))
	}
}

func (a *AuditService) forward(event events.Event) {
	if a.forwarder == nil {
		return
	}
	if !a.forwarder.Forward(event) {
		a.logger.Warn("audit event dropped", zap.String("event", string(event.Type)))
	}
}

func fields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event", string(event.Type)),
		zap.String("path", event.Path),
		zap.String("user_id", event.UserID),
		zap.String("role", string(event.Role)),
		zap.String("reason", event.Reason),
	}
}
