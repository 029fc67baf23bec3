package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/dashboard-gateway/internal/events"
)

type countingRecorder map[string]int

func (c countingRecorder) RecordEvent(eventType string) { c[eventType]++ }

type stubForwarder struct {
	accept    bool
	forwarded []events.EventType
}

func (s *stubForwarder) Forward(event events.Event) bool {
	s.forwarded = append(s.forwarded, event.Type)
	return s.accept
}

func TestAuditServiceCountsEveryEvent(t *testing.T) {
	d := events.NewInMemoryDispatcher(nil)
	rec := countingRecorder{}
	NewAuditService(d, nil, rec, nil).RegisterHandlers()

	ctx := context.Background()
	d.Publish(ctx, events.Event{Type: events.EventSessionInvalidated})
	d.Publish(ctx, events.Event{Type: events.EventLoginRedirect})
	d.Publish(ctx, events.Event{Type: events.EventLoginRedirect})
	d.Publish(ctx, events.Event{Type: events.EventLoggedOut})

	assert.Equal(t, 1, rec["session_invalidated"])
	assert.Equal(t, 2, rec["login_redirect"])
	assert.Equal(t, 1, rec["logged_out"])
}

func TestAuditServiceForwardsAllButRedirects(t *testing.T) {
	d := events.NewInMemoryDispatcher(nil)
	fwd := &stubForwarder{}
	NewAuditService(d, nil, nil, fwd).RegisterHandlers()

	ctx := context.Background()
	d.Publish(ctx, events.Event{Type: events.EventLoginRedirect})
	d.Publish(ctx, events.Event{Type: events.EventAccessDenied})
	d.Publish(ctx, events.Event{Type: events.EventLoggedIn})

	assert.Equal(t, []events.EventType{events.EventAccessDenied, events.EventLoggedIn}, fwd.forwarded)
}

func TestAuditServiceWithoutDispatcherIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewAuditService(nil, nil, nil, nil).RegisterHandlers()
	})
}
