package events

import (
	"time"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginRedirect      EventType = "login_redirect"
	EventSessionInvalidated EventType = "session_invalidated"
	EventAccessDenied       EventType = "access_denied"
	EventLoggedIn           EventType = "logged_in"
	EventLoggedOut          EventType = "logged_out"
)

// Event records an access decision or session lifecycle change.
type Event struct {
	Type      EventType   `json:"type"`
	Path      string      `json:"path,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
