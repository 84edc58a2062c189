package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit event types recorded by the orchestrator.
const (
	EventLogin    = "auth.login"
	EventRegister = "auth.register"
	EventLogout   = "auth.logout"
	EventRefresh  = "auth.refresh"
)

// AuditEvent is an append-only record of an authentication event.
// UserID, IP and UserAgent are optional; nil means unknown.
type AuditEvent struct {
	ID        string
	UserID    *string
	EventType string
	IP        *string
	UserAgent *string
	CreatedAt time.Time
}

// NewAuditEvent constructs an event with the required type and user;
// pass empty strings for ip/userAgent when they are not known.
func NewAuditEvent(eventType string, userID *string, ip, userAgent string) *AuditEvent {
	e := &AuditEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventType: eventType,
		CreatedAt: time.Now(),
	}
	if ip != "" {
		e.IP = &ip
	}
	if userAgent != "" {
		e.UserAgent = &userAgent
	}
	return e
}
