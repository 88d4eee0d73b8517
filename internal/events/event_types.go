package events

import (
	"time"

	"github.com/afriart/gallery-service/internal/domain"
)

// EventType enumerates auth lifecycle events.
type EventType string

const (
	EventPrincipalRegistered EventType = "principal.registered"
	EventLoginSucceeded      EventType = "login.succeeded"
	EventCodeRequested       EventType = "twofactor.requested"
	EventCodeVerified        EventType = "twofactor.verified"
)

// Event carries what happened to whom. Subject is the principal id as a
// string, matching the token subject; it is empty for pre-auth events.
type Event struct {
	Type    EventType
	Role    domain.Role
	Subject string
	Email   string
	At      time.Time
}
