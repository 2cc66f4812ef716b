package audit

import (
	"time"

	"eventgate/pkg/domain"
)

// Action names a key action captured for the audit trail.
type Action string

const (
	ActionEventCreated Action = "event_created"
	ActionEventJoined  Action = "event_joined"
	ActionEventLeft    Action = "event_left"

	ActionUserSignedUp  Action = "user_signed_up"
	ActionUserLoggedIn  Action = "user_logged_in"
	ActionUserLoggedOut Action = "user_logged_out"
	ActionUserLockedOut Action = "user_locked_out"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time     `json:"timestamp"`
	UserID    domain.UserID `json:"user_id,omitempty"`
	Email     string        `json:"email,omitempty"`
	Action    Action        `json:"action"`
	// Subject is what the action touched, e.g. an event id.
	Subject   string `json:"subject,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Device    string `json:"device,omitempty"`
}
