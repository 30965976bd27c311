package events

import (
	"time"

	"github.com/odo-hq/expensys/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionRestored   EventType = "session_restored"
	EventLoggedIn          EventType = "logged_in"
	EventLoggedOut         EventType = "logged_out"
	EventSessionExpired    EventType = "session_expired"
	EventDecisionSubmitted EventType = "decision_submitted"
)

// Event represents a state change published by the session or approval
// services. Session is the snapshot after the transition, so subscribers
// never have to read shared state from inside a handler.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Session   domain.Session `json:"session"`
	Payload   interface{}    `json:"payload,omitempty"`
}

// DecisionSubmittedPayload payload.
type DecisionSubmittedPayload struct {
	ExpenseID string                `json:"expense_id"`
	Action    domain.DecisionAction `json:"action"`
}
