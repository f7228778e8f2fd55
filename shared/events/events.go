package events

import "time"

// Event types
const (
	AccountCreated       = "account.created"
	AccountUpdated       = "account.updated"
	AccountDeactivated   = "account.deactivated"
	AccountPasswordReset = "account.password_reset"
)

// Stream names
const (
	AccountEventsStream = "account.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountCreatedEvent struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	UserType  string `json:"userType"`
}

// AccountUpdatedEvent carries the previous email when an update changed it.
type AccountUpdatedEvent struct {
	AccountID     string `json:"accountId"`
	Email         string `json:"email"`
	PreviousEmail string `json:"previousEmail,omitempty"`
}

type AccountDeactivatedEvent struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}

type AccountPasswordResetEvent struct {
	Email string `json:"email"`
}
