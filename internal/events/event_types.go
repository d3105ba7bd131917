package events

import (
	"time"

	"github.com/sandunudayakantha/TransitEquity/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserApproved   EventType = "user_approved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Role            domain.Role `json:"role"`
	PendingApproval bool        `json:"pending_approval"`
}

// UserApprovedPayload payload.
type UserApprovedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
