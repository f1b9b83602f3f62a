package events

import (
	"time"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventConversationEscalated EventType = "conversation_escalated"
	EventCredentialsDisclosed  EventType = "credentials_disclosed"
	EventVerificationExhausted EventType = "verification_exhausted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CallerID  string      `json:"caller_id,omitempty"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Category   domain.TicketCategory `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	RoutedTo   string                `json:"routed_to"`
	ExternalID string                `json:"external_id"`
	CustomerID string                `json:"customer_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Note      string              `json:"note,omitempty"`
}

// ConversationEscalatedPayload payload.
type ConversationEscalatedPayload struct {
	FromState domain.ConversationState `json:"from_state"`
	Override  bool                     `json:"override"`
	Category  domain.TicketCategory    `json:"category"`
}

// CredentialsDisclosedPayload records a successful credential release.
// Credentials themselves are never put on the event bus.
type CredentialsDisclosedPayload struct {
	AccountID string `json:"account_id"`
}

// VerificationExhaustedPayload records a caller running out of verification
// attempts.
type VerificationExhaustedPayload struct {
	Attempts int `json:"attempts"`
}
