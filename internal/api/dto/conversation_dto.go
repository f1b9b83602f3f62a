package dto

import (
	"time"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// ChatRequest is one inbound message on the JSON chat endpoint.
type ChatRequest struct {
	CallerID string `json:"caller_id"`
	Text     string `json:"text"`
}

// ChatResponse carries the engine's reply.
type ChatResponse struct {
	CallerID string `json:"caller_id"`
	Reply    string `json:"reply"`
}

// ExchangeResponse is one message pair in a session view.
type ExchangeResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Inbound   string    `json:"inbound"`
	Outbound  string    `json:"outbound"`
}

// SessionResponse is the staff view of a conversation session. Diagnostic
// values are included; credentials never appear in sessions.
type SessionResponse struct {
	CallerID             string             `json:"caller_id"`
	State                string             `json:"state"`
	CustomerClass        string             `json:"customer_class,omitempty"`
	ServiceType          string             `json:"service_type,omitempty"`
	IssueDescription     string             `json:"issue_description,omitempty"`
	IssueCategory        string             `json:"issue_category,omitempty"`
	ActiveTicketID       string             `json:"active_ticket_id,omitempty"`
	VerificationAttempts int                `json:"verification_attempts"`
	Verified             bool               `json:"verified"`
	DiagnosticSnapshot   map[string]string  `json:"diagnostic_snapshot,omitempty"`
	History              []ExchangeResponse `json:"history"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// NewSessionResponse maps a domain session to its API view.
func NewSessionResponse(s *domain.Session) SessionResponse {
	history := make([]ExchangeResponse, 0, len(s.History))
	for _, e := range s.History {
		history = append(history, ExchangeResponse{
			Timestamp: e.Timestamp,
			Inbound:   e.Inbound,
			Outbound:  e.Outbound,
		})
	}
	return SessionResponse{
		CallerID:             s.CallerID,
		State:                string(s.State),
		CustomerClass:        string(s.CustomerClass),
		ServiceType:          string(s.ServiceType),
		IssueDescription:     s.IssueDescription,
		IssueCategory:        string(s.IssueCategory),
		ActiveTicketID:       s.ActiveTicketID,
		VerificationAttempts: s.VerificationAttempts,
		Verified:             s.Verified,
		DiagnosticSnapshot:   s.DiagnosticSnapshot,
		History:              history,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
