package dto

import (
	"time"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// TicketStatusUpdateRequest payload for PATCH status.
type TicketStatusUpdateRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// StatusChangeResponse is one entry of a ticket's status history.
type StatusChangeResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TicketResponse is the staff view of a ticket.
type TicketResponse struct {
	ID                   string                 `json:"id"`
	ExternalID           string                 `json:"external_id,omitempty"`
	Category             string                 `json:"category"`
	CustomerID           string                 `json:"customer_id"`
	CallerID             string                 `json:"caller_id"`
	ServiceType          string                 `json:"service_type,omitempty"`
	Description          string                 `json:"description"`
	Priority             string                 `json:"priority"`
	Status               string                 `json:"status"`
	RoutedTo             string                 `json:"routed_to"`
	ResponseTime         string                 `json:"response_time"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
	ConversationSnapshot []ExchangeResponse     `json:"conversation_snapshot,omitempty"`
	DiagnosticSnapshot   map[string]string      `json:"diagnostic_snapshot,omitempty"`
	StatusHistory        []StatusChangeResponse `json:"status_history"`
}

// NewTicketResponse maps a domain ticket to its API view.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	conversation := make([]ExchangeResponse, 0, len(t.ConversationSnapshot))
	for _, e := range t.ConversationSnapshot {
		conversation = append(conversation, ExchangeResponse{
			Timestamp: e.Timestamp,
			Inbound:   e.Inbound,
			Outbound:  e.Outbound,
		})
	}
	history := make([]StatusChangeResponse, 0, len(t.StatusHistory))
	for _, h := range t.StatusHistory {
		history = append(history, StatusChangeResponse{
			Status:    string(h.Status),
			Note:      h.Note,
			Timestamp: h.Timestamp,
		})
	}
	return TicketResponse{
		ID:                   t.ID,
		ExternalID:           t.ExternalID,
		Category:             string(t.Category),
		CustomerID:           t.CustomerID,
		CallerID:             t.CallerID,
		ServiceType:          string(t.ServiceType),
		Description:          t.Description,
		Priority:             string(t.Priority),
		Status:               string(t.Status),
		RoutedTo:             t.RoutedTo,
		ResponseTime:         t.ResponseTime,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
		ConversationSnapshot: conversation,
		DiagnosticSnapshot:   t.DiagnosticSnapshot,
		StatusHistory:        history,
	}
}

// NewTicketListResponse maps a ticket slice.
func NewTicketListResponse(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}
