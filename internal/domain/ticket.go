package domain

import "time"

// TicketCategory identifies the escalation path that produced a ticket.
type TicketCategory string

const (
	CategoryBusinessEscalation   TicketCategory = "BUSINESS_ESCALATION"
	CategoryEnterpriseEscalation TicketCategory = "ENTERPRISE_ESCALATION"
	CategoryManagedITForward     TicketCategory = "MANAGED_IT_FORWARD"
	CategoryTechnicalSupport     TicketCategory = "TECHNICAL_SUPPORT"
	CategoryVerificationFailure  TicketCategory = "VERIFICATION_FAILURE"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen               TicketStatus = "OPEN"
	TicketStatusEscalated          TicketStatus = "ESCALATED"
	TicketStatusForwarded          TicketStatus = "FORWARDED"
	TicketStatusPendingVerifReview TicketStatus = "PENDING_VERIFICATION_REVIEW"
	TicketStatusResolved           TicketStatus = "RESOLVED"
	TicketStatusClosed             TicketStatus = "CLOSED"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "CRITICAL"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
)

// StatusChange is an append-only audit entry on a ticket.
type StatusChange struct {
	Status    TicketStatus `json:"status"`
	Note      string       `json:"note,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Ticket is the aggregate for escalated support requests. It is immutable
// after creation except for Status, StatusHistory and ConversationSnapshot.
type Ticket struct {
	ID                   string            `json:"id"`
	ExternalID           string            `json:"external_id"`
	Category             TicketCategory    `json:"category"`
	CustomerID           string            `json:"customer_id"`
	CallerID             string            `json:"caller_id"`
	ServiceType          ServiceType       `json:"service_type,omitempty"`
	Description          string            `json:"description"`
	Priority             TicketPriority    `json:"priority"`
	Status               TicketStatus      `json:"status"`
	RoutedTo             string            `json:"routed_to"`
	ResponseTime         string            `json:"response_time"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
	ConversationSnapshot []Exchange        `json:"conversation_snapshot"`
	DiagnosticSnapshot   map[string]string `json:"diagnostic_snapshot,omitempty"`
	StatusHistory        []StatusChange    `json:"status_history,omitempty"`
}

// IsOpen reports whether the ticket belongs in the open-work queue: open,
// escalated, or awaiting verification review. Forwarded tickets are owned by
// the receiving team and do not appear in the queue.
func (t *Ticket) IsOpen() bool {
	switch t.Status {
	case TicketStatusOpen, TicketStatusEscalated, TicketStatusPendingVerifReview:
		return true
	default:
		return false
	}
}
