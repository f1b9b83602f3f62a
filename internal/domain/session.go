package domain

import "time"

// ConversationState enumerates the steps of a support conversation.
type ConversationState string

const (
	StateInitial               ConversationState = "INITIAL"
	StateClassifying           ConversationState = "CLASSIFYING"
	StateManagedITScope        ConversationState = "MANAGED_IT_SCOPE"
	StateServiceIdentification ConversationState = "SERVICE_IDENTIFICATION"
	StateIssueGathering        ConversationState = "ISSUE_GATHERING"
	StateVerifying             ConversationState = "VERIFYING"
	StateTroubleshooting       ConversationState = "TROUBLESHOOTING"
	StateEscalated             ConversationState = "ESCALATED"
	StateResolved              ConversationState = "RESOLVED"
)

// CustomerClass enumerates account classifications.
type CustomerClass string

const (
	ClassBusiness    CustomerClass = "BUSINESS"
	ClassResidential CustomerClass = "RESIDENTIAL"
	ClassEnterprise  CustomerClass = "ENTERPRISE"
	ClassManagedIT   CustomerClass = "MANAGED_IT"
)

// ServiceType enumerates deliverable internet services.
type ServiceType string

const (
	ServiceFiber         ServiceType = "FIBER"
	ServiceFixedWireless ServiceType = "FIXED_WIRELESS"
	ServiceCellular      ServiceType = "CELLULAR"
)

// Label returns a human-readable service name for reply text.
func (s ServiceType) Label() string {
	switch s {
	case ServiceFiber:
		return "Fiber"
	case ServiceFixedWireless:
		return "Fixed Wireless"
	case ServiceCellular:
		return "LTE/Cellular"
	default:
		return "internet"
	}
}

// IssueCategory enumerates the diagnostic branches of issue gathering.
type IssueCategory string

const (
	IssueCredentialRequest IssueCategory = "CREDENTIAL_REQUEST"
	IssueConnectivityLoss  IssueCategory = "CONNECTIVITY_LOSS"
	IssueDegradedSpeed     IssueCategory = "DEGRADED_SPEED"
	IssueIntermittentDrops IssueCategory = "INTERMITTENT_DROPS"
	IssueUnclassified      IssueCategory = "UNCLASSIFIED"
)

// MaxVerificationAttempts bounds identity verification retries per session.
const MaxVerificationAttempts = 3

// HistoryCap bounds the per-session exchange log; oldest entries are dropped.
const HistoryCap = 200

// Exchange is one inbound/outbound message pair in a conversation.
type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	Inbound   string    `json:"inbound"`
	Outbound  string    `json:"outbound"`
}

// Session is the per-caller conversation record. The caller identifier is the
// stable key; everything else is replaced wholesale on reset.
type Session struct {
	CallerID             string            `json:"caller_id"`
	State                ConversationState `json:"state"`
	CustomerClass        CustomerClass     `json:"customer_class,omitempty"`
	ServiceType          ServiceType       `json:"service_type,omitempty"`
	IssueDescription     string            `json:"issue_description,omitempty"`
	IssueCategory        IssueCategory     `json:"issue_category,omitempty"`
	ActiveTicketID       string            `json:"active_ticket_id,omitempty"`
	VerificationAttempts int               `json:"verification_attempts"`
	Verified             bool              `json:"verified"`
	DiagnosticSnapshot   map[string]string `json:"diagnostic_snapshot,omitempty"`
	History              []Exchange        `json:"history"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// NewSession returns a fresh session in the initial state.
func NewSession(callerID string) *Session {
	now := time.Now()
	return &Session{
		CallerID:  callerID,
		State:     StateInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendExchange records a message pair, dropping the oldest entry past the cap.
func (s *Session) AppendExchange(inbound, outbound string) {
	s.History = append(s.History, Exchange{
		Timestamp: time.Now(),
		Inbound:   inbound,
		Outbound:  outbound,
	})
	if len(s.History) > HistoryCap {
		s.History = s.History[len(s.History)-HistoryCap:]
	}
}

// HistorySnapshot returns a copy of the exchange log safe to hand to a ticket.
func (s *Session) HistorySnapshot() []Exchange {
	snapshot := make([]Exchange, len(s.History))
	copy(snapshot, s.History)
	return snapshot
}
