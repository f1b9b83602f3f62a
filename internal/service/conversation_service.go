package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/protekweb/support-chatbot/internal/domain"
	"github.com/protekweb/support-chatbot/internal/events"
	"github.com/protekweb/support-chatbot/internal/gateway"
	"github.com/protekweb/support-chatbot/internal/observability"
	"github.com/protekweb/support-chatbot/internal/repository"
)

// ConversationService drives the support dialogue state machine. All session
// mutation happens inside the store's per-caller update closure, so two
// messages from the same caller can never interleave their state transitions.
type ConversationService struct {
	sessions    repository.SessionStore
	tickets     *TicketService
	identity    gateway.IdentityGateway
	diagnostics gateway.DiagnosticsGateway
	classifier  *Classifier
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	metrics     *observability.Metrics
	callTimeout time.Duration
}

// ConversationDependencies bundles collaborators for the conversation service.
type ConversationDependencies struct {
	Sessions    repository.SessionStore
	Tickets     *TicketService
	Identity    gateway.IdentityGateway
	Diagnostics gateway.DiagnosticsGateway
	Classifier  *Classifier
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	CallTimeout time.Duration
}

// NewConversationService constructs the service.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	timeout := deps.CallTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ConversationService{
		sessions:    deps.Sessions,
		tickets:     deps.Tickets,
		identity:    deps.Identity,
		diagnostics: deps.Diagnostics,
		classifier:  deps.Classifier,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		callTimeout: timeout,
	}
}

type stateHandler func(ctx context.Context, sess *domain.Session, msg string) string

// HandleMessage processes one inbound message for a caller and returns the
// reply text. The caller identifier is normalized so that the same phone
// number always resolves to the same session regardless of formatting.
func (s *ConversationService) HandleMessage(ctx context.Context, callerID, text string) (string, error) {
	callerID = gateway.NormalizePhone(strings.TrimSpace(callerID))
	msg := strings.TrimSpace(text)

	var reply string
	_, err := s.sessions.Update(ctx, callerID, func(sess *domain.Session) (*domain.Session, error) {
		if s.classifier.IsReset(msg) {
			fresh := domain.NewSession(callerID)
			fresh.State = domain.StateClassifying
			reply = resetReply()
			fresh.AppendExchange(msg, reply)
			return fresh, nil
		}

		handlers := s.handlers()
		handler, known := handlers[sess.State]
		if !known {
			s.logger.Error("session in unknown state, starting over",
				zap.String("caller_id", callerID),
				zap.String("state", string(sess.State)))
			sess = domain.NewSession(callerID)
			handler = handlers[domain.StateInitial]
		}

		if s.shouldOverrideEscalate(sess, msg) {
			reply = s.overrideEscalate(ctx, sess, msg)
		} else {
			reply = handler(ctx, sess, msg)
		}

		s.metrics.RecordMessage(string(sess.State))
		sess.AppendExchange(msg, reply)
		return sess, nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// GetSession returns the caller's session, if any.
func (s *ConversationService) GetSession(ctx context.Context, callerID string) (*domain.Session, error) {
	return s.sessions.Get(ctx, gateway.NormalizePhone(strings.TrimSpace(callerID)))
}

// EndSession discards the caller's session.
func (s *ConversationService) EndSession(ctx context.Context, callerID string) error {
	return s.sessions.Delete(ctx, gateway.NormalizePhone(strings.TrimSpace(callerID)))
}

func (s *ConversationService) handlers() map[domain.ConversationState]stateHandler {
	return map[domain.ConversationState]stateHandler{
		domain.StateInitial:               s.handleInitial,
		domain.StateClassifying:           s.handleClassifying,
		domain.StateManagedITScope:        s.handleManagedITScope,
		domain.StateServiceIdentification: s.handleServiceIdentification,
		domain.StateIssueGathering:        s.handleIssueGathering,
		domain.StateVerifying:             s.handleVerifying,
		domain.StateTroubleshooting:       s.handleTroubleshooting,
		domain.StateEscalated:             s.handleEscalated,
		domain.StateResolved:              s.handleResolved,
	}
}

// shouldOverrideEscalate gates the mid-flow escalation shortcut. It requires
// a classified caller: before classification there is no routing target, and
// once escalated or resolved there is nothing left to escalate.
func (s *ConversationService) shouldOverrideEscalate(sess *domain.Session, msg string) bool {
	if sess.CustomerClass == "" {
		return false
	}
	if sess.State == domain.StateEscalated || sess.State == domain.StateResolved {
		return false
	}
	return s.classifier.IsEscalation(msg)
}

// overrideEscalate runs the keyword-triggered shortcut. The ticket category
// is always technical support, whatever the current state or customer class;
// class-specific routing applies only to classification-time escalations.
func (s *ConversationService) overrideEscalate(ctx context.Context, sess *domain.Session, msg string) string {
	s.metrics.RecordEscalationOverride()
	fromState := sess.State

	ticket, reply := s.createEscalationTicket(ctx, sess, domain.CategoryTechnicalSupport, escalationDescription(sess, msg))
	if ticket == nil {
		return reply
	}

	s.publishEscalation(ctx, sess, fromState, domain.CategoryTechnicalSupport, ticket.ID, true)
	return reply
}

func escalationDescription(sess *domain.Session, msg string) string {
	if sess.IssueDescription != "" {
		return sess.IssueDescription + "\n\nLatest message: " + msg
	}
	return msg
}

// createEscalationTicket creates the ticket and, only on success, commits the
// session into the escalated state. A ticketing failure leaves the session
// exactly where it was so the caller can retry.
func (s *ConversationService) createEscalationTicket(ctx context.Context, sess *domain.Session, category domain.TicketCategory, description string) (*domain.Ticket, string) {
	ticket, err := s.tickets.Create(ctx, TicketCreateInput{
		Category:             category,
		CustomerID:           s.customerRef(ctx, sess),
		CallerID:             sess.CallerID,
		ServiceType:          sess.ServiceType,
		Description:          description,
		ConversationSnapshot: sess.HistorySnapshot(),
		DiagnosticSnapshot:   sess.DiagnosticSnapshot,
	})
	if err != nil {
		s.logger.Error("escalation ticket creation failed",
			zap.String("caller_id", sess.CallerID),
			zap.String("category", string(category)),
			zap.Error(err))
		return nil, ticketFailureReply()
	}

	sess.State = domain.StateEscalated
	sess.ActiveTicketID = ticket.ID

	switch category {
	case domain.CategoryBusinessEscalation:
		return ticket, businessEscalationReply(ticket.ExternalID)
	case domain.CategoryEnterpriseEscalation:
		return ticket, enterpriseEscalationReply(ticket.ExternalID)
	case domain.CategoryManagedITForward:
		return ticket, managedITForwardReply(ticket.ExternalID)
	case domain.CategoryVerificationFailure:
		return ticket, verificationFailedReply(ticket.ExternalID)
	default:
		return ticket, technicalEscalationReply(ticket.ExternalID)
	}
}

func (s *ConversationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func (s *ConversationService) publishEscalation(ctx context.Context, sess *domain.Session, fromState domain.ConversationState, category domain.TicketCategory, ticketID string, override bool) {
	s.publish(ctx, events.Event{
		Type:     events.EventConversationEscalated,
		CallerID: sess.CallerID,
		TicketID: ticketID,
		Payload: events.ConversationEscalatedPayload{
			FromState: fromState,
			Override:  override,
			Category:  category,
		},
	})
}

// handleInitial moves the session to classification and feeds the first
// message straight into it, so a caller whose opening line already answers
// the classification question skips one round trip. A plain greeting falls
// through the classifier and gets the menu.
func (s *ConversationService) handleInitial(ctx context.Context, sess *domain.Session, msg string) string {
	sess.State = domain.StateClassifying
	return s.handleClassifying(ctx, sess, msg)
}

func (s *ConversationService) handleClassifying(ctx context.Context, sess *domain.Session, msg string) string {
	class := s.classifier.ClassifyCustomer(msg)
	switch class {
	case domain.ClassManagedIT:
		sess.CustomerClass = class
		sess.State = domain.StateManagedITScope
		return managedITScopeReply()

	case domain.ClassBusiness, domain.ClassEnterprise:
		// Commit the class only once a ticket exists; a failed creation must
		// leave the caller free to retry from the classification gate.
		fromState := sess.State
		category := domain.CategoryBusinessEscalation
		if class == domain.ClassEnterprise {
			category = domain.CategoryEnterpriseEscalation
		}
		ticket, reply := s.createEscalationTicket(ctx, sess, category, msg)
		if ticket == nil {
			return reply
		}
		sess.CustomerClass = class
		s.publishEscalation(ctx, sess, fromState, category, ticket.ID, false)
		return reply

	case domain.ClassResidential:
		sess.CustomerClass = class
		sess.State = domain.StateServiceIdentification
		return serviceIdentificationReply(class)

	default:
		if s.classifier.IsGreeting(msg) {
			return greetingReply()
		}
		return classificationRepromptReply()
	}
}

func (s *ConversationService) handleManagedITScope(ctx context.Context, sess *domain.Session, msg string) string {
	switch s.classifier.ClassifyScope(msg) {
	case ScopeInternet:
		sess.State = domain.StateServiceIdentification
		return serviceIdentificationReply(sess.CustomerClass)

	case ScopeITServices:
		fromState := sess.State
		ticket, reply := s.createEscalationTicket(ctx, sess, domain.CategoryManagedITForward, msg)
		if ticket == nil {
			return reply
		}
		s.publishEscalation(ctx, sess, fromState, domain.CategoryManagedITForward, ticket.ID, false)
		return reply

	default:
		return managedITScopeReply()
	}
}

func (s *ConversationService) handleServiceIdentification(ctx context.Context, sess *domain.Session, msg string) string {
	if service, ok := s.classifier.DetectServiceType(msg); ok {
		sess.ServiceType = service
		sess.State = domain.StateIssueGathering
		return issueGatheringReply(service)
	}
	if noun, suggestion, ok := s.classifier.EquipmentHint(msg); ok {
		return equipmentHintReply(noun, suggestion)
	}
	return serviceRepromptReply()
}

// handleIssueGathering classifies the complaint and enters the matching
// diagnostic branch. Text that matches no issue keywords still proceeds:
// it runs the general diagnostic sweep and lands in troubleshooting, rather
// than looping the caller on a re-prompt.
func (s *ConversationService) handleIssueGathering(ctx context.Context, sess *domain.Session, msg string) string {
	category := s.classifier.ClassifyIssue(msg)

	sess.IssueDescription = msg
	sess.IssueCategory = category

	if category == domain.IssueCredentialRequest {
		sess.State = domain.StateVerifying
		return verificationPromptReply()
	}

	snapshot := s.runDiagnostics(ctx, sess, category)
	sess.DiagnosticSnapshot = snapshot
	sess.State = domain.StateTroubleshooting

	switch category {
	case domain.IssueConnectivityLoss:
		return connectivityDiagnosticsReply(sess.ServiceType, snapshot)
	case domain.IssueDegradedSpeed:
		return speedDiagnosticsReply(snapshot)
	case domain.IssueIntermittentDrops:
		return intermittentDiagnosticsReply(snapshot)
	default:
		return generalDiagnosticsReply(snapshot)
	}
}

func (s *ConversationService) handleVerifying(ctx context.Context, sess *domain.Session, msg string) string {
	if sess.VerificationAttempts >= domain.MaxVerificationAttempts {
		return s.exhaustVerification(ctx, sess)
	}

	ok, err := s.verifyIdentity(ctx, sess.CallerID, msg)
	if err != nil {
		s.logger.Warn("identity verification unavailable",
			zap.String("caller_id", sess.CallerID),
			zap.Error(err))
		return verificationUnavailableReply()
	}

	if !ok {
		sess.VerificationAttempts++
		if sess.VerificationAttempts >= domain.MaxVerificationAttempts {
			return s.exhaustVerification(ctx, sess)
		}
		return verificationRetryReply(domain.MaxVerificationAttempts - sess.VerificationAttempts)
	}

	sess.Verified = true
	sess.State = domain.StateTroubleshooting
	return s.discloseCredentials(ctx, sess)
}

// verifyIdentity checks the provided secret against the identity gateway. An
// unknown caller falls back to a weak length heuristic so that demo numbers
// not present in the directory still get a sensible flow; a gateway outage is
// surfaced as an error so the attempt is not charged to the caller.
func (s *ConversationService) verifyIdentity(ctx context.Context, callerID, input string) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	ok, err := s.identity.Verify(callCtx, callerID, input)
	if err == nil {
		return ok, nil
	}
	if err == gateway.ErrNotFound {
		return len(strings.TrimSpace(input)) > 5, nil
	}
	return false, err
}

func (s *ConversationService) exhaustVerification(ctx context.Context, sess *domain.Session) string {
	s.metrics.RecordVerificationFailure()

	fromState := sess.State
	description := "Caller failed identity verification while requesting account credentials."
	ticket, reply := s.createEscalationTicket(ctx, sess, domain.CategoryVerificationFailure, description)
	if ticket == nil {
		return reply
	}

	s.publish(ctx, events.Event{
		Type:     events.EventVerificationExhausted,
		CallerID: sess.CallerID,
		TicketID: ticket.ID,
		Payload:  events.VerificationExhaustedPayload{Attempts: sess.VerificationAttempts},
	})
	s.publishEscalation(ctx, sess, fromState, domain.CategoryVerificationFailure, ticket.ID, false)
	return reply
}

// discloseCredentials releases WiFi credentials only for a verified caller
// whose account both permits disclosure and has credentials on file. Any
// missing condition yields a refusal, never an error.
func (s *ConversationService) discloseCredentials(ctx context.Context, sess *domain.Session) string {
	if !sess.Verified {
		return disclosureRefusedReply()
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	profile, err := s.identity.Lookup(callCtx, sess.CallerID)
	if err != nil {
		if err != gateway.ErrNotFound {
			s.logger.Warn("identity lookup failed during disclosure",
				zap.String("caller_id", sess.CallerID),
				zap.Error(err))
		}
		return disclosureRefusedReply()
	}
	if !profile.WifiDisclosureAuthorized || profile.WifiCredentials == nil {
		return disclosureRefusedReply()
	}

	s.publish(ctx, events.Event{
		Type:     events.EventCredentialsDisclosed,
		CallerID: sess.CallerID,
		Payload:  events.CredentialsDisclosedPayload{AccountID: profile.AccountID},
	})
	return credentialsReply(profile.WifiCredentials)
}

func (s *ConversationService) handleTroubleshooting(ctx context.Context, sess *domain.Session, msg string) string {
	switch s.classifier.ClassifyTroubleshooting(msg) {
	case SignalEscalate:
		fromState := sess.State
		ticket, reply := s.createEscalationTicket(ctx, sess, domain.CategoryTechnicalSupport, escalationDescription(sess, msg))
		if ticket == nil {
			return reply
		}
		s.publishEscalation(ctx, sess, fromState, domain.CategoryTechnicalSupport, ticket.ID, false)
		return reply

	case SignalResolved:
		sess.State = domain.StateResolved
		return resolvedReply()

	case SignalPositive:
		return troubleshootPositiveReply()

	case SignalNegative:
		return troubleshootNegativeReply()

	default:
		return troubleshootGenericReply()
	}
}

// handleEscalated logs every follow-up into the ticket and echoes its status.
// The session stays escalated until the caller issues a reset; a resolution
// keyword marks the ticket resolved for the assigned team but does not move
// the session.
func (s *ConversationService) handleEscalated(ctx context.Context, sess *domain.Session, msg string) string {
	ticket, err := s.tickets.GetByID(ctx, sess.ActiveTicketID)
	if err != nil {
		s.logger.Error("escalated session references missing ticket",
			zap.String("caller_id", sess.CallerID),
			zap.String("ticket_id", sess.ActiveTicketID),
			zap.Error(err))
		return escalatedNoTicketReply()
	}

	reply := escalatedStatusReply(ticket)
	if s.classifier.ClassifyTroubleshooting(msg) == SignalResolved {
		if err := s.tickets.UpdateStatus(ctx, ticket.ID, domain.TicketStatusResolved, "caller reported resolution"); err != nil {
			s.logger.Warn("ticket resolution update failed",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err))
		}
		reply = escalatedResolutionNotedReply(ticketRef(ticket))
	}

	if err := s.tickets.AppendConversation(ctx, ticket.ID, msg, reply); err != nil {
		s.logger.Warn("ticket conversation append failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
	}
	return reply
}

func (s *ConversationService) handleResolved(ctx context.Context, sess *domain.Session, msg string) string {
	if s.classifier.IsGreeting(msg) {
		fresh := domain.NewSession(sess.CallerID)
		*sess = *fresh
		sess.State = domain.StateClassifying
		return greetingReply()
	}
	return resolvedFollowupReply()
}

// runDiagnostics is best effort: any failure or timeout yields an empty
// snapshot and the reply falls back to placeholder values.
func (s *ConversationService) runDiagnostics(ctx context.Context, sess *domain.Session, category domain.IssueCategory) map[string]string {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	snapshot, err := s.diagnostics.Run(callCtx, s.customerRef(ctx, sess), sess.ServiceType, category)
	if err != nil {
		s.logger.Warn("diagnostics run failed",
			zap.String("caller_id", sess.CallerID),
			zap.Error(err))
		return map[string]string{}
	}
	return snapshot
}

// customerRef resolves the caller to a directory account id, minting a guest
// reference when the caller is unknown or the directory is unreachable.
func (s *ConversationService) customerRef(ctx context.Context, sess *domain.Session) string {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	profile, err := s.identity.Lookup(callCtx, sess.CallerID)
	if err != nil {
		return "guest-" + uuid.NewString()[:8]
	}
	return profile.AccountID
}
