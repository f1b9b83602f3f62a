package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/protekweb/support-chatbot/internal/config"
	"github.com/protekweb/support-chatbot/internal/domain"
	"github.com/protekweb/support-chatbot/internal/events"
	"github.com/protekweb/support-chatbot/internal/gateway"
	"github.com/protekweb/support-chatbot/internal/observability"
	"github.com/protekweb/support-chatbot/internal/repository"
)

type stubIdentity struct {
	profiles  map[string]*domain.CustomerProfile
	secrets   map[string]string
	lookupErr error
	verifyErr error
}

func (s *stubIdentity) Lookup(ctx context.Context, callerID string) (*domain.CustomerProfile, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	profile, ok := s.profiles[callerID]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return profile, nil
}

func (s *stubIdentity) Verify(ctx context.Context, callerID, input string) (bool, error) {
	if s.verifyErr != nil {
		return false, s.verifyErr
	}
	secret, ok := s.secrets[callerID]
	if !ok {
		return false, gateway.ErrNotFound
	}
	return strings.TrimSpace(input) == secret, nil
}

type stubTicketing struct {
	err error
	n   int
}

func (s *stubTicketing) CreateExternalTicket(ctx context.Context, req gateway.ExternalTicketRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.n++
	return fmt.Sprintf("SONAR-%06d", s.n), nil
}

type stubDiagnostics struct {
	snap map[string]string
	err  error
}

func (s *stubDiagnostics) Run(ctx context.Context, accountID string, serviceType domain.ServiceType, category domain.IssueCategory) (map[string]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

type engineFixture struct {
	engine    *ConversationService
	tickets   *TicketService
	sessions  repository.SessionStore
	identity  *stubIdentity
	ticketing *stubTicketing
}

const testCaller = "5551234567"

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	identity := &stubIdentity{
		profiles: map[string]*domain.CustomerProfile{
			testCaller: {
				AccountID:                "ACC-1001",
				DisplayName:              "John Doe",
				CustomerClass:            domain.ClassResidential,
				ServiceType:              domain.ServiceFiber,
				WifiDisclosureAuthorized: true,
				WifiCredentials: &domain.WifiCredentials{
					NetworkName: "ProTek_Fiber_5G",
					Password:    "ProTek2024Secure!",
				},
			},
		},
		secrets: map[string]string{testCaller: "5551234567"},
	}
	ticketing := &stubTicketing{}
	sessions := repository.NewMemorySessionStore()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	tickets := NewTicketService(TicketDependencies{
		Store:      repository.NewMemoryTicketStore(),
		Ticketing:  ticketing,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})

	engine := NewConversationService(ConversationDependencies{
		Sessions: sessions,
		Tickets:  tickets,
		Identity: identity,
		Diagnostics: &stubDiagnostics{snap: map[string]string{
			"network_status": "degraded",
			"line_status":    "no sync",
		}},
		Classifier: NewClassifier(config.DefaultKeywords()),
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})

	return &engineFixture{
		engine:    engine,
		tickets:   tickets,
		sessions:  sessions,
		identity:  identity,
		ticketing: ticketing,
	}
}

func (f *engineFixture) send(t *testing.T, msg string) string {
	t.Helper()
	reply, err := f.engine.HandleMessage(context.Background(), testCaller, msg)
	if err != nil {
		t.Fatalf("HandleMessage(%q) error: %v", msg, err)
	}
	if reply == "" {
		t.Fatalf("HandleMessage(%q) returned empty reply", msg)
	}
	return reply
}

func (f *engineFixture) session(t *testing.T) *domain.Session {
	t.Helper()
	sess, err := f.engine.GetSession(context.Background(), testCaller)
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	return sess
}

func (f *engineFixture) openTickets(t *testing.T) []domain.Ticket {
	t.Helper()
	tickets, err := f.tickets.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("ListOpen() error: %v", err)
	}
	return tickets
}

// driveToTroubleshooting walks a residential fiber caller to the
// troubleshooting state with a connectivity issue.
func (f *engineFixture) driveToTroubleshooting(t *testing.T) {
	t.Helper()
	f.send(t, "hello")
	f.send(t, "residential customer")
	f.send(t, "fiber")
	f.send(t, "no internet since this morning")
	if got := f.session(t).State; got != domain.StateTroubleshooting {
		t.Fatalf("state = %q, want %q", got, domain.StateTroubleshooting)
	}
}

func TestFullCredentialFlow(t *testing.T) {
	f := newEngineFixture(t)

	reply := f.send(t, "hello")
	if !strings.Contains(reply, "Residential") {
		t.Errorf("greeting reply missing menu: %q", reply)
	}

	f.send(t, "residential customer")
	if got := f.session(t).State; got != domain.StateServiceIdentification {
		t.Fatalf("state = %q, want %q", got, domain.StateServiceIdentification)
	}

	f.send(t, "I have fiber")
	f.send(t, "I need my wifi password")
	if got := f.session(t).State; got != domain.StateVerifying {
		t.Fatalf("state = %q, want %q", got, domain.StateVerifying)
	}

	reply = f.send(t, "wrong-secret")
	if !strings.Contains(reply, "2 attempts remaining") {
		t.Errorf("retry reply = %q, want remaining-attempts notice", reply)
	}

	reply = f.send(t, "5551234567")
	if !strings.Contains(reply, "ProTek2024Secure!") {
		t.Errorf("credentials reply = %q, want password included", reply)
	}

	sess := f.session(t)
	if !sess.Verified {
		t.Error("session not marked verified after successful check")
	}
	if sess.State != domain.StateTroubleshooting {
		t.Errorf("state = %q, want %q", sess.State, domain.StateTroubleshooting)
	}
	if sess.VerificationAttempts != 1 {
		t.Errorf("verification attempts = %d, want 1", sess.VerificationAttempts)
	}
}

func TestVerificationExhaustionEscalates(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "residential customer")
	f.send(t, "fiber")
	f.send(t, "wifi password please")

	f.send(t, "nope1-wrong")
	f.send(t, "nope2-wrong")
	reply := f.send(t, "nope3-wrong")
	if !strings.Contains(reply, "2 hours") {
		t.Errorf("exhaustion reply = %q, want customer service SLA", reply)
	}

	sess := f.session(t)
	if sess.State != domain.StateEscalated {
		t.Fatalf("state = %q, want %q", sess.State, domain.StateEscalated)
	}
	if sess.VerificationAttempts != domain.MaxVerificationAttempts {
		t.Errorf("attempts = %d, want %d", sess.VerificationAttempts, domain.MaxVerificationAttempts)
	}
	if sess.ActiveTicketID == "" {
		t.Fatal("no active ticket after forced escalation")
	}

	ticket, err := f.tickets.GetByID(context.Background(), sess.ActiveTicketID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if ticket.Category != domain.CategoryVerificationFailure {
		t.Errorf("ticket category = %q, want %q", ticket.Category, domain.CategoryVerificationFailure)
	}
	if ticket.Status != domain.TicketStatusPendingVerifReview {
		t.Errorf("ticket status = %q, want %q", ticket.Status, domain.TicketStatusPendingVerifReview)
	}
}

func TestDisclosureDeniedWithoutEntitlement(t *testing.T) {
	f := newEngineFixture(t)
	f.identity.profiles[testCaller].WifiDisclosureAuthorized = false

	f.send(t, "hello")
	f.send(t, "residential customer")
	f.send(t, "fiber")
	f.send(t, "wifi password please")
	reply := f.send(t, "5551234567")

	if strings.Contains(reply, "ProTek2024Secure!") {
		t.Fatalf("credentials disclosed without entitlement: %q", reply)
	}
	if !f.session(t).Verified {
		t.Error("verification result lost on refused disclosure")
	}
}

func TestDisclosureDeniedWithoutCredentialsOnFile(t *testing.T) {
	f := newEngineFixture(t)
	f.identity.profiles[testCaller].WifiCredentials = nil

	f.send(t, "hello")
	f.send(t, "residential customer")
	f.send(t, "fiber")
	f.send(t, "wifi password please")
	reply := f.send(t, "5551234567")

	if strings.Contains(reply, "Password:") {
		t.Fatalf("credentials disclosed with none on file: %q", reply)
	}
}

func TestBusinessEscalatesImmediately(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	reply := f.send(t, "we are a business customer, internet is down")

	if !strings.Contains(reply, "15 minutes") {
		t.Errorf("business escalation reply = %q, want 15 minute SLA", reply)
	}

	sess := f.session(t)
	if sess.State != domain.StateEscalated {
		t.Fatalf("state = %q, want %q", sess.State, domain.StateEscalated)
	}
	if sess.CustomerClass != domain.ClassBusiness {
		t.Errorf("customer class = %q, want %q", sess.CustomerClass, domain.ClassBusiness)
	}

	tickets := f.openTickets(t)
	if len(tickets) != 1 {
		t.Fatalf("open tickets = %d, want 1", len(tickets))
	}
	ticket := tickets[0]
	if ticket.Category != domain.CategoryBusinessEscalation {
		t.Errorf("category = %q, want %q", ticket.Category, domain.CategoryBusinessEscalation)
	}
	if ticket.Priority != domain.TicketPriorityCritical {
		t.Errorf("priority = %q, want %q", ticket.Priority, domain.TicketPriorityCritical)
	}
}

func TestEnterpriseEscalatesImmediately(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	reply := f.send(t, "enterprise account, total outage")

	if !strings.Contains(reply, "10 minutes") {
		t.Errorf("enterprise escalation reply = %q, want 10 minute SLA", reply)
	}
	tickets := f.openTickets(t)
	if len(tickets) != 1 || tickets[0].Category != domain.CategoryEnterpriseEscalation {
		t.Fatalf("expected one enterprise escalation ticket, got %+v", tickets)
	}
}

func TestTicketFailureKeepsPreEscalationState(t *testing.T) {
	f := newEngineFixture(t)
	f.ticketing.err = errors.New("sonar unreachable")

	f.send(t, "hello")
	reply := f.send(t, "we are a business customer")

	if !strings.Contains(reply, "try again") {
		t.Errorf("failure reply = %q, want retry guidance", reply)
	}

	sess := f.session(t)
	if sess.State != domain.StateClassifying {
		t.Errorf("state = %q, want %q after failed creation", sess.State, domain.StateClassifying)
	}
	if sess.CustomerClass != "" {
		t.Errorf("customer class = %q, want empty after failed creation", sess.CustomerClass)
	}
	if sess.ActiveTicketID != "" {
		t.Errorf("active ticket id = %q, want empty", sess.ActiveTicketID)
	}

	// backend recovers, the same message succeeds
	f.ticketing.err = nil
	f.send(t, "we are a business customer")
	if got := f.session(t).State; got != domain.StateEscalated {
		t.Errorf("state after retry = %q, want %q", got, domain.StateEscalated)
	}
}

func TestEscalationOverrideMidTroubleshooting(t *testing.T) {
	f := newEngineFixture(t)
	f.driveToTroubleshooting(t)

	f.send(t, "this is urgent, I need a supervisor")

	sess := f.session(t)
	if sess.State != domain.StateEscalated {
		t.Fatalf("state = %q, want %q", sess.State, domain.StateEscalated)
	}
	tickets := f.openTickets(t)
	if len(tickets) != 1 || tickets[0].Category != domain.CategoryTechnicalSupport {
		t.Fatalf("expected one technical support ticket, got %+v", tickets)
	}
	if tickets[0].Description == "" {
		t.Error("override ticket carries no description")
	}
}

func TestEscalationKeywordIgnoredBeforeClassification(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "this is urgent")

	if got := len(f.openTickets(t)); got != 0 {
		t.Errorf("tickets created before classification = %d, want 0", got)
	}
	if got := f.session(t).State; got != domain.StateClassifying {
		t.Errorf("state = %q, want %q", got, domain.StateClassifying)
	}
}

func TestResetDiscardsProgress(t *testing.T) {
	f := newEngineFixture(t)
	f.driveToTroubleshooting(t)

	reply := f.send(t, "reset")
	if !strings.Contains(reply, "restarted") {
		t.Errorf("reset reply = %q, want restart notice", reply)
	}

	sess := f.session(t)
	if sess.State != domain.StateClassifying {
		t.Errorf("state = %q, want %q", sess.State, domain.StateClassifying)
	}
	if sess.CustomerClass != "" || sess.ServiceType != "" || sess.IssueDescription != "" {
		t.Errorf("session retained progress after reset: %+v", sess)
	}
	if len(sess.History) != 1 {
		t.Errorf("history length = %d, want 1 after reset", len(sess.History))
	}
}

func TestEscalatedSessionReportsStatus(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "business customer")
	ticketID := f.session(t).ActiveTicketID
	if ticketID == "" {
		t.Fatal("no active ticket after business escalation")
	}

	reply := f.send(t, "any update on my issue?")
	if !strings.Contains(reply, "SONAR-") {
		t.Errorf("status reply = %q, want external reference", reply)
	}

	ticket, err := f.tickets.GetByID(context.Background(), ticketID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	found := false
	for _, e := range ticket.ConversationSnapshot {
		if e.Inbound == "any update on my issue?" {
			found = true
		}
	}
	if !found {
		t.Error("follow-up message not appended to ticket conversation")
	}
}

func TestEscalatedSessionLeavesOnlyViaReset(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "business customer")
	ticketID := f.session(t).ActiveTicketID

	// a resolution keyword marks the ticket but the session stays escalated
	reply := f.send(t, "it's working now, all good")
	if !strings.Contains(reply, "noted") {
		t.Errorf("resolution reply = %q, want acknowledgement", reply)
	}
	sess := f.session(t)
	if sess.State != domain.StateEscalated {
		t.Errorf("state = %q, want %q", sess.State, domain.StateEscalated)
	}
	if sess.ActiveTicketID != ticketID {
		t.Errorf("active ticket id = %q, want %q retained", sess.ActiveTicketID, ticketID)
	}

	ticket, err := f.tickets.GetByID(context.Background(), ticketID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if ticket.Status != domain.TicketStatusResolved {
		t.Errorf("ticket status = %q, want %q", ticket.Status, domain.TicketStatusResolved)
	}

	// further messages keep the session parked on the ticket
	f.send(t, "thanks")
	if got := f.session(t).State; got != domain.StateEscalated {
		t.Errorf("state = %q, want %q", got, domain.StateEscalated)
	}

	f.send(t, "reset")
	sess = f.session(t)
	if sess.State != domain.StateClassifying {
		t.Errorf("state after reset = %q, want %q", sess.State, domain.StateClassifying)
	}
	if sess.ActiveTicketID != "" {
		t.Errorf("active ticket id = %q, want empty after reset", sess.ActiveTicketID)
	}
}

func TestManagedITScopeForwardsPureIT(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "we are a northbridge customer")
	if got := f.session(t).State; got != domain.StateManagedITScope {
		t.Fatalf("state = %q, want %q", got, domain.StateManagedITScope)
	}

	reply := f.send(t, "our email server and backups are failing")
	if !strings.Contains(reply, "Northbridge") {
		t.Errorf("forward reply = %q, want Northbridge routing", reply)
	}

	sess := f.session(t)
	if sess.State != domain.StateEscalated || sess.ActiveTicketID == "" {
		t.Fatalf("session = %q / ticket %q, want escalated with a ticket", sess.State, sess.ActiveTicketID)
	}
	ticket, err := f.tickets.GetByID(context.Background(), sess.ActiveTicketID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if ticket.Category != domain.CategoryManagedITForward {
		t.Errorf("category = %q, want %q", ticket.Category, domain.CategoryManagedITForward)
	}
	if ticket.Status != domain.TicketStatusForwarded {
		t.Errorf("ticket status = %q, want %q", ticket.Status, domain.TicketStatusForwarded)
	}

	// forwarded tickets belong to the receiving team, not the open queue
	if got := len(f.openTickets(t)); got != 0 {
		t.Errorf("open queue size = %d, want 0 for a forwarded ticket", got)
	}
}

func TestManagedITScopeRoutesInternetIssues(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "northbridge managed services")
	f.send(t, "our internet connection is the problem")

	if got := f.session(t).State; got != domain.StateServiceIdentification {
		t.Errorf("state = %q, want %q", got, domain.StateServiceIdentification)
	}
	if got := len(f.openTickets(t)); got != 0 {
		t.Errorf("tickets = %d, want 0 for internet-scoped managed IT", got)
	}
}

func TestVerificationOutageDoesNotBurnAttempt(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "residential customer")
	f.send(t, "fiber")
	f.send(t, "wifi password please")

	f.identity.verifyErr = errors.New("directory timeout")
	reply := f.send(t, "5551234567")
	if !strings.Contains(reply, "not been counted") {
		t.Errorf("outage reply = %q, want uncounted-attempt notice", reply)
	}
	if got := f.session(t).VerificationAttempts; got != 0 {
		t.Errorf("attempts = %d, want 0 after gateway outage", got)
	}

	f.identity.verifyErr = nil
	reply = f.send(t, "5551234567")
	if !strings.Contains(reply, "Network:") {
		t.Errorf("post-recovery reply = %q, want credentials", reply)
	}
}

func TestUnknownCallerVerifiesByHeuristic(t *testing.T) {
	f := newEngineFixture(t)
	delete(f.identity.secrets, testCaller)
	delete(f.identity.profiles, testCaller)

	f.send(t, "hello")
	f.send(t, "residential customer")
	f.send(t, "fiber")
	f.send(t, "wifi password please")

	// short inputs fail the heuristic
	reply := f.send(t, "123")
	if !strings.Contains(reply, "didn't match") {
		t.Errorf("short input reply = %q, want retry", reply)
	}

	// long inputs pass it, but no profile means no disclosure
	reply = f.send(t, "555-000-1234")
	if strings.Contains(reply, "Password:") {
		t.Errorf("unknown caller received credentials: %q", reply)
	}
	if !f.session(t).Verified {
		t.Error("heuristic pass did not mark session verified")
	}
}

func TestUnknownStateStartsOver(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")

	_, err := f.sessions.Update(context.Background(), testCaller, func(sess *domain.Session) (*domain.Session, error) {
		sess.State = domain.ConversationState("BOGUS")
		return sess, nil
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	reply := f.send(t, "anything")
	if !strings.Contains(reply, "customer type") {
		t.Errorf("recovery reply = %q, want classification prompt", reply)
	}
	if got := f.session(t).State; got != domain.StateClassifying {
		t.Errorf("state = %q, want %q", got, domain.StateClassifying)
	}
}

func TestResolvedSessionRestartsOnGreeting(t *testing.T) {
	f := newEngineFixture(t)
	f.driveToTroubleshooting(t)
	f.send(t, "all good, it's fixed")
	if got := f.session(t).State; got != domain.StateResolved {
		t.Fatalf("state = %q, want %q", got, domain.StateResolved)
	}

	reply := f.send(t, "something else happened")
	if !strings.Contains(reply, "resolved") {
		t.Errorf("post-resolution reply = %q, want closed-session notice", reply)
	}

	f.send(t, "hello")
	if got := f.session(t).State; got != domain.StateClassifying {
		t.Errorf("state = %q, want %q after restart", got, domain.StateClassifying)
	}
}

func TestCallerIDNormalization(t *testing.T) {
	f := newEngineFixture(t)

	if _, err := f.engine.HandleMessage(context.Background(), "+1 (555) 123-4567", "hello"); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	sess, err := f.engine.GetSession(context.Background(), testCaller)
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if sess.CallerID != testCaller {
		t.Errorf("caller id = %q, want %q", sess.CallerID, testCaller)
	}
}

func TestDiagnosticsFallbackOnGatewayError(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "residential customer")
	f.send(t, "fiber")

	failing := &stubDiagnostics{err: errors.New("diagnostics offline")}
	f.engine.diagnostics = failing

	reply := f.send(t, "no internet since this morning")
	if !strings.Contains(reply, "unknown") {
		t.Errorf("reply = %q, want fallback field values", reply)
	}
	if got := f.session(t).State; got != domain.StateTroubleshooting {
		t.Errorf("state = %q, want %q despite diagnostics outage", got, domain.StateTroubleshooting)
	}
}

func TestBusinessClassifiesFromFirstMessage(t *testing.T) {
	f := newEngineFixture(t)

	reply := f.send(t, "business")
	if !strings.Contains(reply, "SONAR-") {
		t.Errorf("reply = %q, want ticket reference in one call", reply)
	}
	if !strings.Contains(reply, "15 minutes") {
		t.Errorf("reply = %q, want business SLA", reply)
	}

	sess := f.session(t)
	if sess.State != domain.StateEscalated {
		t.Errorf("state = %q, want %q after one message", sess.State, domain.StateEscalated)
	}
	if sess.ActiveTicketID == "" {
		t.Error("no active ticket after first-message classification")
	}
}

func TestResidentialClassifiesFromFirstMessage(t *testing.T) {
	f := newEngineFixture(t)

	f.send(t, "residential")
	if got := f.session(t).State; got != domain.StateServiceIdentification {
		t.Errorf("state = %q, want %q after one message", got, domain.StateServiceIdentification)
	}
}

func TestUnclassifiedIssueEntersGeneralTroubleshooting(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "residential customer")
	f.send(t, "fiber")

	reply := f.send(t, "something seems weird with my equipment lately")
	if !strings.Contains(reply, "Service status:") {
		t.Errorf("reply = %q, want general diagnostic fields", reply)
	}

	sess := f.session(t)
	if sess.State != domain.StateTroubleshooting {
		t.Errorf("state = %q, want %q", sess.State, domain.StateTroubleshooting)
	}
	if sess.IssueCategory != domain.IssueUnclassified {
		t.Errorf("issue category = %q, want %q", sess.IssueCategory, domain.IssueUnclassified)
	}
}

func TestOverrideCategoryFixedToTechnicalSupport(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "northbridge managed services")
	if got := f.session(t).State; got != domain.StateManagedITScope {
		t.Fatalf("state = %q, want %q", got, domain.StateManagedITScope)
	}

	f.send(t, "this is urgent, escalate now")

	sess := f.session(t)
	if sess.State != domain.StateEscalated {
		t.Fatalf("state = %q, want %q", sess.State, domain.StateEscalated)
	}
	ticket, err := f.tickets.GetByID(context.Background(), sess.ActiveTicketID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if ticket.Category != domain.CategoryTechnicalSupport {
		t.Errorf("override ticket category = %q, want %q", ticket.Category, domain.CategoryTechnicalSupport)
	}
}

func TestCredentialDisclosureGatePairs(t *testing.T) {
	cases := []struct {
		name       string
		verified   bool
		authorized bool
		want       bool
	}{
		{"verified and authorized", true, true, true},
		{"verified only", true, false, false},
		{"authorized only", false, true, false},
		{"neither", false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newEngineFixture(t)
			f.identity.profiles[testCaller].WifiDisclosureAuthorized = tc.authorized

			sess := domain.NewSession(testCaller)
			sess.Verified = tc.verified

			reply := f.engine.discloseCredentials(context.Background(), sess)
			if got := strings.Contains(reply, "ProTek2024Secure!"); got != tc.want {
				t.Errorf("password disclosed = %v, want %v (reply %q)", got, tc.want, reply)
			}
		})
	}
}

func TestMenuRepromptIdempotent(t *testing.T) {
	f := newEngineFixture(t)
	f.send(t, "hello")
	f.send(t, "residential customer")

	first := f.send(t, "zebra")
	second := f.send(t, "zebra")
	if first != second {
		t.Errorf("re-prompt replies differ: %q vs %q", first, second)
	}
	if got := f.session(t).State; got != domain.StateServiceIdentification {
		t.Errorf("state = %q, want %q after re-prompts", got, domain.StateServiceIdentification)
	}
}
