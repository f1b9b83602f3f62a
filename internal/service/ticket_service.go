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
	apperrors "github.com/protekweb/support-chatbot/pkg/util"
)

// categoryRoute fixes priority, initial status, routing target and SLA per
// ticket category. The mapping is business policy and not configurable.
type CategoryRoute struct {
	Priority      domain.TicketPriority
	InitialStatus domain.TicketStatus
	RoutedTo      string
	ResponseTime  string
	SubjectPrefix string
}

var categoryRoutes = map[domain.TicketCategory]CategoryRoute{
	domain.CategoryBusinessEscalation: {
		Priority:      domain.TicketPriorityCritical,
		InitialStatus: domain.TicketStatusEscalated,
		RoutedTo:      "on-call support team",
		ResponseTime:  "15 minutes",
		SubjectPrefix: "URGENT - Business Customer Support Request",
	},
	domain.CategoryEnterpriseEscalation: {
		Priority:      domain.TicketPriorityHigh,
		InitialStatus: domain.TicketStatusEscalated,
		RoutedTo:      "enterprise support team",
		ResponseTime:  "10 minutes",
		SubjectPrefix: "HIGH PRIORITY - Enterprise Customer Support Request",
	},
	domain.CategoryManagedITForward: {
		Priority:      domain.TicketPriorityMedium,
		InitialStatus: domain.TicketStatusForwarded,
		RoutedTo:      "Northbridge IT Services team",
		ResponseTime:  "30 minutes",
		SubjectPrefix: "Managed IT Services Request",
	},
	domain.CategoryTechnicalSupport: {
		Priority:      domain.TicketPriorityMedium,
		InitialStatus: domain.TicketStatusOpen,
		RoutedTo:      "technical support team",
		ResponseTime:  "2-4 hours",
		SubjectPrefix: "Technical Support Request",
	},
	domain.CategoryVerificationFailure: {
		Priority:      domain.TicketPriorityMedium,
		InitialStatus: domain.TicketStatusPendingVerifReview,
		RoutedTo:      "customer service team",
		ResponseTime:  "2 hours",
		SubjectPrefix: "Customer Identity Verification Failed",
	},
}

// RouteFor exposes the fixed routing for a category.
func RouteFor(category domain.TicketCategory) (CategoryRoute, bool) {
	route, ok := categoryRoutes[category]
	return route, ok
}

// TicketService owns the ticket lifecycle. It is the only mutator of ticket
// status and the sole source of truth for ticket contents.
type TicketService struct {
	store       repository.TicketStore
	archive     repository.TicketArchive
	ticketing   gateway.TicketingGateway
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	metrics     *observability.Metrics
	callTimeout time.Duration
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store       repository.TicketStore
	Archive     repository.TicketArchive
	Ticketing   gateway.TicketingGateway
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	CallTimeout time.Duration
}

// TicketCreateInput describes one escalation event.
type TicketCreateInput struct {
	Category             domain.TicketCategory
	CustomerID           string
	CallerID             string
	ServiceType          domain.ServiceType
	Description          string
	ConversationSnapshot []domain.Exchange
	DiagnosticSnapshot   map[string]string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	timeout := deps.CallTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TicketService{
		store:       deps.Store,
		archive:     deps.Archive,
		ticketing:   deps.Ticketing,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		callTimeout: timeout,
	}
}

// Create obtains a durable external ticket id and records the ticket. The
// external call happens first: without a real reference there is no ticket,
// and the caller's session must stay in its pre-escalation state.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	route, ok := categoryRoutes[input.Category]
	if !ok {
		return nil, apperrors.NewValidationError("unknown ticket category", map[string]any{"category": input.Category})
	}

	subject := route.SubjectPrefix
	if input.ServiceType != "" {
		subject += " - " + input.ServiceType.Label()
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	externalID, err := s.ticketing.CreateExternalTicket(callCtx, gateway.ExternalTicketRequest{
		Subject:     subject,
		Description: strings.TrimSpace(input.Description),
		Priority:    route.Priority,
		AccountRef:  input.CustomerID,
	})
	if err != nil {
		s.logger.Error("external ticket creation failed",
			zap.String("category", string(input.Category)),
			zap.Error(err))
		return nil, apperrors.NewTicketCreationFailed(err)
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ID:                   uuid.NewString(),
		ExternalID:           externalID,
		Category:             input.Category,
		CustomerID:           input.CustomerID,
		CallerID:             input.CallerID,
		ServiceType:          input.ServiceType,
		Description:          strings.TrimSpace(input.Description),
		Priority:             route.Priority,
		Status:               route.InitialStatus,
		RoutedTo:             route.RoutedTo,
		ResponseTime:         route.ResponseTime,
		CreatedAt:            now,
		UpdatedAt:            now,
		ConversationSnapshot: input.ConversationSnapshot,
		DiagnosticSnapshot:   input.DiagnosticSnapshot,
		StatusHistory: []domain.StatusChange{
			{Status: route.InitialStatus, Note: "created", Timestamp: now},
		},
	}

	if err := s.store.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.metrics.RecordTicket(string(ticket.Category))
	s.archiveTicket(ctx, ticket)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		CallerID: ticket.CallerID,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Category:   ticket.Category,
			Priority:   ticket.Priority,
			RoutedTo:   ticket.RoutedTo,
			ExternalID: ticket.ExternalID,
			CustomerID: ticket.CustomerID,
		},
	})
	return ticket, nil
}

// GetByID returns the ticket or repository.ErrTicketNotFound.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateStatus transitions a ticket and appends to its status history.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus, note string) error {
	ticket, err := s.store.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	oldStatus := ticket.Status
	now := time.Now()
	ticket.Status = status
	ticket.UpdatedAt = now
	ticket.StatusHistory = append(ticket.StatusHistory, domain.StatusChange{
		Status:    status,
		Note:      note,
		Timestamp: now,
	})
	if err := s.store.Save(ctx, ticket); err != nil {
		return err
	}
	if s.archive != nil {
		if err := s.archive.ArchiveStatus(ctx, ticketID, status, note); err != nil {
			s.logger.Warn("ticket status archive failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
			Note:      note,
		},
	})
	return nil
}

// AppendConversation adds an exchange to the ticket's conversation snapshot.
func (s *TicketService) AppendConversation(ctx context.Context, ticketID, inbound, outbound string) error {
	ticket, err := s.store.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	ticket.ConversationSnapshot = append(ticket.ConversationSnapshot, domain.Exchange{
		Timestamp: time.Now(),
		Inbound:   inbound,
		Outbound:  outbound,
	})
	ticket.UpdatedAt = time.Now()
	return s.store.Save(ctx, ticket)
}

// ListByCustomer returns tickets for one customer.
func (s *TicketService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Ticket, error) {
	return s.store.ListByCustomer(ctx, customerID)
}

// ListOpen returns tickets with status open, escalated or pending review.
func (s *TicketService) ListOpen(ctx context.Context) ([]domain.Ticket, error) {
	return s.store.ListOpen(ctx)
}

func (s *TicketService) archiveTicket(ctx context.Context, ticket *domain.Ticket) {
	if s.archive == nil {
		return
	}
	if err := s.archive.ArchiveTicket(ctx, ticket); err != nil {
		s.logger.Warn("ticket archive write failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
