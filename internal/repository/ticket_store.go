package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// ErrTicketNotFound is returned when no ticket exists for the given id.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketStore holds tickets for the process lifetime. The ticket manager is
// the only writer.
type TicketStore interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Save(ctx context.Context, ticket *domain.Ticket) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Ticket, error)
	ListOpen(ctx context.Context) ([]domain.Ticket, error)
}

// MemoryTicketStore is the in-memory ticket backend.
type MemoryTicketStore struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	order   []string
}

// NewMemoryTicketStore creates an empty store.
func NewMemoryTicketStore() *MemoryTicketStore {
	return &MemoryTicketStore{tickets: make(map[string]*domain.Ticket)}
}

// Create stores a new ticket; ids must be unique.
func (s *MemoryTicketStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tickets[ticket.ID]; exists {
		return errors.New("duplicate ticket id")
	}
	copied := *ticket
	s.tickets[ticket.ID] = &copied
	s.order = append(s.order, ticket.ID)
	return nil
}

// GetByID returns a copy of the ticket.
func (s *MemoryTicketStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

// Save replaces an existing ticket.
func (s *MemoryTicketStore) Save(ctx context.Context, ticket *domain.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[ticket.ID]; !ok {
		return ErrTicketNotFound
	}
	copied := *ticket
	s.tickets[ticket.ID] = &copied
	return nil
}

// ListByCustomer returns tickets for a customer in creation order.
func (s *MemoryTicketStore) ListByCustomer(ctx context.Context, customerID string) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []domain.Ticket{}
	for _, id := range s.order {
		if t := s.tickets[id]; t.CustomerID == customerID {
			result = append(result, *t)
		}
	}
	return result, nil
}

// ListOpen returns tickets still needing attention, in creation order.
func (s *MemoryTicketStore) ListOpen(ctx context.Context) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []domain.Ticket{}
	for _, id := range s.order {
		if t := s.tickets[id]; t.IsOpen() {
			result = append(result, *t)
		}
	}
	return result, nil
}
