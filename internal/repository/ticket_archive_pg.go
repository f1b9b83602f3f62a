package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// TicketArchive persists created tickets outside process memory. It is a
// write-through audit trail, not the source of truth; the ticket manager
// still serves reads from its in-memory store.
type TicketArchive interface {
	ArchiveTicket(ctx context.Context, ticket *domain.Ticket) error
	ArchiveStatus(ctx context.Context, ticketID string, status domain.TicketStatus, note string) error
}

type pgTicketArchive struct {
	pool *pgxpool.Pool
}

// NewPgTicketArchive creates the postgres-backed archive.
func NewPgTicketArchive(pool *pgxpool.Pool) TicketArchive {
	return &pgTicketArchive{pool: pool}
}

// EnsureArchiveSchema creates the archive tables when missing.
func EnsureArchiveSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
        CREATE TABLE IF NOT EXISTS ticket_archive (
            id TEXT PRIMARY KEY,
            external_id TEXT NOT NULL,
            category TEXT NOT NULL,
            customer_id TEXT NOT NULL,
            caller_id TEXT NOT NULL,
            service_type TEXT,
            description TEXT NOT NULL,
            priority TEXT NOT NULL,
            status TEXT NOT NULL,
            routed_to TEXT NOT NULL,
            conversation JSONB,
            diagnostics JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS ticket_status_archive (
            id BIGSERIAL PRIMARY KEY,
            ticket_id TEXT NOT NULL REFERENCES ticket_archive(id),
            status TEXT NOT NULL,
            note TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`
	_, err := pool.Exec(ctx, schema)
	return err
}

func (a *pgTicketArchive) ArchiveTicket(ctx context.Context, ticket *domain.Ticket) error {
	conversation, err := json.Marshal(ticket.ConversationSnapshot)
	if err != nil {
		return err
	}
	diagnostics, err := json.Marshal(ticket.DiagnosticSnapshot)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO ticket_archive
            (id, external_id, category, customer_id, caller_id, service_type, description, priority, status, routed_to, conversation, diagnostics, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err = a.pool.Exec(ctx, query,
		ticket.ID,
		ticket.ExternalID,
		ticket.Category,
		ticket.CustomerID,
		ticket.CallerID,
		ticket.ServiceType,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.RoutedTo,
		conversation,
		diagnostics,
		ticket.CreatedAt,
	)
	return err
}

func (a *pgTicketArchive) ArchiveStatus(ctx context.Context, ticketID string, status domain.TicketStatus, note string) error {
	const query = `
        UPDATE ticket_archive SET status=$1, updated_at=NOW() WHERE id=$2`
	if _, err := a.pool.Exec(ctx, query, status, ticketID); err != nil {
		return err
	}
	const insert = `
        INSERT INTO ticket_status_archive (ticket_id, status, note) VALUES ($1,$2,$3)`
	_, err := a.pool.Exec(ctx, insert, ticketID, status, note)
	return err
}
