package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// ErrNotFound signals an identity lookup that matched no account. Always
// recoverable; the engine replies politely and stays at its current gate.
var ErrNotFound = errors.New("account not found")

// ErrUnavailable signals a failed or timed-out backend call.
var ErrUnavailable = errors.New("gateway unavailable")

// IdentityGateway resolves callers to account profiles and checks
// verification secrets. Implementations must honor ctx deadlines.
type IdentityGateway interface {
	Lookup(ctx context.Context, callerID string) (*domain.CustomerProfile, error)
	Verify(ctx context.Context, callerID, input string) (bool, error)
}

// DiagnosticsGateway runs best-effort checks for an account. The returned map
// may be partial or empty; callers must tolerate absent keys.
type DiagnosticsGateway interface {
	Run(ctx context.Context, accountID string, serviceType domain.ServiceType, category domain.IssueCategory) (map[string]string, error)
}

// ExternalTicketRequest is the payload sent to the downstream ticketing system.
type ExternalTicketRequest struct {
	Subject     string
	Description string
	Priority    domain.TicketPriority
	AccountRef  string
}

// TicketingGateway obtains durable ticket identifiers from the downstream
// ticketing system. A failure here must abort ticket creation entirely.
type TicketingGateway interface {
	CreateExternalTicket(ctx context.Context, req ExternalTicketRequest) (string, error)
}

// NormalizePhone reduces a phone-shaped identifier to its last ten digits.
// Identifiers with fewer than seven digits (web chat handles) come back
// unchanged.
func NormalizePhone(id string) string {
	var digits strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 7 {
		return id
	}
	if len(d) > 10 {
		d = d[len(d)-10:]
	}
	return d
}
