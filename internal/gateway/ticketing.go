package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MockTicketing issues local SONAR-style ticket identifiers without any
// network call. Used whenever no ticketing API URL is configured.
type MockTicketing struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockTicketing returns the in-memory ticketing gateway.
func NewMockTicketing() *MockTicketing {
	return &MockTicketing{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateExternalTicket returns a generated identifier.
func (m *MockTicketing) CreateExternalTicket(ctx context.Context, req ExternalTicketRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	n := 100000 + m.rng.Intn(900000)
	m.mu.Unlock()
	return "SONAR-" + strconv.Itoa(n), nil
}

// SonarTicketing creates internal tickets through the Sonar GraphQL API.
type SonarTicketing struct {
	apiURL string
	token  string
	client *http.Client
	logger *zap.Logger
}

// NewSonarTicketing builds the client with a bounded call timeout.
func NewSonarTicketing(apiURL, token string, timeout time.Duration, logger *zap.Logger) *SonarTicketing {
	return &SonarTicketing{
		apiURL: apiURL,
		token:  token,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

const createTicketMutation = `
mutation CreateInternalTicket($input: CreateInternalTicketMutationInput!) {
    createInternalTicket(input: $input) {
        id
    }
}`

type sonarResponse struct {
	Data struct {
		CreateInternalTicket struct {
			ID string `json:"id"`
		} `json:"createInternalTicket"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// CreateExternalTicket runs the createInternalTicket mutation and returns the
// durable Sonar ticket id. Any transport or API error maps to ErrUnavailable.
func (s *SonarTicketing) CreateExternalTicket(ctx context.Context, req ExternalTicketRequest) (string, error) {
	input := map[string]any{
		"subject":     req.Subject,
		"description": req.Description,
		"priority":    string(req.Priority),
		"status":      "OPEN",
	}
	if req.AccountRef != "" {
		input["ticketable_type"] = "ACCOUNT"
		input["ticketable_id"] = req.AccountRef
	}

	body, err := json.Marshal(map[string]any{
		"query":     createTicketMutation,
		"variables": map[string]any{"input": input},
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Warn("sonar ticket creation failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("sonar ticket creation rejected", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed sonarResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(parsed.Errors) > 0 {
		s.logger.Warn("sonar ticket creation errors", zap.String("message", parsed.Errors[0].Message))
		return "", fmt.Errorf("%w: %s", ErrUnavailable, parsed.Errors[0].Message)
	}
	if parsed.Data.CreateInternalTicket.ID == "" {
		return "", fmt.Errorf("%w: empty ticket id", ErrUnavailable)
	}
	return parsed.Data.CreateInternalTicket.ID, nil
}
