package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/protekweb/support-chatbot/internal/auth"
	"github.com/protekweb/support-chatbot/internal/config"
	"github.com/protekweb/support-chatbot/internal/domain"
	apperrors "github.com/protekweb/support-chatbot/pkg/util"
)

// StaffAuthService authenticates support agents for the ticket API. Agents
// are seeded from configuration; there is no self-service registration.
type StaffAuthService struct {
	mu       sync.RWMutex
	agents   map[string]*domain.SupportAgent
	byEmail  map[string]string
	tokenMgr *auth.TokenManager
}

// NewStaffAuthService builds the service and seeds the configured agent.
// An empty configured password leaves the directory empty and every login
// fails, which is the safe default for deployments without a staff API.
func NewStaffAuthService(cfg config.AuthConfig) (*StaffAuthService, error) {
	s := &StaffAuthService{
		agents:   make(map[string]*domain.SupportAgent),
		byEmail:  make(map[string]string),
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}

	if cfg.AgentPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AgentPassword), cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		s.addAgent(&domain.SupportAgent{
			ID:           uuid.NewString(),
			Name:         cfg.AgentName,
			Email:        strings.ToLower(cfg.AgentEmail),
			PasswordHash: string(hash),
			Role:         domain.AgentRoleSupport,
		})
	}
	return s, nil
}

// Tokens exposes the token manager for the auth middleware.
func (s *StaffAuthService) Tokens() *auth.TokenManager {
	return s.tokenMgr
}

func (s *StaffAuthService) addAgent(agent *domain.SupportAgent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[agent.ID] = agent
	s.byEmail[agent.Email] = agent.ID
}

// Login checks credentials and issues an access token.
func (s *StaffAuthService) Login(ctx context.Context, email, password string) (*domain.SupportAgent, string, time.Time, error) {
	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	var agent *domain.SupportAgent
	if ok {
		agent = s.agents[id]
	}
	s.mu.RUnlock()

	if agent == nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	role := agent.Role
	token, expiresAt, err := s.tokenMgr.GenerateToken(agent.ID, domain.SubjectTypeAgent, &role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return agent, token, expiresAt, nil
}

// AgentByID resolves an agent referenced by a token claim.
func (s *StaffAuthService) AgentByID(ctx context.Context, id string) (*domain.SupportAgent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agent, ok := s.agents[id]
	if !ok {
		return nil, apperrors.NewNotFound("agent", map[string]any{"id": id})
	}
	return agent, nil
}
