package service

import (
	"context"
	"testing"

	"github.com/protekweb/support-chatbot/internal/config"
	"github.com/protekweb/support-chatbot/internal/domain"
	apperrors "github.com/protekweb/support-chatbot/pkg/util"
)

func newStaffAuthFixture(t *testing.T, password string) *StaffAuthService {
	t.Helper()
	svc, err := NewStaffAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            4,
		AgentEmail:            "agent@protekweb.com",
		AgentName:             "Test Agent",
		AgentPassword:         password,
	})
	if err != nil {
		t.Fatalf("NewStaffAuthService() error: %v", err)
	}
	return svc
}

func TestStaffLoginIssuesParsableToken(t *testing.T) {
	svc := newStaffAuthFixture(t, "agent-password")

	agent, token, _, err := svc.Login(context.Background(), "Agent@Protekweb.com", "agent-password")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if agent.Role != domain.AgentRoleSupport {
		t.Errorf("agent role = %q, want %q", agent.Role, domain.AgentRoleSupport)
	}

	claims, err := svc.Tokens().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.SubjectID != agent.ID {
		t.Errorf("token subject = %q, want %q", claims.SubjectID, agent.ID)
	}

	resolved, err := svc.AgentByID(context.Background(), claims.SubjectID)
	if err != nil {
		t.Fatalf("AgentByID() error: %v", err)
	}
	if resolved.Email != "agent@protekweb.com" {
		t.Errorf("agent email = %q, want %q", resolved.Email, "agent@protekweb.com")
	}
}

func TestStaffLoginRejectsWrongPassword(t *testing.T) {
	svc := newStaffAuthFixture(t, "agent-password")

	_, _, _, err := svc.Login(context.Background(), "agent@protekweb.com", "wrong")
	if !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("Login() error = %v, want UNAUTHORIZED", err)
	}
}

func TestStaffLoginDisabledWithoutSeededAgent(t *testing.T) {
	svc := newStaffAuthFixture(t, "")

	_, _, _, err := svc.Login(context.Background(), "agent@protekweb.com", "anything")
	if !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("Login() error = %v, want UNAUTHORIZED when no agent seeded", err)
	}
}
