package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/protekweb/support-chatbot/internal/domain"
	apperrors "github.com/protekweb/support-chatbot/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated staff caller.
type Principal struct {
	SubjectType domain.SubjectType
	Agent       *domain.SupportAgent
	Role        *domain.AgentRole
}

// AgentResolver loads agents referenced by token claims.
type AgentResolver interface {
	AgentByID(ctx context.Context, id string) (*domain.SupportAgent, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	agents AgentResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, agents AgentResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, agents: agents}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Subject != domain.SubjectTypeAgent {
		return apperrors.NewUnauthorized("unknown subject")
	}

	agent, err := m.agents.AgentByID(c.Context(), claims.SubjectID)
	if err != nil {
		return apperrors.NewUnauthorized("agent not found")
	}

	c.Locals(principalKey, &Principal{
		SubjectType: claims.Subject,
		Agent:       agent,
		Role:        claims.Role,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
