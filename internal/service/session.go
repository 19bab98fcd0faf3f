package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/metrics"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/pkg/jwt"
)

// SessionService issues and verifies session tokens
type SessionService struct {
	tokens  *jwt.Service
	metrics *metrics.PortalMetrics
}

// SessionServiceConfig holds configuration for the session service
type SessionServiceConfig struct {
	Tokens  *jwt.Service
	Metrics *metrics.PortalMetrics // optional
}

// NewSessionService creates a new session service
func NewSessionService(cfg SessionServiceConfig) *SessionService {
	return &SessionService{
		tokens:  cfg.Tokens,
		metrics: cfg.Metrics,
	}
}

// Issue signs a token for payload. The payload must carry a non-empty
// email; every other field is kept as sent.
func (s *SessionService) Issue(ctx context.Context, payload map[string]any) (string, error) {
	email, _ := payload["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", ErrEmailRequired
	}

	token, err := s.tokens.Sign(jwt.Claims{Identity: payload})
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	s.metrics.SessionIssued()
	slog.DebugContext(ctx, "session issued", slog.String("email", email))
	return token, nil
}

// Verify validates a token read from the session cookie and returns its
// claims. Every failure is reported as ErrUnauthorized.
func (s *SessionService) Verify(ctx context.Context, token string) (*jwt.Claims, error) {
	if token == "" {
		s.metrics.SessionRejected("missing")
		return nil, ErrUnauthorized
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		reason := rejectionReason(err)
		s.metrics.SessionRejected(reason)
		slog.DebugContext(ctx, "session rejected", slog.String("reason", reason))
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return claims, nil
}

// Lifetime returns how long an issued token stays valid
func (s *SessionService) Lifetime() time.Duration {
	return s.tokens.GetExpiration()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, jwt.ErrInvalidSignature):
		return "bad_signature"
	case errors.Is(err, jwt.ErrUnsupportedAlgorithm):
		return "bad_algorithm"
	default:
		return "malformed"
	}
}

// authorizeOwner checks that the session belongs to email
func authorizeOwner(claims *jwt.Claims, email string) error {
	if claims == nil {
		return ErrUnauthorized
	}
	if email == "" || claims.Email() != email {
		return ErrForbidden
	}
	return nil
}
